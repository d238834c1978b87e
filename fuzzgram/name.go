package fuzzgram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quenbyako/abnf2fuzz/abnf"
	"github.com/quenbyako/abnf2fuzz/slices"
)

// Fullwidth parentheses bracket a compound fragment embedded inside a larger
// name. ABNF literals cannot contain them, so nested names stay unambiguous.
const (
	nestedRuleStart = "（"
	nestedRuleEnd   = "）"
)

// RuleName derives the deterministic rule name for node, purely from its
// structure. toplevel marks the node as the root of its own rule definition
// and suppresses the nesting markers around compound forms.
func RuleName(node abnf.Node, toplevel bool) string {
	var ret string
	switch n := node.(type) {
	case abnf.Alternatives:
		ret = wrapName(joinNames(n, "-or-"), toplevel)
	case abnf.Concatenation:
		ret = wrapName(joinNames(n, "-and-"), toplevel)
	case abnf.Repetition:
		ret = wrapName(repetitionRuleName(n, false), toplevel)
	case abnf.Group:
		ret = RuleName(n.Node, toplevel)
	case abnf.Optional:
		ret = "optional-" + RuleName(n.Node, false)
	case abnf.Rulename:
		ret = string(n)
	case abnf.Literal:
		ret = string(n)
	case abnf.Range:
		ret = wrapName(fmt.Sprintf("b%d-to-b%d", n.Start, n.End), toplevel)
	case abnf.CodepointSeq:
		ret = wrapName(strings.Join(slices.Remap(n, func(_ int, r rune) string {
			return strconv.Quote(string(r))
		}), "-and-"), toplevel)
	default:
		panic(fmt.Sprintf("unknown node %T", node))
	}

	return sanitizeName(ret)
}

func repetitionRuleName(rep abnf.Repetition, toplevel bool) string {
	plural := true
	var prefix string
	switch r := rep.Repeat.(type) {
	case abnf.Specific:
		prefix = strconv.FormatUint(uint64(r), 10)
	case abnf.Variable:
		switch {
		case r.Min != nil && r.Max != nil:
			prefix = fmt.Sprintf("between-%d-and-%d", *r.Min, *r.Max)
		case r.Min != nil:
			if *r.Min == 1 {
				plural = false
			}
			prefix = fmt.Sprintf("at-least-%d", *r.Min)
		case r.Max != nil:
			if *r.Max == 1 {
				plural = false
			}
			prefix = fmt.Sprintf("at-most-%d", *r.Max)
		default:
			prefix = "zero-or-more"
		}
	default:
		panic(fmt.Sprintf("unknown repeat %T", rep.Repeat))
	}

	name := RuleName(rep.Node, toplevel)
	// groups and repetitions already read as a compound unit
	switch rep.Node.(type) {
	case abnf.Group, abnf.Repetition:
		plural = false
	}

	if plural {
		return prefix + "-" + name + "s"
	}
	return prefix + "-" + name
}

func joinNames(nodes []abnf.Node, sep string) string {
	return strings.Join(slices.Remap(nodes, func(_ int, n abnf.Node) string {
		return RuleName(n, false)
	}), sep)
}

func wrapName(s string, toplevel bool) string {
	if toplevel {
		return s
	}
	return nestedRuleStart + s + nestedRuleEnd
}

// sanitizeName strips the characters the downstream grammar consumer cannot
// digest. The three replacements run in this exact order.
func sanitizeName(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "_", "underscore")
	s = strings.ReplaceAll(s, "--", "-minus")

	return s
}
