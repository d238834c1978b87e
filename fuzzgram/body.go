package fuzzgram

import (
	"strconv"
	"strings"

	xslices "golang.org/x/exp/slices"

	"github.com/quenbyako/abnf2fuzz/abnf"
	"github.com/quenbyako/abnf2fuzz/slices"
)

// RuleBody renders node as a production body of the target grammar: a
// comma-joined list of alternatives, each a bracketed sequence of quoted
// literals and "<name>" references. Any non-toplevel occurrence of an
// extracted node becomes a reference to its synthesized rule instead of an
// inline expansion; that is what keeps recursive subexpressions finite.
//
// A bare sequence (no enclosing brackets) means a single alternative; the
// caller brackets it.
func RuleBody(node abnf.Node, extracted []abnf.Node, toplevel bool) (string, error) {
	if !toplevel && containsNode(extracted, node) {
		return reference(node), nil
	}

	switch n := node.(type) {
	case abnf.Alternatives:
		parts := make([]string, len(n))
		for i, child := range n {
			body, err := RuleBody(child, extracted, false)
			if err != nil {
				return "", err
			}
			parts[i] = "[" + body + "]"
		}
		return strings.Join(parts, ", "), nil
	case abnf.Concatenation:
		parts := make([]string, len(n))
		for i, child := range n {
			body, err := RuleBody(child, extracted, false)
			if err != nil {
				return "", err
			}
			parts[i] = body
		}
		return strings.Join(parts, ", "), nil
	case abnf.Repetition:
		return repetitionBody(n, extracted)
	case abnf.Group:
		return RuleBody(n.Node, extracted, false)
	case abnf.Optional:
		body, err := RuleBody(n.Node, extracted, false)
		if err != nil {
			return "", err
		}
		return "[], [" + body + "]", nil
	case abnf.Rulename:
		return `"<` + string(n) + `>"`, nil
	case abnf.Literal:
		if n == `\` {
			return `"\\"`, nil
		}
		return `"` + string(n) + `"`, nil
	case abnf.Range:
		var parts []string
		for r := n.Start; r <= n.End; r++ {
			parts = append(parts, "["+strconv.Quote(string(r))+"]")
		}
		return strings.Join(parts, ", "), nil
	case abnf.CodepointSeq:
		return strings.Join(slices.Remap(n, func(_ int, r rune) string {
			return strconv.Quote(string(r))
		}), ", "), nil
	default:
		return "", &UnsupportedConstructError{Node: node}
	}
}

// repetitionBody unrolls a repetition into explicit alternatives. Unbounded
// forms are encoded right-recursively: the tail alternative references the
// repetition's own synthesized rule.
func repetitionBody(rep abnf.Repetition, extracted []abnf.Node) (string, error) {
	single, err := RuleBody(rep.Node, extracted, false)
	if err != nil {
		return "", err
	}

	switch r := rep.Repeat.(type) {
	case abnf.Specific:
		return "[" + strings.Join(slices.Repeat(single, int(r)), ", ") + "]", nil
	case abnf.Variable:
		switch {
		case r.Min != nil && r.Max != nil:
			return "", &UnsupportedConstructError{Node: rep}
		case r.Min != nil:
			head := strings.Join(slices.Repeat(single, int(*r.Min)), ", ")
			return "[" + head + "], [" + single + ", " + reference(rep) + "]", nil
		case r.Max != nil:
			alts := make([]string, 0, int(*r.Max)+1)
			alts = append(alts, "[]")
			for i := 1; i <= int(*r.Max); i++ {
				alts = append(alts, "["+strings.Join(slices.Repeat(single, i), ", ")+"]")
			}
			return strings.Join(alts, ", "), nil
		default:
			return "[], [" + single + ", " + reference(rep) + "]", nil
		}
	default:
		return "", &UnsupportedConstructError{Node: rep}
	}
}

// reference names node under its toplevel rule name, so a self-reference
// always matches the key the rule is emitted under.
func reference(node abnf.Node) string {
	return `"<` + RuleName(node, true) + `>"`
}

func containsNode(set []abnf.Node, node abnf.Node) bool {
	h := node.Hash()
	return xslices.IndexFunc(set, func(m abnf.Node) bool { return m.Hash() == h }) >= 0
}
