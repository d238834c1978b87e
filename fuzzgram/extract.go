// Package fuzzgram converts a parsed ABNF grammar into the flattened,
// JSON-style context-free grammar consumed by grammar-based fuzzers. The
// target format has no anonymous nesting and no repetition operator, so
// nested subexpressions are promoted to named top-level rules and repeats
// are unrolled into explicit alternatives.
package fuzzgram

import (
	"github.com/quenbyako/abnf2fuzz/abnf"
)

// ExtractNested collects, in discovery order, every nested subexpression
// that must become an independently named rule: repetitions, groups,
// optionals and codepoint ranges. Structurally equal nodes may occur several
// times in the result; the emitter deduplicates them by synthesized name.
func ExtractNested(rules []abnf.Rule) []abnf.Node {
	var res []abnf.Node
	for _, r := range rules {
		res = extractNode(r.Node, res)
	}

	return res
}

func extractNode(node abnf.Node, res []abnf.Node) []abnf.Node {
	switch n := node.(type) {
	case abnf.Alternatives:
		for _, child := range n {
			res = extractNode(child, res)
		}
	case abnf.Concatenation:
		for _, child := range n {
			res = extractNode(child, res)
		}
	case abnf.Repetition:
		res = append(res, n)
		res = extractNode(n.Node, res)
	case abnf.Group:
		res = append(res, n)
		res = extractNode(n.Node, res)
	case abnf.Optional:
		res = append(res, n)
		res = extractNode(n.Node, res)
	case abnf.Range:
		res = append(res, n)
	}
	// literals and codepoint sequences are always inlined, rulenames already
	// have a rule of their own

	return res
}
