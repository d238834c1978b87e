package fuzzgram

import (
	"strings"

	"github.com/quenbyako/abnf2fuzz/abnf"
)

// DefaultRoot is the production the synthetic start rule points at when the
// caller does not override it.
const DefaultRoot = "program"

// Convert renders rules as the final grammar text: a synthetic start rule
// referencing root, one rule per distinct extracted subexpression in
// discovery order (first synthesized name wins), then the original rules in
// declaration order. The extracted-node set is materialized fully before any
// body is synthesized, because reference substitution needs the complete
// set.
func Convert(rules []abnf.Rule, root string) (string, error) {
	if root == "" {
		root = DefaultRoot
	}

	extracted := ExtractNested(rules)

	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString(`  "<start>": [["<` + root + `>"]],` + "\n")

	seen := make(map[string]struct{}, len(extracted))
	for _, node := range extracted {
		name := RuleName(node, true)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		body, err := RuleBody(node, extracted, true)
		if err != nil {
			return "", err
		}
		b.WriteString(`  "<` + name + `>": [` + bracketBody(body) + "],\n")
	}

	for i, rule := range rules {
		body, err := RuleBody(rule.Node, extracted, false)
		if err != nil {
			return "", err
		}
		b.WriteString(`  "<` + rule.Name + `>": [` + bracketBody(body) + "]")
		if i < len(rules)-1 {
			b.WriteString(", \n")
		}
	}
	b.WriteString("\n}")

	return b.String(), nil
}

// bracketBody turns a bare sequence body into a single alternative; bodies
// that already enumerate alternatives start with '['.
func bracketBody(body string) string {
	if !strings.HasPrefix(body, "[") {
		return "[" + body + "]"
	}
	return body
}
