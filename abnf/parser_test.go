package abnf_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quenbyako/abnf2fuzz/abnf"
)

func u(n uint) *uint { return &n }

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		name     string
		input    string
		expected []abnf.Rule
	}{{
		name:     "literal",
		input:    `a = "a"`,
		expected: []abnf.Rule{{Name: "a", Node: abnf.Literal("a")}},
	}, {
		name:     "backslash literal",
		input:    `bs = "\"`,
		expected: []abnf.Rule{{Name: "bs", Node: abnf.Literal(`\`)}},
	}, {
		name:  "group of alternatives",
		input: `grp-a-any-bc = a ( b / c )`,
		expected: []abnf.Rule{{Name: "grp-a-any-bc", Node: abnf.Concatenation{
			abnf.Rulename("a"),
			abnf.Group{Node: abnf.Alternatives{abnf.Rulename("b"), abnf.Rulename("c")}},
		}}},
	}, {
		name:  "group of concatenation",
		input: `grp-a-all-bc = a ( b c )`,
		expected: []abnf.Rule{{Name: "grp-a-all-bc", Node: abnf.Concatenation{
			abnf.Rulename("a"),
			abnf.Group{Node: abnf.Concatenation{abnf.Rulename("b"), abnf.Rulename("c")}},
		}}},
	}, {
		name:  "optional",
		input: `opt = [ b ] a`,
		expected: []abnf.Rule{{Name: "opt", Node: abnf.Concatenation{
			abnf.Optional{Node: abnf.Rulename("b")},
			abnf.Rulename("a"),
		}}},
	}, {
		name:  "zero or more",
		input: `star-a = *a`,
		expected: []abnf.Rule{{Name: "star-a", Node: abnf.Repetition{
			Repeat: abnf.Variable{},
			Node:   abnf.Rulename("a"),
		}}},
	}, {
		name:  "at least",
		input: `one-star-a = 1*a`,
		expected: []abnf.Rule{{Name: "one-star-a", Node: abnf.Repetition{
			Repeat: abnf.Variable{Min: u(1)},
			Node:   abnf.Rulename("a"),
		}}},
	}, {
		name:  "at most",
		input: `star-two-a = *2a`,
		expected: []abnf.Rule{{Name: "star-two-a", Node: abnf.Repetition{
			Repeat: abnf.Variable{Max: u(2)},
			Node:   abnf.Rulename("a"),
		}}},
	}, {
		name:  "bounded both sides",
		input: `one-star-two-a = 1*2a`,
		expected: []abnf.Rule{{Name: "one-star-two-a", Node: abnf.Repetition{
			Repeat: abnf.Variable{Min: u(1), Max: u(2)},
			Node:   abnf.Rulename("a"),
		}}},
	}, {
		name:  "specific",
		input: `two-a = 2a`,
		expected: []abnf.Rule{{Name: "two-a", Node: abnf.Repetition{
			Repeat: abnf.Specific(2),
			Node:   abnf.Rulename("a"),
		}}},
	}, {
		name:     "hex range",
		input:    `upper = %x41-5A`,
		expected: []abnf.Rule{{Name: "upper", Node: abnf.Range{Start: 'A', End: 'Z'}}},
	}, {
		name:     "decimal sequence",
		input:    `crlf = %d13.10`,
		expected: []abnf.Rule{{Name: "crlf", Node: abnf.CodepointSeq{'\r', '\n'}}},
	}, {
		name:     "single codepoint",
		input:    `bang = %x21`,
		expected: []abnf.Rule{{Name: "bang", Node: abnf.CodepointSeq{'!'}}},
	}, {
		name: "comments and blank lines",
		input: `
; prelude comment
a = "a" ; trailing comment

b = a a
`,
		expected: []abnf.Rule{
			{Name: "a", Node: abnf.Literal("a")},
			{Name: "b", Node: abnf.Concatenation{abnf.Rulename("a"), abnf.Rulename("a")}},
		},
	}} {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := abnf.Parse(tt.name, strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.expected, rules)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
	}{{
		name:  "missing equals",
		input: `a "a"`,
	}, {
		name:  "unclosed group",
		input: `a = ( b c`,
	}, {
		name:  "hex digits in decimal terminal",
		input: `a = %dFF`,
	}, {
		name:  "range mixed with concatenation",
		input: `a = %d1.2-3`,
	}} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := abnf.Parse(tt.name, strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}
