package fuzzgram_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/quenbyako/abnf2fuzz/fuzzgram"
)

func TestConvert(t *testing.T) {
	for _, tt := range []struct {
		name     string
		ruleset  string
		root     string
		expected string
	}{{
		name: "group promotion",
		ruleset: `
a = "a"
b = "b"
c = "c"
grp-a-any-bc = a ( b / c )
`,
		expected: "{\n" +
			"  \"<start>\": [[\"<program>\"]],\n" +
			"  \"<b-or-c>\": [[\"<b>\"], [\"<c>\"]],\n" +
			"  \"<a>\": [[\"a\"]], \n" +
			"  \"<b>\": [[\"b\"]], \n" +
			"  \"<c>\": [[\"c\"]], \n" +
			"  \"<grp-a-any-bc>\": [[\"<a>\", \"<b-or-c>\"]]\n" +
			"}",
	}, {
		name: "right recursive star",
		ruleset: `
a = "a"
star-a = *a
`,
		expected: "{\n" +
			"  \"<start>\": [[\"<program>\"]],\n" +
			"  \"<zero-or-more-as>\": [[], [\"<a>\", \"<zero-or-more-as>\"]],\n" +
			"  \"<a>\": [[\"a\"]], \n" +
			"  \"<star-a>\": [[\"<zero-or-more-as>\"]]\n" +
			"}",
	}, {
		name:    "custom root",
		ruleset: `a = "a"`,
		root:    "a",
		expected: "{\n" +
			"  \"<start>\": [[\"<a>\"]],\n" +
			"  \"<a>\": [[\"a\"]]\n" +
			"}",
	}, {
		name: "duplicate extractions collapse onto the first rule",
		ruleset: `
a = "a"
b = "b"
x = ( a / b )
y = ( a / b )
`,
		expected: "{\n" +
			"  \"<start>\": [[\"<program>\"]],\n" +
			"  \"<a-or-b>\": [[\"<a>\"], [\"<b>\"]],\n" +
			"  \"<a>\": [[\"a\"]], \n" +
			"  \"<b>\": [[\"b\"]], \n" +
			"  \"<x>\": [[\"<a-or-b>\"]], \n" +
			"  \"<y>\": [[\"<a-or-b>\"]]\n" +
			"}",
	}} {
		t.Run(tt.name, func(t *testing.T) {
			rules := parseRuleset(t, tt.ruleset)

			got, err := fuzzgram.Convert(rules, tt.root)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("grammar mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertDeterministic(t *testing.T) {
	rules := parseRuleset(t, simpleRulesetSupported)

	first, err := fuzzgram.Convert(rules, "")
	require.NoError(t, err)
	second, err := fuzzgram.Convert(rules, "")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

// simpleRuleset minus the both-bounded repetition, which fails conversion
const simpleRulesetSupported = `
a = "a"
b = "b"
c = "c"

grp-a-any-bc = a ( b / c )
grp-a-all-bc = a ( b c )

nested-any-grp = a ( b / (a / c) )
nested-all-grp = a ( b (a c) )

star-a = *a
one-star-a = 1*a
star-two-a = *2a
`

func TestConvertUnsupported(t *testing.T) {
	rules := parseRuleset(t, `
a = "a"
one-star-two-a = 1*2a
`)

	out, err := fuzzgram.Convert(rules, "")

	var unsupported *fuzzgram.UnsupportedConstructError
	require.ErrorAs(t, err, &unsupported)
	require.Empty(t, out)
}
