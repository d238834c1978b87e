package abnf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var abnfLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `;[^\n]*`},
	{Name: "Terminal", Pattern: `%[bdx][0-9A-Fa-f]+(\.[0-9A-Fa-f]+)*(-[0-9A-Fa-f]+)?`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z][0-9A-Za-z-]*`},
	{Name: "Punct", Pattern: `[=*/()\[\]]`},
	{Name: "NL", Pattern: `[\r\n]+`},
	{Name: "whitespace", Pattern: `[ \t]+`},
})

var parser = participle.MustBuild[abnfFile](
	participle.Lexer(abnfLexer),
)

type abnfFile struct {
	Rules []ruleDef `parser:"NL* ( @@ NL* )*"`
}

func (f abnfFile) normalize() ([]Rule, error) {
	res := make([]Rule, len(f.Rules))
	for i, r := range f.Rules {
		node, err := r.Alt.normalize()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		res[i] = Rule{Name: r.Name, Node: node}
	}

	return res, nil
}

type ruleDef struct {
	Name string      `parser:"@Ident '='"`
	Alt  alternation `parser:"@@"`
}

type alternation struct {
	Concats []concatenation `parser:"@@ ( '/' @@ )*"`
}

func (a alternation) normalize() (Node, error) {
	if len(a.Concats) == 1 {
		return a.Concats[0].normalize()
	}

	res := make(Alternatives, len(a.Concats))
	for i, c := range a.Concats {
		node, err := c.normalize()
		if err != nil {
			return nil, err
		}
		res[i] = node
	}

	return res, nil
}

type concatenation struct {
	Reps []repetition `parser:"@@+"`
}

func (c concatenation) normalize() (Node, error) {
	if len(c.Reps) == 1 {
		return c.Reps[0].normalize()
	}

	res := make(Concatenation, len(c.Reps))
	for i, r := range c.Reps {
		node, err := r.normalize()
		if err != nil {
			return nil, err
		}
		res[i] = node
	}

	return res, nil
}

type repetition struct {
	Count *repeatSpec `parser:"@@?"`
	Elem  element     `parser:"@@"`
}

func (r repetition) normalize() (Node, error) {
	elem, err := r.Elem.normalize()
	if err != nil {
		return nil, err
	}
	if r.Count == nil {
		return elem, nil
	}

	rep, err := r.Count.normalize()
	if err != nil {
		return nil, err
	}

	return Repetition{Repeat: rep, Node: elem}, nil
}

type repeatSpec struct {
	Bounded *boundedRepeat `parser:"@@"`
	Open    *openRepeat    `parser:"| @@"`
}

// n, n* and n*m forms
type boundedRepeat struct {
	Min  string  `parser:"@Number"`
	Star bool    `parser:"@'*'?"`
	Max  *string `parser:"@Number?"`
}

// * and *m forms
type openRepeat struct {
	Star bool    `parser:"@'*'"`
	Max  *string `parser:"@Number?"`
}

func (r repeatSpec) normalize() (Repeat, error) {
	if r.Open != nil {
		max, err := parseCount(r.Open.Max)
		if err != nil {
			return nil, err
		}
		return Variable{Max: max}, nil
	}

	min, err := parseCount(&r.Bounded.Min)
	if err != nil {
		return nil, err
	}
	if !r.Bounded.Star {
		return Specific(*min), nil
	}

	max, err := parseCount(r.Bounded.Max)
	if err != nil {
		return nil, err
	}

	return Variable{Min: min, Max: max}, nil
}

func parseCount(s *string) (*uint, error) {
	if s == nil {
		return nil, nil
	}
	n, err := strconv.ParseUint(*s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("repeat count %q: %w", *s, err)
	}

	v := uint(n)
	return &v, nil
}

type element struct {
	Group  *group  `parser:"@@"`
	Option *option `parser:"| @@"`
	Str    *string `parser:"| @String"`
	Term   *string `parser:"| @Terminal"`
	Name   *string `parser:"| @Ident"`
}

func (e element) normalize() (Node, error) {
	switch {
	case e.Group != nil:
		node, err := e.Group.Alt.normalize()
		if err != nil {
			return nil, err
		}
		return Group{Node: node}, nil
	case e.Option != nil:
		node, err := e.Option.Alt.normalize()
		if err != nil {
			return nil, err
		}
		return Optional{Node: node}, nil
	case e.Str != nil:
		// the lexer guarantees surrounding quotes and no inner ones;
		// strconv.Unquote would choke on a literal backslash
		return Literal((*e.Str)[1 : len(*e.Str)-1]), nil
	case e.Term != nil:
		return parseTerminal(*e.Term)
	case e.Name != nil:
		return Rulename(*e.Name), nil
	default:
		panic("empty element")
	}
}

type group struct {
	Alt alternation `parser:"'(' @@ ')'"`
}

type option struct {
	Alt alternation `parser:"'[' @@ ']'"`
}

// parseTerminal decodes a %b/%d/%x numeric terminal into either a codepoint
// range or a codepoint sequence.
func parseTerminal(tok string) (Node, error) {
	var base int
	switch tok[1] {
	case 'b':
		base = 2
	case 'd':
		base = 10
	default:
		base = 16
	}
	body := tok[2:]

	if lo, hi, isRange := strings.Cut(body, "-"); isRange {
		if strings.ContainsRune(body, '.') {
			return nil, fmt.Errorf("terminal %q mixes range and concatenation", tok)
		}
		start, err := parseCodepoint(tok, lo, base)
		if err != nil {
			return nil, err
		}
		end, err := parseCodepoint(tok, hi, base)
		if err != nil {
			return nil, err
		}
		return Range{Start: start, End: end}, nil
	}

	parts := strings.Split(body, ".")
	seq := make(CodepointSeq, len(parts))
	for i, p := range parts {
		r, err := parseCodepoint(tok, p, base)
		if err != nil {
			return nil, err
		}
		seq[i] = r
	}

	return seq, nil
}

func parseCodepoint(tok, s string, base int) (rune, error) {
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, fmt.Errorf("terminal %q: invalid codepoint %q", tok, s)
	}

	return rune(v), nil
}

// Parse reads an ABNF grammar and returns its rules in declaration order.
// Each rule occupies one line; `;` starts a comment running to the end of
// the line.
func Parse(path string, r io.Reader) ([]Rule, error) {
	f, err := parser.Parse(path, r)
	if err != nil {
		return nil, err
	}

	return f.normalize()
}
