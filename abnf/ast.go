package abnf

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/quenbyako/abnf2fuzz/slices"
)

// Rule is a single named production of the source grammar. Rule names are
// assumed to be unique within a rule list.
type Rule struct {
	Name string
	Node Node
}

func (r Rule) String() string { return r.Name + " = " + r.Node.String() }

// Node is one vertex of a parsed ABNF rule tree.
//
// Hash is a structural hash: separately constructed trees of the same shape
// hash identically, and different variants never share a hash preimage (each
// variant mixes in its own tag byte). All set operations over nodes compare
// hashes, never pointers.
type Node interface {
	fmt.Stringer
	Hash() uint64

	node()
}

const (
	tagAlternatives byte = iota + 1
	tagConcatenation
	tagRepetition
	tagGroup
	tagOptional
	tagRulename
	tagLiteral
	tagRange
	tagCodepointSeq
	tagSpecific
	tagVariable
)

type Alternatives []Node

var _ Node = Alternatives{}

func (Alternatives) node()            {}
func (a Alternatives) String() string { return stringify(a, " / ") }
func (a Alternatives) Hash() uint64   { return hashNodes(tagAlternatives, a) }

type Concatenation []Node

var _ Node = Concatenation{}

func (Concatenation) node()            {}
func (c Concatenation) String() string { return stringify(c, " ") }
func (c Concatenation) Hash() uint64   { return hashNodes(tagConcatenation, c) }

type Repetition struct {
	Repeat Repeat
	Node   Node
}

var _ Node = Repetition{}

func (Repetition) node()            {}
func (r Repetition) String() string { return r.Repeat.String() + r.Node.String() }
func (r Repetition) Hash() uint64 {
	return hashUints(tagRepetition, r.Repeat.Hash(), r.Node.Hash())
}

type Group struct{ Node Node }

var _ Node = Group{}

func (Group) node()            {}
func (g Group) String() string { return "( " + g.Node.String() + " )" }
func (g Group) Hash() uint64   { return hashUints(tagGroup, g.Node.Hash()) }

type Optional struct{ Node Node }

var _ Node = Optional{}

func (Optional) node()            {}
func (o Optional) String() string { return "[ " + o.Node.String() + " ]" }
func (o Optional) Hash() uint64   { return hashUints(tagOptional, o.Node.Hash()) }

// Rulename is a reference to another rule by name.
type Rulename string

var _ Node = Rulename("")

func (Rulename) node()            {}
func (r Rulename) String() string { return string(r) }
func (r Rulename) Hash() uint64   { return hashString(tagRulename, string(r)) }

// Literal is a quoted string terminal.
type Literal string

var _ Node = Literal("")

func (Literal) node()            {}
func (l Literal) String() string { return strconv.Quote(string(l)) }
func (l Literal) Hash() uint64   { return hashString(tagLiteral, string(l)) }

// Range is a terminal-value range %xNN-MM, both ends inclusive.
type Range struct{ Start, End rune }

var _ Node = Range{}

func (Range) node() {}
func (r Range) String() string {
	return fmt.Sprintf("%%x%X-%X", r.Start, r.End)
}
func (r Range) Hash() uint64 { return hashUints(tagRange, uint64(r.Start), uint64(r.End)) }

// CodepointSeq is a terminal-value concatenation %xNN.MM…; a single numeric
// terminal is a one-element sequence.
type CodepointSeq []rune

var _ Node = CodepointSeq{}

func (CodepointSeq) node() {}
func (c CodepointSeq) String() string {
	return "%d" + strings.Join(slices.Remap(c, func(_ int, r rune) string {
		return strconv.FormatInt(int64(r), 10)
	}), ".")
}
func (c CodepointSeq) Hash() uint64 {
	vs := make([]uint64, len(c))
	for i, r := range c {
		vs[i] = uint64(r)
	}
	return hashUints(tagCodepointSeq, vs...)
}

// Repeat is the count prefix of a repetition.
type Repeat interface {
	fmt.Stringer
	Hash() uint64

	repeat()
}

// Specific repeats the element exactly n times.
type Specific uint

var _ Repeat = Specific(0)

func (Specific) repeat()          {}
func (s Specific) String() string { return strconv.FormatUint(uint64(s), 10) }
func (s Specific) Hash() uint64   { return hashUints(tagSpecific, uint64(s)) }

// Variable is the n*m form; a nil bound is unbounded on that side.
type Variable struct{ Min, Max *uint }

var _ Repeat = Variable{}

func (Variable) repeat() {}
func (v Variable) String() string {
	var b strings.Builder
	if v.Min != nil {
		b.WriteString(strconv.FormatUint(uint64(*v.Min), 10))
	}
	b.WriteByte('*')
	if v.Max != nil {
		b.WriteString(strconv.FormatUint(uint64(*v.Max), 10))
	}
	return b.String()
}

func (v Variable) Hash() uint64 {
	bounds := [2]uint64{}
	var presence uint64
	if v.Min != nil {
		presence |= 1
		bounds[0] = uint64(*v.Min)
	}
	if v.Max != nil {
		presence |= 2
		bounds[1] = uint64(*v.Max)
	}
	return hashUints(tagVariable, presence, bounds[0], bounds[1])
}

func stringify[S ~[]T, T fmt.Stringer](s S, sep string) string {
	return strings.Join(slices.Remap(s, func(_ int, v T) string { return v.String() }), sep)
}

func hashNodes(tag byte, nodes []Node) uint64 {
	vs := make([]uint64, len(nodes))
	for i, n := range nodes {
		vs[i] = n.Hash()
	}
	return hashUints(tag, vs...)
}

func hashUints(tag byte, vs ...uint64) uint64 {
	buf := make([]byte, 0, len(vs)*8+1)
	buf = append(buf, tag)
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return xxh3.Hash(buf)
}

func hashString(tag byte, s string) uint64 {
	return xxh3.Hash(append([]byte{tag}, s...))
}
