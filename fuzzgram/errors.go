package fuzzgram

import (
	"github.com/quenbyako/abnf2fuzz/abnf"
)

// UnsupportedConstructError reports a node shape the body synthesizer cannot
// encode in the target format, chiefly a repetition bounded on both sides.
// Conversion aborts on the first one; no partial output is produced.
type UnsupportedConstructError struct {
	Node abnf.Node
}

func (e *UnsupportedConstructError) Error() string {
	return "unsupported construct: " + e.Node.String()
}
