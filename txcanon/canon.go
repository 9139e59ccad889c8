// Package txcanon verifies that a tokenized document is in the single
// canonical rendering used for amino sign-bytes: no whitespace outside
// string literals and object keys in strictly increasing byte order at every
// level.
//
// The check reads the original buffer in place; nothing is re-serialized.
package txcanon

import (
	"bytes"

	"github.com/lattice-substrate/amino-canon/txerr"
	"github.com/lattice-substrate/amino-canon/txtoken"
)

// Verify runs the whitespace check and then the key order check.
func Verify(p *txtoken.Parsed) error {
	if off, ok := HasWhitespace(p); ok {
		return txerr.New(txerr.ContainsWhitespace, off)
	}
	return KeysSorted(p)
}

// HasWhitespace reports the offset of the first whitespace byte that lies
// outside every string token.
func HasWhitespace(p *txtoken.Parsed) (int, bool) {
	pos := 0
	for i := 0; i < p.Count; i++ {
		t := &p.Tokens[i]
		if t.Kind != txtoken.KindString {
			continue
		}
		if off := indexSpace(p.Buffer[pos:t.Start]); off >= 0 {
			return pos + off, true
		}
		pos = t.End
	}
	if off := indexSpace(p.Buffer[pos:]); off >= 0 {
		return pos + off, true
	}
	return 0, false
}

func indexSpace(b []byte) int {
	for i, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			return i
		}
	}
	return -1
}

// KeysSorted checks every object, outermost first, for keys in strictly
// increasing unsigned byte order. Keys are compared as written, escapes
// included. An equal neighbour is a DuplicateKey; any other inversion is
// NotSorted.
func KeysSorted(p *txtoken.Parsed) error {
	for i := 0; i < p.Count; i++ {
		if p.Tokens[i].Kind != txtoken.KindObject {
			continue
		}
		n := p.Tokens[i].Size / 2
		key := i + 1
		for m := 1; m < n; m++ {
			next := p.Skip(key + 1)
			switch c := bytes.Compare(p.Text(key), p.Text(next)); {
			case c > 0:
				return txerr.New(txerr.NotSorted, p.Tokens[next].Start-1)
			case c == 0:
				return txerr.New(txerr.DuplicateKey, p.Tokens[next].Start-1)
			}
			key = next
		}
	}
	return nil
}
