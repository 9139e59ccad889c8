// Package signbytes is the entry point the signing flow calls before a
// transaction is shown to the user.
//
// Check enforces, in order:
//  1. Buffer-level constraints before tokenizing (non-empty, size bound,
//     UTF-8 validity)
//  2. Tokenizing within the fixed token and depth capacities
//  3. Canonical form (no insignificant whitespace, sorted keys)
//  4. The transaction schema
//
// Any failure means the transaction must not be displayed or signed.
package signbytes

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/lattice-substrate/amino-canon/txerr"
	"github.com/lattice-substrate/amino-canon/txtoken"
	"github.com/lattice-substrate/amino-canon/txvalidate"
)

// Check validates data and returns its token array.
func Check(data []byte) (*txtoken.Parsed, error) {
	p := new(txtoken.Parsed)
	if err := CheckInto(p, data); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckInto is like Check but fills a caller-owned Parsed. On failure p
// holds no tokens.
func CheckInto(p *txtoken.Parsed, data []byte) error {
	if err := checkBuffer(data); err != nil {
		p.Reset()
		return err
	}
	if err := txtoken.ParseInto(p, data, nil); err != nil {
		return err
	}
	if err := txvalidate.Validate(p); err != nil {
		p.Reset()
		return err
	}
	return nil
}

// CheckReader reads at most txtoken.MaxInputSize bytes from r and checks
// them.
func CheckReader(r io.Reader) (*txtoken.Parsed, error) {
	data, err := io.ReadAll(io.LimitReader(r, txtoken.MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("signbytes: read error: %w", err)
	}
	return Check(data)
}

// Describe returns the display text for the outcome err.
func Describe(err error) string {
	return txerr.Description(txerr.CodeOf(err))
}

func checkBuffer(data []byte) error {
	if len(data) == 0 {
		return txerr.New(txerr.EmptyInput, 0)
	}
	if len(data) > txtoken.MaxInputSize {
		return txerr.New(txerr.InputTooLarge, txtoken.MaxInputSize)
	}
	if !utf8.Valid(data) {
		return txerr.New(txerr.InvalidUTF8, findInvalidUTF8(data))
	}
	return nil
}

// findInvalidUTF8 returns the byte offset of the first invalid UTF-8 sequence.
func findInvalidUTF8(data []byte) int {
	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
