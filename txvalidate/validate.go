// Package txvalidate checks the top-level shape of an amino sign-bytes
// transaction.
//
// Validate assumes nothing about its input beyond a successful tokenize: it
// runs the canonical-form check first, so whitespace and ordering failures
// take priority over schema failures.
package txvalidate

import (
	"github.com/lattice-substrate/amino-canon/txcanon"
	"github.com/lattice-substrate/amino-canon/txerr"
	"github.com/lattice-substrate/amino-canon/txtoken"
)

// Field is a required top-level transaction field.
type Field struct {
	Name    string
	Kind    txtoken.Kind
	Missing txerr.Code
}

// Required fields in sign-bytes order. Absence is reported in this order.
var requiredFields = [...]Field{
	{Name: "account_number", Kind: txtoken.KindString, Missing: txerr.MissingAccountNumber},
	{Name: "chain_id", Kind: txtoken.KindString, Missing: txerr.MissingChainID},
	{Name: "fee", Kind: txtoken.KindObject, Missing: txerr.MissingFee},
	{Name: "memo", Kind: txtoken.KindString, Missing: txerr.MissingMemo},
	{Name: "msgs", Kind: txtoken.KindArray, Missing: txerr.MissingMsgs},
	{Name: "sequence", Kind: txtoken.KindString, Missing: txerr.MissingSequence},
}

const (
	fieldFee  = 2
	fieldMsgs = 4
)

// RequiredFields returns a copy of the required field table.
func RequiredFields() []Field {
	out := make([]Field, len(requiredFields))
	copy(out, requiredFields[:])
	return out
}

// Validate reports the first canonical-form or schema violation in p.
func Validate(p *txtoken.Parsed) error {
	if err := txcanon.Verify(p); err != nil {
		return err
	}
	if p.Kind(0) != txtoken.KindObject {
		return txerr.New(txerr.RootNotObject, 0)
	}

	var at [len(requiredFields)]int
	for n, f := range requiredFields {
		at[n] = p.ObjectGet(0, f.Name)
		if at[n] < 0 {
			return txerr.NewField(f.Missing, f.Name)
		}
	}
	for n, f := range requiredFields {
		if p.Kind(at[n]) != f.Kind {
			return txerr.NewField(txerr.UnexpectedFieldType, f.Name)
		}
	}

	if err := validateFee(p, at[fieldFee]); err != nil {
		return err
	}
	return validateMsgs(p, at[fieldMsgs])
}

func validateFee(p *txtoken.Parsed, fee int) error {
	amount := p.ObjectGet(fee, "amount")
	switch {
	case amount < 0:
		return txerr.NewField(txerr.MissingFeeAmount, "fee.amount")
	case p.Kind(amount) != txtoken.KindArray:
		return txerr.NewField(txerr.UnexpectedFieldType, "fee.amount")
	}
	gas := p.ObjectGet(fee, "gas")
	switch {
	case gas < 0:
		return txerr.NewField(txerr.MissingFeeGas, "fee.gas")
	case p.Kind(gas) != txtoken.KindString:
		return txerr.NewField(txerr.UnexpectedFieldType, "fee.gas")
	}

	coin := amount + 1
	for n := p.ArrayLen(amount); n > 0; n-- {
		if !isCoin(p, coin) {
			return txerr.NewField(txerr.InvalidFeeAmount, "fee.amount")
		}
		coin = p.Skip(coin)
	}
	return nil
}

// isCoin matches {"amount":string,"denom":string}, extra keys allowed.
func isCoin(p *txtoken.Parsed, i int) bool {
	return p.Kind(i) == txtoken.KindObject &&
		p.Kind(p.ObjectGet(i, "amount")) == txtoken.KindString &&
		p.Kind(p.ObjectGet(i, "denom")) == txtoken.KindString
}

func validateMsgs(p *txtoken.Parsed, msgs int) error {
	n := p.ArrayLen(msgs)
	if n == 0 {
		return txerr.NewField(txerr.EmptyMsgs, "msgs")
	}
	msg := msgs + 1
	for ; n > 0; n-- {
		if !isWrappedMsg(p, msg) && !isLegacyMsg(p, msg) {
			return txerr.NewField(txerr.InvalidMsg, "msgs")
		}
		msg = p.Skip(msg)
	}
	return nil
}

// isWrappedMsg matches {"type":string,"value":object}.
func isWrappedMsg(p *txtoken.Parsed, i int) bool {
	return p.Kind(i) == txtoken.KindObject &&
		p.Kind(p.ObjectGet(i, "type")) == txtoken.KindString &&
		p.Kind(p.ObjectGet(i, "value")) == txtoken.KindObject
}

// isLegacyMsg matches {"inputs":[...],"outputs":[...]}.
func isLegacyMsg(p *txtoken.Parsed, i int) bool {
	return p.Kind(i) == txtoken.KindObject &&
		p.Kind(p.ObjectGet(i, "inputs")) == txtoken.KindArray &&
		p.Kind(p.ObjectGet(i, "outputs")) == txtoken.KindArray
}
