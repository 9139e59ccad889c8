package txvalidate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/amino-canon/txerr"
	"github.com/lattice-substrate/amino-canon/txtoken"
	"github.com/lattice-substrate/amino-canon/txvalidate"
)

const (
	msgSend = `{"type":"mayachain/MsgSend","value":{"amount":[{"amount":"150000000","denom":"cacao"}],"from_address":"tmaya1c648xgpter9xffhmcqvs7lzd7hxh0prgv5t5gp","to_address":"tmaya10xgrknu44d83qr4s4uw56cqxg0hsev5e68lc9z"}}`

	validTx = `{"account_number":"588","chain_id":"mayachain","fee":{"amount":[],"gas":"2000000"},"memo":"TestMemo","msgs":[` + msgSend + `],"sequence":"5"}`
)

func validate(t *testing.T, in string) error {
	t.Helper()
	p, err := txtoken.Parse([]byte(in))
	require.NoError(t, err, "parse %q", in)
	return txvalidate.Validate(p)
}

func validateErr(t *testing.T, in string) *txerr.Error {
	t.Helper()
	err := validate(t, in)
	require.Error(t, err)
	var te *txerr.Error
	require.True(t, errors.As(err, &te), "expected *txerr.Error, got %T", err)
	return te
}

func TestValidate_CorrectFormat(t *testing.T) {
	assert.NoError(t, validate(t, validTx))
}

func TestValidate_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		remove string
		want   txerr.Code
	}{
		{"account_number", `"account_number":"588",`, txerr.MissingAccountNumber},
		{"chain_id", `"chain_id":"mayachain",`, txerr.MissingChainID},
		{"fee", `"fee":{"amount":[],"gas":"2000000"},`, txerr.MissingFee},
		{"memo", `"memo":"TestMemo",`, txerr.MissingMemo},
		{"msgs", `"msgs":[` + msgSend + `],`, txerr.MissingMsgs},
		{"sequence", `,"sequence":"5"`, txerr.MissingSequence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := strings.Replace(validTx, tc.remove, "", 1)
			require.NotEqual(t, validTx, in)
			te := validateErr(t, in)
			assert.Equal(t, tc.want, te.Code)
			assert.Equal(t, tc.name, te.Field)
		})
	}
}

func TestValidate_SpacesRejected(t *testing.T) {
	for name, in := range map[string]string{
		"middle": strings.Replace(validTx, `"588",`, `"588", `, 1),
		"front":  strings.Replace(validTx, `{"account_number"`, `{  "account_number"`, 1),
		"end":    strings.Replace(validTx, `"sequence":"5"}`, `"sequence":"5"  }`, 1),
		"lots": strings.NewReplacer(
			`"account_number":"588"`, `"account_number": "588"`,
			`"mayachain",`, `"mayachain"  ,`,
			`"amount":[],`, `"amount": [ ],`,
		).Replace(validTx),
		"leading": " " + validTx,
	} {
		te := validateErr(t, in)
		assert.Equal(t, txerr.ContainsWhitespace, te.Code, name)
	}
}

func TestValidate_AllowSpacesInString(t *testing.T) {
	in := strings.NewReplacer(
		`"chain_id":"mayachain"`, `"chain_id":"  mayachain  "`,
		`"memo":"TestMemo"`, `"memo":"  TestMemo  "`,
	).Replace(validTx)
	assert.NoError(t, validate(t, in))
}

func TestValidate_NotSorted(t *testing.T) {
	for name, in := range map[string]string{
		"first": strings.Replace(validTx,
			`"account_number":"588","chain_id":"mayachain"`,
			`"chain_id":"mayachain","account_number":"588"`, 1),
		"middle": strings.Replace(validTx,
			`"fee":{"amount":[],"gas":"2000000"}`,
			`"fee":{"gas":"2000000","amount":[]}`, 1),
		"last":   `{"account_number":"588","chain_id":"mayachain","fee":{"amount":[],"gas":"2000000"},"memo":"TestMemo","sequence":"5","msgs":[` + msgSend + `]}`,
		"nested": strings.Replace(validTx, `{"amount":"150000000","denom":"cacao"}`, `{"denom":"cacao","amount":"150000000"}`, 1),
	} {
		te := validateErr(t, in)
		assert.Equal(t, txerr.NotSorted, te.Code, name)
	}
}

func TestValidate_LegacyMsgForm(t *testing.T) {
	in := `{"account_number":"0","chain_id":"test-chain-1","fee":{"amount":[{"amount":"5","denom":"photon"}],"gas":"10000"},"memo":"testmemo","msgs":[{"inputs":[{"address":"mayaaccaddr1d9h8qat5e4ehc5","coins":[{"amount":"10","denom":"cacao"}]}],"outputs":[{"address":"mayaaccaddr1da6hgur4wse3jx32","coins":[{"amount":"10","denom":"cacao"}]}]}],"sequence":"1"}`
	assert.NoError(t, validate(t, in))
}

func TestValidate_ExtraTopLevelKeysAllowed(t *testing.T) {
	in := strings.Replace(validTx, `"sequence":"5"}`, `"sequence":"5","timeout_height":"0"}`, 1)
	assert.NoError(t, validate(t, in))
}

func TestValidate_RootNotObject(t *testing.T) {
	for _, in := range []string{`[]`, `"tx"`, `5`} {
		te := validateErr(t, in)
		assert.Equal(t, txerr.RootNotObject, te.Code, in)
	}
}

func TestValidate_FieldTypes(t *testing.T) {
	cases := map[string]struct {
		old, new string
		field    string
	}{
		"account_number number": {`"account_number":"588"`, `"account_number":588`, "account_number"},
		"chain_id null":         {`"chain_id":"mayachain"`, `"chain_id":null`, "chain_id"},
		"fee array":             {`"fee":{"amount":[],"gas":"2000000"}`, `"fee":[]`, "fee"},
		"memo object":           {`"memo":"TestMemo"`, `"memo":{}`, "memo"},
		"msgs object":           {`"msgs":[` + msgSend + `]`, `"msgs":` + msgSend, "msgs"},
		"sequence number":       {`"sequence":"5"`, `"sequence":5`, "sequence"},
		"fee amount string":     {`"amount":[],"gas"`, `"amount":"1","gas"`, "fee.amount"},
		"fee gas number":        {`"gas":"2000000"`, `"gas":2000000`, "fee.gas"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := strings.Replace(validTx, tc.old, tc.new, 1)
			require.NotEqual(t, validTx, in)
			te := validateErr(t, in)
			assert.Equal(t, txerr.UnexpectedFieldType, te.Code)
			assert.Equal(t, tc.field, te.Field)
		})
	}
}

func TestValidate_FeeShape(t *testing.T) {
	te := validateErr(t, strings.Replace(validTx, `"fee":{"amount":[],"gas":"2000000"}`, `"fee":{"gas":"2000000"}`, 1))
	assert.Equal(t, txerr.MissingFeeAmount, te.Code)

	te = validateErr(t, strings.Replace(validTx, `"fee":{"amount":[],"gas":"2000000"}`, `"fee":{"amount":[]}`, 1))
	assert.Equal(t, txerr.MissingFeeGas, te.Code)

	for _, amount := range []string{
		`["5photon"]`,
		`[{"amount":"5"}]`,
		`[{"denom":"photon"}]`,
		`[{"amount":5,"denom":"photon"}]`,
		`[{"amount":"5","denom":"photon"},{}]`,
	} {
		in := strings.Replace(validTx, `"amount":[],"gas"`, `"amount":`+amount+`,"gas"`, 1)
		te = validateErr(t, in)
		assert.Equal(t, txerr.InvalidFeeAmount, te.Code, amount)
	}

	in := strings.Replace(validTx, `"amount":[],"gas"`, `"amount":[{"amount":"5","denom":"a"},{"amount":"6","denom":"b"}],"gas"`, 1)
	assert.NoError(t, validate(t, in))
}

func TestValidate_MsgsShape(t *testing.T) {
	te := validateErr(t, strings.Replace(validTx, `"msgs":[`+msgSend+`]`, `"msgs":[]`, 1))
	assert.Equal(t, txerr.EmptyMsgs, te.Code)

	for _, msg := range []string{
		`"MsgSend"`,
		`{}`,
		`{"type":"x"}`,
		`{"type":"x","value":"y"}`,
		`{"type":1,"value":{}}`,
		`{"inputs":[]}`,
		`{"inputs":{},"outputs":[]}`,
	} {
		in := strings.Replace(validTx, `"msgs":[`+msgSend+`]`, `"msgs":[`+msgSend+`,`+msg+`]`, 1)
		te = validateErr(t, in)
		assert.Equal(t, txerr.InvalidMsg, te.Code, msg)
	}

	two := strings.Replace(validTx, `"msgs":[`+msgSend+`]`, `"msgs":[`+msgSend+`,{"inputs":[],"outputs":[]}]`, 1)
	assert.NoError(t, validate(t, two))
}

func TestValidate_CaseSensitiveFieldNames(t *testing.T) {
	in := strings.Replace(validTx, `"chain_id"`, `"chain_ID"`, 1)
	te := validateErr(t, in)
	assert.Equal(t, txerr.MissingChainID, te.Code)
}

func TestValidate_NestedKeyDoesNotSatisfyTopLevel(t *testing.T) {
	in := strings.Replace(validTx, `"memo":"TestMemo",`, "", 1)
	in = strings.Replace(in, `"to_address"`, `"memo":"x","to_address"`, 1)
	te := validateErr(t, in)
	assert.Equal(t, txerr.MissingMemo, te.Code)
}

func TestValidate_Idempotent(t *testing.T) {
	p, err := txtoken.Parse([]byte(validTx))
	require.NoError(t, err)
	require.NoError(t, txvalidate.Validate(p))
	require.NoError(t, txvalidate.Validate(p))

	bad, err := txtoken.Parse([]byte(strings.Replace(validTx, `"chain_id":"mayachain",`, "", 1)))
	require.NoError(t, err)
	assert.Equal(t, txvalidate.Validate(bad), txvalidate.Validate(bad))
}

func TestRequiredFields(t *testing.T) {
	fields := txvalidate.RequiredFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"account_number", "chain_id", "fee", "memo", "msgs", "sequence"}, names)

	fields[0].Name = "mutated"
	assert.Equal(t, "account_number", txvalidate.RequiredFields()[0].Name)
}
