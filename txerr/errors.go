// Package txerr defines the failure taxonomy for amino sign-bytes validation.
//
// Every failure returned by the tokenizer, the canonical-form verifier, or
// the schema validator maps to exactly one Code. A Code is itself an error,
// so it can be returned and compared without allocating; *Error adds the
// byte offset or field path and unwraps to its Code.
package txerr

import (
	"errors"
	"fmt"
)

// Code is a stable failure kind.
type Code uint8

const (
	OK Code = iota

	// Parse-level.
	EmptyInput
	InputTooLarge
	InvalidUTF8
	UnexpectedByte
	InvalidLiteral
	InvalidEscape
	UnescapedControl
	UnterminatedString
	UnbalancedContainer
	Incomplete
	TooManyTokens
	TooDeep
	TrailingBytes

	// Canonical-form.
	ContainsWhitespace
	NotSorted
	DuplicateKey

	// Schema-level.
	RootNotObject
	MissingAccountNumber
	MissingChainID
	MissingFee
	MissingMemo
	MissingMsgs
	MissingSequence
	UnexpectedFieldType
	MissingFeeAmount
	MissingFeeGas
	InvalidFeeAmount
	EmptyMsgs
	InvalidMsg

	numCodes
)

// Class groups codes by the stage that reports them.
type Class uint8

const (
	ClassNone Class = iota
	ClassParse
	ClassCanonical
	ClassSchema
)

func (c Class) String() string {
	switch c {
	case ClassParse:
		return "parse"
	case ClassCanonical:
		return "canonical"
	case ClassSchema:
		return "schema"
	default:
		return "none"
	}
}

var descriptions = [numCodes]string{
	OK:                   "No error",
	EmptyInput:           "JSON input is empty",
	InputTooLarge:        "JSON input exceeds buffer size",
	InvalidUTF8:          "JSON input is not valid UTF-8",
	UnexpectedByte:       "JSON unexpected character",
	InvalidLiteral:       "JSON invalid literal",
	InvalidEscape:        "JSON invalid escape sequence",
	UnescapedControl:     "JSON control character in string",
	UnterminatedString:   "JSON unterminated string",
	UnbalancedContainer:  "JSON unbalanced brackets",
	Incomplete:           "JSON incomplete document",
	TooManyTokens:        "JSON too many tokens",
	TooDeep:              "JSON nesting too deep",
	TrailingBytes:        "JSON trailing bytes after value",
	ContainsWhitespace:   "JSON contains whitespace in the corpus",
	NotSorted:            "JSON dictionaries are not sorted",
	DuplicateKey:         "JSON duplicate key",
	RootNotObject:        "JSON root is not an object",
	MissingAccountNumber: "JSON missing account_number",
	MissingChainID:       "JSON missing chain_id",
	MissingFee:           "JSON missing fee",
	MissingMemo:          "JSON missing memo",
	MissingMsgs:          "JSON missing msgs",
	MissingSequence:      "JSON missing sequence",
	UnexpectedFieldType:  "JSON field has unexpected type",
	MissingFeeAmount:     "JSON missing fee amount",
	MissingFeeGas:        "JSON missing fee gas",
	InvalidFeeAmount:     "JSON invalid fee amount",
	EmptyMsgs:            "JSON msgs is empty",
	InvalidMsg:           "JSON invalid msg",
}

var names = [numCodes]string{
	OK:                   "ok",
	EmptyInput:           "empty_input",
	InputTooLarge:        "input_too_large",
	InvalidUTF8:          "invalid_utf8",
	UnexpectedByte:       "unexpected_byte",
	InvalidLiteral:       "invalid_literal",
	InvalidEscape:        "invalid_escape",
	UnescapedControl:     "unescaped_control",
	UnterminatedString:   "unterminated_string",
	UnbalancedContainer:  "unbalanced_container",
	Incomplete:           "incomplete",
	TooManyTokens:        "too_many_tokens",
	TooDeep:              "too_deep",
	TrailingBytes:        "trailing_bytes",
	ContainsWhitespace:   "contains_whitespace",
	NotSorted:            "is_not_sorted",
	DuplicateKey:         "duplicate_key",
	RootNotObject:        "root_not_object",
	MissingAccountNumber: "missing_account_number",
	MissingChainID:       "missing_chain_id",
	MissingFee:           "missing_fee",
	MissingMemo:          "missing_memo",
	MissingMsgs:          "missing_msgs",
	MissingSequence:      "missing_sequence",
	UnexpectedFieldType:  "unexpected_field_type",
	MissingFeeAmount:     "missing_fee_amount",
	MissingFeeGas:        "missing_fee_gas",
	InvalidFeeAmount:     "invalid_fee_amount",
	EmptyMsgs:            "empty_msgs",
	InvalidMsg:           "invalid_msg",
}

// Description returns the short human-readable text for c. It never fails:
// unknown codes get a fixed placeholder.
func Description(c Code) string {
	if c >= numCodes {
		return "Unrecognized error code"
	}
	return descriptions[c]
}

// Description is the method form of the package-level Description.
func (c Code) Description() string { return Description(c) }

// String returns the stable snake_case name of c.
func (c Code) String() string {
	if c >= numCodes {
		return fmt.Sprintf("code(%d)", uint8(c))
	}
	return names[c]
}

// Error implements the error interface.
func (c Code) Error() string {
	return "txerr: " + c.String()
}

// Class reports which stage produces c.
func (c Code) Class() Class {
	switch {
	case c == OK || c >= numCodes:
		return ClassNone
	case c < ContainsWhitespace:
		return ClassParse
	case c < RootNotObject:
		return ClassCanonical
	default:
		return ClassSchema
	}
}

// Parse looks up a code by its snake_case name.
func Parse(name string) (Code, bool) {
	for i, n := range names {
		if n == name {
			return Code(i), true
		}
	}
	return OK, false
}

// Error is the structured error type for all validation failures.
type Error struct {
	Code   Code
	Offset int    // byte offset into the input, -1 when not meaningful
	Field  string // JSON field path for schema errors
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("txerr: %s at field %s: %s", e.Code.String(), e.Field, e.Code.Description())
	case e.Offset >= 0:
		return fmt.Sprintf("txerr: %s at byte %d: %s", e.Code.String(), e.Offset, e.Code.Description())
	default:
		return fmt.Sprintf("txerr: %s: %s", e.Code.String(), e.Code.Description())
	}
}

// Unwrap returns the underlying Code.
func (e *Error) Unwrap() error {
	return e.Code
}

// New creates a new Error with the given code and offset.
func New(code Code, offset int) *Error {
	return &Error{Code: code, Offset: offset}
}

// NewField creates a schema Error naming the offending field.
func NewField(code Code, field string) *Error {
	return &Error{Code: code, Offset: -1, Field: field}
}

// CodeOf extracts the Code from err. A nil error is OK. An error that
// carries no Code yields an unrecognized code with ClassNone.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return numCodes
}
