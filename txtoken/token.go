// Package txtoken provides a bounded, non-copying JSON tokenizer for
// transaction sign-bytes.
//
// This tokenizer is not a general-purpose JSON parser. It records where each
// value lives in the caller's buffer and how values nest, and nothing else:
// strings are not unescaped and numbers are not converted. The token array
// has a fixed capacity and nesting is bounded, so a parse never grows memory
// with the input.
//
// Tokens are stored in document (pre-order) order. The children of a
// container occupy the range immediately after it, and every token records
// the index of its enclosing container.
package txtoken

import (
	"github.com/lattice-substrate/amino-canon/txerr"
)

// Capacities of the fixed-size parse state.
const (
	// MaxTokens is the size of the token array.
	MaxTokens = 768

	// MaxDepth is the maximum nesting depth for objects and arrays.
	MaxDepth = 16

	// MaxInputSize is the largest document accepted, in bytes.
	MaxInputSize = 16 * 1024
)

// NoParent is the Parent index of the root token.
const NoParent = -1

// Kind identifies the syntactic class of a token.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindObject
	KindArray
	KindString
	KindPrimitive // number, true, false, null
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindPrimitive:
		return "primitive"
	default:
		return "undefined"
	}
}

// Token describes one JSON value (or object key) in the buffer.
type Token struct {
	Kind Kind
	// Start and End are byte offsets into the buffer, End exclusive.
	// For strings they exclude the surrounding quotes.
	Start int
	End   int
	// Size is the number of immediate children. Every object member
	// contributes two: its key and its value.
	Size int
	// Parent is the index of the enclosing container, or NoParent.
	Parent int
}

// Parsed is a tokenized document. Buffer is borrowed from the caller and is
// never modified.
type Parsed struct {
	Buffer []byte
	Tokens [MaxTokens]Token
	Count  int
}

// Reset drops the buffer reference and all tokens.
func (p *Parsed) Reset() {
	p.Buffer = nil
	p.Count = 0
}

// Options lowers the build-time capacities. Zero values and values above the
// capacity mean the capacity.
type Options struct {
	MaxTokens    int
	MaxDepth     int
	MaxInputSize int
}

func (o *Options) maxTokens() int {
	if o != nil && o.MaxTokens > 0 && o.MaxTokens < MaxTokens {
		return o.MaxTokens
	}
	return MaxTokens
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 && o.MaxDepth < MaxDepth {
		return o.MaxDepth
	}
	return MaxDepth
}

func (o *Options) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 && o.MaxInputSize < MaxInputSize {
		return o.MaxInputSize
	}
	return MaxInputSize
}

// state is what an open container expects next.
type state uint8

const (
	objKeyOrClose   state = iota // after '{'
	objKey                       // after ',' in an object
	objColon                     // after a key
	objValue                     // after ':'
	objCommaOrClose              // after a member value
	arrValueOrClose              // after '['
	arrValue                     // after ',' in an array
	arrCommaOrClose              // after an element
)

type frame struct {
	index int
	state state
}

// parser holds the state for one scan. It lives on the caller's stack.
type parser struct {
	data      []byte
	pos       int
	out       *Parsed
	maxTokens int
	maxDepth  int
	stack     [MaxDepth]frame
	depth     int
	rootDone  bool
}

// Parse tokenizes a complete JSON text using the build-time capacities.
func Parse(data []byte) (*Parsed, error) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions is like Parse but accepts configuration options.
func ParseWithOptions(data []byte, opts *Options) (*Parsed, error) {
	p := new(Parsed)
	if err := ParseInto(p, data, opts); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseInto tokenizes data into out, which the caller owns. It performs no
// allocation on success. On failure out holds no tokens.
//
// Whitespace between tokens is accepted here; rejecting it is the job of the
// canonical-form check.
func ParseInto(out *Parsed, data []byte, opts *Options) error {
	out.Reset()
	if len(data) == 0 {
		return txerr.New(txerr.EmptyInput, 0)
	}
	if len(data) > opts.maxInputSize() {
		return txerr.New(txerr.InputTooLarge, opts.maxInputSize())
	}

	p := parser{
		data:      data,
		out:       out,
		maxTokens: opts.maxTokens(),
		maxDepth:  opts.maxDepth(),
	}
	out.Buffer = data
	if err := p.run(); err != nil {
		out.Reset()
		return err
	}
	return nil
}

func (p *parser) run() error {
	for p.pos < len(p.data) {
		var err error
		switch c := p.data[p.pos]; c {
		case ' ', '\t', '\n', '\r':
			p.pos++
		case '{', '[':
			err = p.open(c)
		case '}', ']':
			err = p.close(c)
		case ',':
			err = p.comma()
		case ':':
			err = p.colon()
		case '"':
			err = p.str()
		default:
			err = p.primitive()
		}
		if err != nil {
			return err
		}
	}

	if p.depth > 0 {
		return txerr.New(txerr.Incomplete, p.pos)
	}
	if !p.rootDone {
		return txerr.New(txerr.EmptyInput, 0)
	}
	return nil
}

func (p *parser) fail(code txerr.Code) error {
	return txerr.New(code, p.pos)
}

// beginValue checks that a value may start at the current position and
// advances the enclosing container's state past it. It returns the index of
// the enclosing container.
func (p *parser) beginValue() (int, error) {
	if p.depth == 0 {
		if p.rootDone {
			return 0, p.fail(txerr.TrailingBytes)
		}
		return NoParent, nil
	}
	top := &p.stack[p.depth-1]
	switch top.state {
	case objValue:
		top.state = objCommaOrClose
	case arrValueOrClose, arrValue:
		top.state = arrCommaOrClose
	default:
		return 0, p.fail(txerr.UnexpectedByte)
	}
	return top.index, nil
}

// endValue marks the root as complete once a top-level value ends.
func (p *parser) endValue() {
	if p.depth == 0 {
		p.rootDone = true
	}
}

func (p *parser) alloc(kind Kind, start, end, parent int) (int, error) {
	if p.out.Count >= p.maxTokens {
		return 0, txerr.New(txerr.TooManyTokens, start)
	}
	i := p.out.Count
	p.out.Tokens[i] = Token{Kind: kind, Start: start, End: end, Parent: parent}
	p.out.Count++
	if parent != NoParent {
		p.out.Tokens[parent].Size++
	}
	return i, nil
}

func (p *parser) open(c byte) error {
	parent, err := p.beginValue()
	if err != nil {
		return err
	}
	if p.depth >= p.maxDepth {
		return p.fail(txerr.TooDeep)
	}

	kind, st := KindObject, objKeyOrClose
	if c == '[' {
		kind, st = KindArray, arrValueOrClose
	}
	i, err := p.alloc(kind, p.pos, -1, parent)
	if err != nil {
		return err
	}
	p.stack[p.depth] = frame{index: i, state: st}
	p.depth++
	p.pos++
	return nil
}

func (p *parser) close(c byte) error {
	if p.depth == 0 {
		return p.fail(txerr.UnbalancedContainer)
	}
	top := &p.stack[p.depth-1]
	kind := p.out.Tokens[top.index].Kind
	if (c == '}') != (kind == KindObject) {
		return p.fail(txerr.UnbalancedContainer)
	}
	switch top.state {
	case objKeyOrClose, objCommaOrClose, arrValueOrClose, arrCommaOrClose:
	default:
		return p.fail(txerr.UnexpectedByte)
	}

	p.out.Tokens[top.index].End = p.pos + 1
	p.depth--
	p.pos++
	p.endValue()
	return nil
}

func (p *parser) comma() error {
	if p.depth == 0 {
		return p.stray()
	}
	top := &p.stack[p.depth-1]
	switch top.state {
	case objCommaOrClose:
		top.state = objKey
	case arrCommaOrClose:
		top.state = arrValue
	default:
		return p.fail(txerr.UnexpectedByte)
	}
	p.pos++
	return nil
}

func (p *parser) colon() error {
	if p.depth == 0 {
		return p.stray()
	}
	top := &p.stack[p.depth-1]
	if top.state != objColon {
		return p.fail(txerr.UnexpectedByte)
	}
	top.state = objValue
	p.pos++
	return nil
}

// stray reports a separator outside any container.
func (p *parser) stray() error {
	if p.rootDone {
		return p.fail(txerr.TrailingBytes)
	}
	return p.fail(txerr.UnexpectedByte)
}

// str scans a string literal, either an object key or a value. Escapes are
// checked only far enough to find the closing quote.
func (p *parser) str() error {
	var parent int
	if p.depth > 0 && (p.stack[p.depth-1].state == objKeyOrClose || p.stack[p.depth-1].state == objKey) {
		top := &p.stack[p.depth-1]
		top.state = objColon
		parent = top.index
	} else {
		var err error
		if parent, err = p.beginValue(); err != nil {
			return err
		}
	}

	start := p.pos + 1
	i := start
	for {
		if i >= len(p.data) {
			return txerr.New(txerr.UnterminatedString, p.pos)
		}
		b := p.data[i]
		switch {
		case b == '"':
			if _, err := p.alloc(KindString, start, i, parent); err != nil {
				return err
			}
			p.pos = i + 1
			p.endValue()
			return nil
		case b == '\\':
			n, err := p.escape(i)
			if err != nil {
				return err
			}
			i += n
		case b < 0x20:
			return txerr.New(txerr.UnescapedControl, i)
		default:
			i++
		}
	}
}

// escape validates the escape sequence at i and returns its length.
func (p *parser) escape(i int) (int, error) {
	if i+1 >= len(p.data) {
		return 0, txerr.New(txerr.UnterminatedString, p.pos)
	}
	switch p.data[i+1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2, nil
	case 'u':
		if i+6 > len(p.data) {
			return 0, txerr.New(txerr.UnterminatedString, p.pos)
		}
		for _, h := range p.data[i+2 : i+6] {
			if !isHex(h) {
				return 0, txerr.New(txerr.InvalidEscape, i)
			}
		}
		return 6, nil
	default:
		return 0, txerr.New(txerr.InvalidEscape, i)
	}
}

// primitive scans a number or literal up to the next delimiter. Numbers must
// match the JSON grammar but are not converted.
func (p *parser) primitive() error {
	c := p.data[p.pos]
	if c != '-' && !isDigit(c) && c != 't' && c != 'f' && c != 'n' {
		if p.depth == 0 && p.rootDone {
			return p.fail(txerr.TrailingBytes)
		}
		return p.fail(txerr.UnexpectedByte)
	}
	parent, err := p.beginValue()
	if err != nil {
		return err
	}

	end := p.pos
	for end < len(p.data) && !isDelim(p.data[end]) {
		end++
	}
	raw := p.data[p.pos:end]
	var ok bool
	switch c {
	case 't':
		ok = string(raw) == "true"
	case 'f':
		ok = string(raw) == "false"
	case 'n':
		ok = string(raw) == "null"
	default:
		ok = isNumber(raw)
	}
	if !ok {
		return p.fail(txerr.InvalidLiteral)
	}

	if _, err := p.alloc(KindPrimitive, p.pos, end, parent); err != nil {
		return err
	}
	p.pos = end
	p.endValue()
	return nil
}

// isNumber reports whether raw is exactly
// -? (0|[1-9][0-9]*) (\.[0-9]+)? ([eE][+-]?[0-9]+)?
func isNumber(raw []byte) bool {
	i := 0
	if i < len(raw) && raw[i] == '-' {
		i++
	}
	switch {
	case i == len(raw):
		return false
	case raw[i] == '0':
		i++
	case raw[i] >= '1' && raw[i] <= '9':
		i = digits(raw, i)
	default:
		return false
	}
	if i < len(raw) && raw[i] == '.' {
		j := digits(raw, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(raw) && (raw[i] == 'e' || raw[i] == 'E') {
		i++
		if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
			i++
		}
		j := digits(raw, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(raw)
}

// digits returns the index of the first non-digit at or after i.
func digits(raw []byte, i int) int {
	for i < len(raw) && isDigit(raw[i]) {
		i++
	}
	return i
}

func isDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ',', ':', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
