// Package json provides a devars.Decoder over a JSON document, tokenized by
// goccy/go-json. Numbers stay textual until a typed request names a width, so
// 64-bit integers round-trip without a float64 detour.
package json

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/jsonc"

	devars "github.com/reoring/devars"
	"github.com/reoring/devars/internal/token"
)

// Decoder walks one JSON document. Each decode request consumes exactly one
// value; requests must follow document order.
type Decoder struct {
	src    token.Source
	peeked *token.Token
}

var _ devars.Decoder = (*Decoder)(nil)

// NewBytes builds a Decoder over a JSON byte slice.
func NewBytes(b []byte) *Decoder { return &Decoder{src: token.JSONBytes(b)} }

// NewReader builds a Decoder over a JSON stream.
func NewReader(r io.Reader) *Decoder { return &Decoder{src: token.JSONReader(r)} }

// NewJSONC builds a Decoder over a JSONC document (comments and trailing
// commas allowed), translated to plain JSON before tokenizing.
func NewJSONC(b []byte) *Decoder { return NewBytes(jsonc.ToJSON(b)) }

func (d *Decoder) next() (token.Token, error) {
	if t := d.peeked; t != nil {
		d.peeked = nil
		return *t, nil
	}
	t, err := d.src.NextToken()
	if err != nil {
		return token.Token{}, d.parseError(err)
	}
	return t, nil
}

func (d *Decoder) peek() (token.Token, error) {
	if d.peeked == nil {
		t, err := d.src.NextToken()
		if err != nil {
			return token.Token{}, d.parseError(err)
		}
		d.peeked = &t
	}
	return *d.peeked, nil
}

// discard drops a token previously returned by peek.
func (d *Decoder) discard() { d.peeked = nil }

func (d *Decoder) parseError(err error) error {
	var it devars.Issue
	if errors.As(err, &it) {
		return err
	}
	msg := err.Error()
	if err == io.EOF {
		msg = "unexpected end of input"
	}
	return devars.Issue{
		Code:    devars.CodeParseError,
		Message: msg,
		Cause:   err,
		Offset:  d.src.Location(),
	}
}

func (d *Decoder) invalid(t token.Token, msg string) error {
	return devars.Issue{Code: devars.CodeParseError, Message: msg, Offset: t.Offset}
}

// mismatch reports the shape found at t against what the visitor expects.
func mismatch(t token.Token, v devars.Visitor) error {
	var got string
	switch t.Kind {
	case token.BeginObject:
		got = "map"
	case token.BeginArray:
		got = "sequence"
	case token.Null:
		got = "null"
	case token.Bool:
		got = devars.BoolValue(t.Bool).Describe()
	case token.Number:
		got = fmt.Sprintf("number `%s`", t.Number)
	default:
		got = devars.StringValue(t.String).Describe()
	}
	return devars.Issue{
		Code:    devars.CodeInvalidType,
		Message: fmt.Sprintf("invalid type: %s, expected %s", got, v.Expecting()),
		Offset:  t.Offset,
	}
}

func overflow(t token.Token, text, want string) error {
	return devars.Issue{
		Code:    devars.CodeOverflow,
		Message: fmt.Sprintf("number `%s` does not fit %s", text, want),
		Offset:  t.Offset,
	}
}

// numberText extracts the digits a numeric request can parse: number tokens
// directly, object keys by their text (JSON keys are always strings).
func numberText(t token.Token) (string, bool) {
	switch t.Kind {
	case token.Number:
		return t.Number, true
	case token.Key:
		return t.String, true
	}
	return "", false
}

func (d *Decoder) DecodeAny(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.BeginObject:
		return v.VisitMap(&mapAccess{d: d})
	case token.BeginArray:
		return v.VisitSeq(&seqAccess{d: d})
	case token.String, token.Key:
		return v.VisitString(t.String)
	case token.Number:
		return d.visitNumber(t, v)
	case token.Bool:
		return v.VisitBool(t.Bool)
	case token.Null:
		return v.VisitNull()
	}
	return d.invalid(t, "unexpected token")
}

// visitNumber reports integers at full 64-bit precision: non-negative ones as
// uint, negative ones as int, everything else as float.
func (d *Decoder) visitNumber(t token.Token, v devars.Visitor) error {
	text := t.Number
	if isInteger(text) {
		if text[0] == '-' {
			if n, err := strconv.ParseInt(text, 10, 64); err == nil {
				return v.VisitInt(n)
			}
		} else if n, err := strconv.ParseUint(text, 10, 64); err == nil {
			return v.VisitUint(n)
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return d.invalid(t, fmt.Sprintf("malformed number `%s`", text))
	}
	return v.VisitFloat(f)
}

func isInteger(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return len(text) > 0
}

func (d *Decoder) DecodeBool(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.Bool {
		return mismatch(t, v)
	}
	return v.VisitBool(t.Bool)
}

func (d *Decoder) integer(v devars.Visitor, bits int) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	text, ok := numberText(t)
	if !ok {
		return mismatch(t, v)
	}
	n, err := strconv.ParseInt(text, 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return overflow(t, text, fmt.Sprintf("int%d", bits))
		}
		return mismatch(t, v)
	}
	return v.VisitInt(n)
}

func (d *Decoder) unsigned(v devars.Visitor, bits int) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	text, ok := numberText(t)
	if !ok {
		return mismatch(t, v)
	}
	n, err := strconv.ParseUint(text, 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return overflow(t, text, fmt.Sprintf("uint%d", bits))
		}
		return mismatch(t, v)
	}
	return v.VisitUint(n)
}

func (d *Decoder) float(v devars.Visitor, bits int) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	text, ok := numberText(t)
	if !ok {
		return mismatch(t, v)
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return overflow(t, text, fmt.Sprintf("float%d", bits))
		}
		return mismatch(t, v)
	}
	return v.VisitFloat(f)
}

func (d *Decoder) DecodeInt8(v devars.Visitor) error  { return d.integer(v, 8) }
func (d *Decoder) DecodeInt16(v devars.Visitor) error { return d.integer(v, 16) }
func (d *Decoder) DecodeInt32(v devars.Visitor) error { return d.integer(v, 32) }
func (d *Decoder) DecodeInt64(v devars.Visitor) error { return d.integer(v, 64) }

func (d *Decoder) DecodeUint8(v devars.Visitor) error  { return d.unsigned(v, 8) }
func (d *Decoder) DecodeUint16(v devars.Visitor) error { return d.unsigned(v, 16) }
func (d *Decoder) DecodeUint32(v devars.Visitor) error { return d.unsigned(v, 32) }
func (d *Decoder) DecodeUint64(v devars.Visitor) error { return d.unsigned(v, 64) }

func (d *Decoder) DecodeFloat32(v devars.Visitor) error { return d.float(v, 32) }
func (d *Decoder) DecodeFloat64(v devars.Visitor) error { return d.float(v, 64) }

func (d *Decoder) DecodeString(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.String && t.Kind != token.Key {
		return mismatch(t, v)
	}
	return v.VisitString(t.String)
}

// DecodeBytes accepts either a string or an array of small integers; the
// visitor normalizes the array form.
func (d *Decoder) DecodeBytes(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.String:
		return v.VisitString(t.String)
	case token.BeginArray:
		return v.VisitSeq(&seqAccess{d: d})
	}
	return mismatch(t, v)
}

func (d *Decoder) DecodeOption(v devars.Visitor) error {
	t, err := d.peek()
	if err != nil {
		return err
	}
	if t.Kind == token.Null {
		d.discard()
		return v.VisitNull()
	}
	return v.VisitSome(d)
}

func (d *Decoder) DecodeUnit(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.Null {
		return mismatch(t, v)
	}
	return v.VisitNull()
}

func (d *Decoder) DecodeNewtype(name string, v devars.Visitor) error {
	return v.VisitNewtype(d)
}

func (d *Decoder) DecodeSeq(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.BeginArray {
		return mismatch(t, v)
	}
	return v.VisitSeq(&seqAccess{d: d})
}

func (d *Decoder) DecodeTuple(n int, v devars.Visitor) error {
	return d.DecodeSeq(v)
}

func (d *Decoder) DecodeMap(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.BeginObject {
		return mismatch(t, v)
	}
	return v.VisitMap(&mapAccess{d: d})
}

func (d *Decoder) DecodeStruct(name string, fields []string, v devars.Visitor) error {
	return d.DecodeMap(v)
}

// DecodeEnum accepts the two JSON spellings of an enum: a bare string for a
// unit variant, or a single-key object whose key is the variant name and
// whose value is the payload.
func (d *Decoder) DecodeEnum(name string, variants []string, v devars.Visitor) error {
	t, err := d.peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.String:
		return v.VisitEnum(&enumAccess{d: d})
	case token.BeginObject:
		d.discard()
		return v.VisitEnum(&enumAccess{d: d, object: true})
	}
	d.discard()
	return mismatch(t, v)
}

func (d *Decoder) DecodeIdentifier(v devars.Visitor) error {
	t, err := d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.Key && t.Kind != token.String {
		return mismatch(t, v)
	}
	return v.VisitString(t.String)
}

func (d *Decoder) DecodeIgnored(v devars.Visitor) error {
	if err := d.skip(); err != nil {
		return err
	}
	return v.VisitNull()
}

// skip discards one value, tracking container depth.
func (d *Decoder) skip() error {
	t, err := d.next()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.BeginObject, token.BeginArray:
	default:
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := d.next()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.BeginObject, token.BeginArray:
			depth++
		case token.EndObject, token.EndArray:
			depth--
		}
	}
	return nil
}

type seqAccess struct{ d *Decoder }

func (a *seqAccess) NextElement(fn devars.DecodeFunc) (bool, error) {
	t, err := a.d.peek()
	if err != nil {
		return false, err
	}
	if t.Kind == token.EndArray {
		a.d.discard()
		return false, nil
	}
	if err := fn(a.d); err != nil {
		return false, err
	}
	return true, nil
}

func (a *seqAccess) Size() int { return -1 }

type mapAccess struct{ d *Decoder }

func (a *mapAccess) NextKey(fn devars.DecodeFunc) (bool, error) {
	t, err := a.d.peek()
	if err != nil {
		return false, err
	}
	if t.Kind == token.EndObject {
		a.d.discard()
		return false, nil
	}
	if t.Kind != token.Key {
		return false, a.d.invalid(t, "expected object key")
	}
	if err := fn(a.d); err != nil {
		return false, err
	}
	return true, nil
}

func (a *mapAccess) NextValue(fn devars.DecodeFunc) error {
	return fn(a.d)
}

// enumAccess drives one enum value. In the object form the closing brace is
// consumed after the payload, keeping the caller's position consistent.
type enumAccess struct {
	d      *Decoder
	object bool
}

func (a *enumAccess) Variant(fn devars.DecodeFunc) error {
	return fn(a.d)
}

func (a *enumAccess) end() error {
	if !a.object {
		return nil
	}
	t, err := a.d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.EndObject {
		return a.d.invalid(t, "expected a single-key object for an enum with payload")
	}
	return nil
}

func (a *enumAccess) Unit() error {
	if !a.object {
		return nil
	}
	t, err := a.d.next()
	if err != nil {
		return err
	}
	if t.Kind != token.Null {
		return a.d.invalid(t, "expected null payload for a unit variant")
	}
	return a.end()
}

func (a *enumAccess) payload(fn devars.DecodeFunc, want string) error {
	if !a.object {
		return devars.Issue{
			Code:    devars.CodeInvalidType,
			Message: "invalid type: unit variant, expected " + want,
			Offset:  -1,
		}
	}
	if err := fn(a.d); err != nil {
		return err
	}
	return a.end()
}

func (a *enumAccess) Newtype(fn devars.DecodeFunc) error {
	return a.payload(fn, "newtype variant")
}

func (a *enumAccess) Tuple(n int, fn devars.DecodeFunc) error {
	return a.payload(fn, "tuple variant")
}

func (a *enumAccess) Struct(fields []string, fn devars.DecodeFunc) error {
	return a.payload(fn, "struct variant")
}
