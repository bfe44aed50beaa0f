// Package value provides a devars.Decoder over an already-parsed Go value
// tree (nil, bool, integers, floats, string, []byte, []any and
// map[string]any). Binary formats parse into such a tree first and replay it
// through this package.
package value

import (
	"fmt"
	"math"
	"time"

	devars "github.com/reoring/devars"
)

// Decoder replays one value. Aggregate callbacks hand out nested Decoders
// over the children.
type Decoder struct {
	v any
}

var _ devars.Decoder = (*Decoder)(nil)

// New builds a Decoder over v.
func New(v any) *Decoder { return &Decoder{v: v} }

func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func uintValue(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return devars.BoolValue(x).Describe()
	case string:
		return devars.StringValue(x).Describe()
	case []byte:
		return devars.BytesValue(x).Describe()
	case []any:
		return "sequence"
	case map[string]any:
		return "map"
	case time.Time:
		return fmt.Sprintf("timestamp `%s`", x.Format(time.RFC3339))
	}
	if n, ok := intValue(v); ok {
		return devars.IntValue(n).Describe()
	}
	if n, ok := uintValue(v); ok {
		return devars.UintValue(n).Describe()
	}
	if f, ok := floatValue(v); ok {
		return devars.FloatValue(f).Describe()
	}
	return fmt.Sprintf("%T", v)
}

func (d *Decoder) mismatch(v devars.Visitor) error {
	return devars.Issue{
		Code:    devars.CodeInvalidType,
		Message: fmt.Sprintf("invalid type: %s, expected %s", describe(d.v), v.Expecting()),
		Offset:  -1,
	}
}

func (d *Decoder) overflow(want string) error {
	return devars.Issue{
		Code:    devars.CodeOverflow,
		Message: fmt.Sprintf("number %s does not fit %s", describe(d.v), want),
		Offset:  -1,
	}
}

func (d *Decoder) DecodeAny(v devars.Visitor) error {
	switch x := d.v.(type) {
	case nil:
		return v.VisitNull()
	case bool:
		return v.VisitBool(x)
	case string:
		return v.VisitString(x)
	case []byte:
		return v.VisitBytes(x)
	case []any:
		return v.VisitSeq(newSeq(x))
	case map[string]any:
		return v.VisitMap(newMap(x))
	case time.Time:
		return v.VisitString(x.Format(time.RFC3339))
	}
	if n, ok := intValue(d.v); ok {
		return v.VisitInt(n)
	}
	if n, ok := uintValue(d.v); ok {
		return v.VisitUint(n)
	}
	if f, ok := floatValue(d.v); ok {
		return v.VisitFloat(f)
	}
	return d.mismatch(v)
}

func (d *Decoder) DecodeBool(v devars.Visitor) error {
	b, ok := d.v.(bool)
	if !ok {
		return d.mismatch(v)
	}
	return v.VisitBool(b)
}

func fitsInt(n int64, bits int) bool {
	if bits == 64 {
		return true
	}
	limit := int64(1) << (bits - 1)
	return n >= -limit && n < limit
}

func fitsUint(n uint64, bits int) bool {
	if bits == 64 {
		return true
	}
	return n < uint64(1)<<bits
}

func (d *Decoder) integer(v devars.Visitor, bits int) error {
	if n, ok := intValue(d.v); ok {
		if !fitsInt(n, bits) {
			return d.overflow(fmt.Sprintf("int%d", bits))
		}
		return v.VisitInt(n)
	}
	if u, ok := uintValue(d.v); ok {
		if u > math.MaxInt64 || !fitsInt(int64(u), bits) {
			return d.overflow(fmt.Sprintf("int%d", bits))
		}
		return v.VisitInt(int64(u))
	}
	return d.mismatch(v)
}

func (d *Decoder) unsigned(v devars.Visitor, bits int) error {
	if u, ok := uintValue(d.v); ok {
		if !fitsUint(u, bits) {
			return d.overflow(fmt.Sprintf("uint%d", bits))
		}
		return v.VisitUint(u)
	}
	if n, ok := intValue(d.v); ok {
		if n < 0 || !fitsUint(uint64(n), bits) {
			return d.overflow(fmt.Sprintf("uint%d", bits))
		}
		return v.VisitUint(uint64(n))
	}
	return d.mismatch(v)
}

func (d *Decoder) float(v devars.Visitor) error {
	if f, ok := floatValue(d.v); ok {
		return v.VisitFloat(f)
	}
	if n, ok := intValue(d.v); ok {
		return v.VisitFloat(float64(n))
	}
	if u, ok := uintValue(d.v); ok {
		return v.VisitFloat(float64(u))
	}
	return d.mismatch(v)
}

func (d *Decoder) DecodeInt8(v devars.Visitor) error  { return d.integer(v, 8) }
func (d *Decoder) DecodeInt16(v devars.Visitor) error { return d.integer(v, 16) }
func (d *Decoder) DecodeInt32(v devars.Visitor) error { return d.integer(v, 32) }
func (d *Decoder) DecodeInt64(v devars.Visitor) error { return d.integer(v, 64) }

func (d *Decoder) DecodeUint8(v devars.Visitor) error  { return d.unsigned(v, 8) }
func (d *Decoder) DecodeUint16(v devars.Visitor) error { return d.unsigned(v, 16) }
func (d *Decoder) DecodeUint32(v devars.Visitor) error { return d.unsigned(v, 32) }
func (d *Decoder) DecodeUint64(v devars.Visitor) error { return d.unsigned(v, 64) }

func (d *Decoder) DecodeFloat32(v devars.Visitor) error { return d.float(v) }
func (d *Decoder) DecodeFloat64(v devars.Visitor) error { return d.float(v) }

func (d *Decoder) DecodeString(v devars.Visitor) error {
	switch x := d.v.(type) {
	case string:
		return v.VisitString(x)
	case time.Time:
		return v.VisitString(x.Format(time.RFC3339))
	}
	return d.mismatch(v)
}

func (d *Decoder) DecodeBytes(v devars.Visitor) error {
	switch x := d.v.(type) {
	case []byte:
		return v.VisitBytes(x)
	case string:
		return v.VisitString(x)
	case []any:
		return v.VisitSeq(newSeq(x))
	}
	return d.mismatch(v)
}

func (d *Decoder) DecodeOption(v devars.Visitor) error {
	if d.v == nil {
		return v.VisitNull()
	}
	return v.VisitSome(d)
}

func (d *Decoder) DecodeUnit(v devars.Visitor) error {
	if d.v != nil {
		return d.mismatch(v)
	}
	return v.VisitNull()
}

func (d *Decoder) DecodeNewtype(name string, v devars.Visitor) error {
	return v.VisitNewtype(d)
}

func (d *Decoder) DecodeSeq(v devars.Visitor) error {
	s, ok := d.v.([]any)
	if !ok {
		return d.mismatch(v)
	}
	return v.VisitSeq(newSeq(s))
}

func (d *Decoder) DecodeTuple(n int, v devars.Visitor) error {
	return d.DecodeSeq(v)
}

func (d *Decoder) DecodeMap(v devars.Visitor) error {
	m, ok := d.v.(map[string]any)
	if !ok {
		return d.mismatch(v)
	}
	return v.VisitMap(newMap(m))
}

func (d *Decoder) DecodeStruct(name string, fields []string, v devars.Visitor) error {
	return d.DecodeMap(v)
}

func (d *Decoder) DecodeEnum(name string, variants []string, v devars.Visitor) error {
	switch x := d.v.(type) {
	case string:
		return v.VisitEnum(&enumAccess{variant: x})
	case map[string]any:
		if len(x) != 1 {
			return devars.Issue{
				Code:    devars.CodeInvalidValue,
				Message: "expected a single-key map for an enum with payload",
				Offset:  -1,
			}
		}
		for tag, payload := range x {
			return v.VisitEnum(&enumAccess{variant: tag, payload: payload, hasPayload: true})
		}
	}
	return d.mismatch(v)
}

func (d *Decoder) DecodeIdentifier(v devars.Visitor) error {
	s, ok := d.v.(string)
	if !ok {
		return d.mismatch(v)
	}
	return v.VisitString(s)
}

func (d *Decoder) DecodeIgnored(v devars.Visitor) error {
	return v.VisitNull()
}

type seqAccess struct {
	elems []any
	next  int
}

func newSeq(elems []any) *seqAccess {
	return &seqAccess{elems: elems}
}

func (a *seqAccess) NextElement(fn devars.DecodeFunc) (bool, error) {
	if a.next >= len(a.elems) {
		return false, nil
	}
	elem := a.elems[a.next]
	a.next++
	if err := fn(New(elem)); err != nil {
		return false, err
	}
	return true, nil
}

func (a *seqAccess) Size() int { return len(a.elems) - a.next }

type mapAccess struct {
	m    map[string]any
	keys []string
	next int
}

func newMap(m map[string]any) *mapAccess {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return &mapAccess{m: m, keys: keys}
}

func (a *mapAccess) NextKey(fn devars.DecodeFunc) (bool, error) {
	if a.next >= len(a.keys) {
		return false, nil
	}
	if err := fn(New(a.keys[a.next])); err != nil {
		return false, err
	}
	return true, nil
}

func (a *mapAccess) NextValue(fn devars.DecodeFunc) error {
	key := a.keys[a.next]
	a.next++
	return fn(New(a.m[key]))
}

type enumAccess struct {
	variant    string
	payload    any
	hasPayload bool
}

func (a *enumAccess) Variant(fn devars.DecodeFunc) error {
	return fn(New(a.variant))
}

func (a *enumAccess) Unit() error {
	if a.hasPayload && a.payload != nil {
		return devars.Issue{
			Code:    devars.CodeInvalidType,
			Message: "invalid type: variant with payload, expected unit variant",
			Offset:  -1,
		}
	}
	return nil
}

func (a *enumAccess) payloadDecoder(want string) (*Decoder, error) {
	if !a.hasPayload {
		return nil, devars.Issue{
			Code:    devars.CodeInvalidType,
			Message: "invalid type: unit variant, expected " + want,
			Offset:  -1,
		}
	}
	return New(a.payload), nil
}

func (a *enumAccess) Newtype(fn devars.DecodeFunc) error {
	d, err := a.payloadDecoder("newtype variant")
	if err != nil {
		return err
	}
	return fn(d)
}

func (a *enumAccess) Tuple(n int, fn devars.DecodeFunc) error {
	d, err := a.payloadDecoder("tuple variant")
	if err != nil {
		return err
	}
	return fn(d)
}

func (a *enumAccess) Struct(fields []string, fn devars.DecodeFunc) error {
	d, err := a.payloadDecoder("struct variant")
	if err != nil {
		return err
	}
	return fn(d)
}
