package devars

import (
	"fmt"
	"strconv"
)

// Kind enumerates the primitive shapes a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindUint:
		return "integer"
	case KindFloat:
		return "floating point"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is a snapshot of one decoded primitive leaf. Exactly one field is
// meaningful, selected by Kind. Values are built transiently per leaf decode
// and consumed immediately; they are never retained across decode steps.
//
// It also carries the result of Source.ExpandAny back into a visitor, the
// two roles being structurally identical.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Bytes []byte
}

// Constructors for the common cases, mainly for Source implementations.

func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func IntValue(v int64) Value      { return Value{Kind: KindInt, Int: v} }
func UintValue(v uint64) Value    { return Value{Kind: KindUint, Uint: v} }
func FloatValue(v float64) Value  { return Value{Kind: KindFloat, Float: v} }
func StringValue(v string) Value  { return Value{Kind: KindString, Str: v} }
func BytesValue(v []byte) Value   { return Value{Kind: KindBytes, Bytes: v} }

// Describe renders the value for diagnostics, e.g. "boolean `true`" or
// "integer `-123`".
func (v Value) Describe() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("boolean `%t`", v.Bool)
	case KindInt:
		return fmt.Sprintf("integer `%d`", v.Int)
	case KindUint:
		return fmt.Sprintf("integer `%d`", v.Uint)
	case KindFloat:
		return fmt.Sprintf("floating point `%s`", strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindString:
		return fmt.Sprintf("string %q", v.Str)
	case KindBytes:
		return fmt.Sprintf("bytes (len %d)", len(v.Bytes))
	default:
		return "unknown"
	}
}

// Replay delivers the value into a visitor through the matching callback.
func (v Value) Replay(vis Visitor) error {
	switch v.Kind {
	case KindNull:
		return vis.VisitNull()
	case KindBool:
		return vis.VisitBool(v.Bool)
	case KindInt:
		return vis.VisitInt(v.Int)
	case KindUint:
		return vis.VisitUint(v.Uint)
	case KindFloat:
		return vis.VisitFloat(v.Float)
	case KindString:
		return vis.VisitString(v.Str)
	case KindBytes:
		return vis.VisitBytes(v.Bytes)
	default:
		return Issue{Code: CodeParseError, Message: "invalid value kind", Offset: -1}
	}
}
