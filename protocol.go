package devars

// DecodeFunc receives a Decoder positioned at one nested value and issues a
// decode request on it. Sequence elements, map entries and enum payloads are
// delivered through DecodeFunc so that wrappers can interpose on the Decoder
// before the request is made.
type DecodeFunc func(d Decoder) error

// Decoder is the format boundary: one document position that can satisfy
// exactly one decode request. Typed requests name the expected shape;
// DecodeAny asks the format to report whatever shape is there. Results are
// delivered through the Visitor, never returned.
//
// Drivers live under decoder/; NewDecoder wraps any Decoder with variable
// expansion.
type Decoder interface {
	// DecodeAny reports the naturally present shape.
	DecodeAny(v Visitor) error

	DecodeBool(v Visitor) error

	DecodeInt8(v Visitor) error
	DecodeInt16(v Visitor) error
	DecodeInt32(v Visitor) error
	DecodeInt64(v Visitor) error

	DecodeUint8(v Visitor) error
	DecodeUint16(v Visitor) error
	DecodeUint32(v Visitor) error
	DecodeUint64(v Visitor) error

	DecodeFloat32(v Visitor) error
	DecodeFloat64(v Visitor) error

	// DecodeString requests the value as text even when the format could
	// also report it as another shape (a YAML scalar `123` yields "123").
	DecodeString(v Visitor) error
	// DecodeBytes requests a byte sequence. Formats without a native bytes
	// shape may deliver text or a sequence of small integers instead.
	DecodeBytes(v Visitor) error

	// DecodeOption requests an optional value: VisitNull for absence,
	// VisitSome for presence.
	DecodeOption(v Visitor) error
	// DecodeUnit requests a value that carries no information (null).
	DecodeUnit(v Visitor) error
	// DecodeNewtype requests a transparent single-value wrapper.
	DecodeNewtype(name string, v Visitor) error

	DecodeSeq(v Visitor) error
	DecodeTuple(n int, v Visitor) error
	DecodeMap(v Visitor) error
	DecodeStruct(name string, fields []string, v Visitor) error
	DecodeEnum(name string, variants []string, v Visitor) error

	// DecodeIdentifier requests a field or variant name.
	DecodeIdentifier(v Visitor) error
	// DecodeIgnored consumes and discards the value at this position.
	DecodeIgnored(v Visitor) error
}

// Visitor receives the result of one decode request. Scalar callbacks carry
// the value; structural callbacks hand back access objects (or nested
// Decoders) that the visitor drives.
type Visitor interface {
	// Expecting names the shape this visitor accepts, for mismatch errors.
	Expecting() string

	VisitBool(v bool) error
	VisitInt(v int64) error
	VisitUint(v uint64) error
	VisitFloat(v float64) error
	VisitString(v string) error
	VisitBytes(v []byte) error

	VisitNull() error
	VisitSome(d Decoder) error
	VisitNewtype(d Decoder) error

	VisitSeq(seq SeqAccess) error
	VisitMap(m MapAccess) error
	VisitEnum(e EnumAccess) error
}

// SeqAccess iterates the elements of a sequence in document order.
type SeqAccess interface {
	// NextElement decodes the next element through fn, reporting false when
	// the sequence is exhausted (fn is not called in that case).
	NextElement(fn DecodeFunc) (bool, error)
	// Size returns the number of remaining elements when known, -1 otherwise.
	Size() int
}

// MapAccess iterates the entries of a map in document order. Each NextKey
// reporting true must be followed by exactly one NextValue.
type MapAccess interface {
	NextKey(fn DecodeFunc) (bool, error)
	NextValue(fn DecodeFunc) error
}

// EnumAccess decodes one enum value: Variant reads the discriminant, then
// exactly one payload method consumes the content.
type EnumAccess interface {
	Variant(fn DecodeFunc) error
	Unit() error
	Newtype(fn DecodeFunc) error
	Tuple(n int, fn DecodeFunc) error
	Struct(fields []string, fn DecodeFunc) error
}

// BaseVisitor rejects every callback with an invalid_type Issue naming Want.
// Embed it with Want set and override the callbacks the concrete visitor
// accepts; Want is what the default rejects report as the expected shape, so
// it must be populated at construction.
type BaseVisitor struct {
	Want string
}

func expects(want string) BaseVisitor { return BaseVisitor{Want: want} }

func (b BaseVisitor) Expecting() string { return b.Want }

func (b BaseVisitor) reject(got Value) error { return Mismatch(got, b) }

func (b BaseVisitor) VisitBool(v bool) error      { return b.reject(BoolValue(v)) }
func (b BaseVisitor) VisitInt(v int64) error      { return b.reject(IntValue(v)) }
func (b BaseVisitor) VisitUint(v uint64) error    { return b.reject(UintValue(v)) }
func (b BaseVisitor) VisitFloat(v float64) error  { return b.reject(FloatValue(v)) }
func (b BaseVisitor) VisitString(v string) error  { return b.reject(StringValue(v)) }
func (b BaseVisitor) VisitBytes(v []byte) error   { return b.reject(BytesValue(v)) }
func (b BaseVisitor) VisitNull() error            { return b.reject(Value{Kind: KindNull}) }

func (b BaseVisitor) VisitSome(Decoder) error    { return b.rejectShape("optional value") }
func (b BaseVisitor) VisitNewtype(Decoder) error { return b.rejectShape("newtype") }
func (b BaseVisitor) VisitSeq(SeqAccess) error   { return b.rejectShape("sequence") }
func (b BaseVisitor) VisitMap(MapAccess) error   { return b.rejectShape("map") }
func (b BaseVisitor) VisitEnum(EnumAccess) error { return b.rejectShape("enum") }

func (b BaseVisitor) rejectShape(got string) error {
	return Issue{
		Code:    CodeInvalidType,
		Message: "invalid type: " + got + ", expected " + b.Want,
		Offset:  -1,
	}
}
