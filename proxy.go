package devars

// NewDecoder wraps a format Decoder with variable expansion backed by src.
// The returned Decoder is shape-preserving: aggregate requests are forwarded
// to d with their nested decodes re-entering the proxy, scalar requests are
// intercepted and routed through src when the document leaf is textual. Map
// keys and enum discriminants are never expanded.
//
// The proxy holds no state of its own; it borrows d and src for the duration
// of one decode call tree.
func NewDecoder(d Decoder, src Source) Decoder {
	return &proxyDecoder{d: d, src: src}
}

type proxyDecoder struct {
	d   Decoder
	src Source
}

// capture asks the underlying decoder to self-describe the current leaf.
func (p *proxyDecoder) capture() (Value, error) {
	c := valueCapture{BaseVisitor: expects("any primitive value")}
	if err := p.d.DecodeAny(&c); err != nil {
		return Value{}, err
	}
	return c.val, nil
}

func (p *proxyDecoder) resolver(val Value) valueDecoder {
	return valueDecoder{val: val, src: p.src}
}

func (p *proxyDecoder) wrap(v Visitor) Visitor {
	return &wrapVisitor{inner: v, src: p.src}
}

func (p *proxyDecoder) DecodeAny(v Visitor) error { return p.d.DecodeAny(p.wrap(v)) }

func (p *proxyDecoder) typed(v Visitor, decode func(valueDecoder, Visitor) error) error {
	val, err := p.capture()
	if err != nil {
		return err
	}
	return decode(p.resolver(val), v)
}

func (p *proxyDecoder) DecodeBool(v Visitor) error {
	return p.typed(v, valueDecoder.DecodeBool)
}

func (p *proxyDecoder) DecodeInt8(v Visitor) error  { return p.typed(v, valueDecoder.DecodeInt8) }
func (p *proxyDecoder) DecodeInt16(v Visitor) error { return p.typed(v, valueDecoder.DecodeInt16) }
func (p *proxyDecoder) DecodeInt32(v Visitor) error { return p.typed(v, valueDecoder.DecodeInt32) }
func (p *proxyDecoder) DecodeInt64(v Visitor) error { return p.typed(v, valueDecoder.DecodeInt64) }

func (p *proxyDecoder) DecodeUint8(v Visitor) error  { return p.typed(v, valueDecoder.DecodeUint8) }
func (p *proxyDecoder) DecodeUint16(v Visitor) error { return p.typed(v, valueDecoder.DecodeUint16) }
func (p *proxyDecoder) DecodeUint32(v Visitor) error { return p.typed(v, valueDecoder.DecodeUint32) }
func (p *proxyDecoder) DecodeUint64(v Visitor) error { return p.typed(v, valueDecoder.DecodeUint64) }

func (p *proxyDecoder) DecodeFloat32(v Visitor) error { return p.typed(v, valueDecoder.DecodeFloat32) }
func (p *proxyDecoder) DecodeFloat64(v Visitor) error { return p.typed(v, valueDecoder.DecodeFloat64) }

// DecodeString bypasses the generic capture and asks the driver for a string
// outright. Formats that can render a scalar in more than one shape (YAML's
// implicitly typed scalars) must yield the literal text here, which generic
// self-describing capture would lose.
func (p *proxyDecoder) DecodeString(v Visitor) error {
	c := stringCapture{BaseVisitor: expects("a string")}
	if err := p.d.DecodeString(&c); err != nil {
		return err
	}
	return p.resolver(StringValue(c.s)).DecodeString(v)
}

// DecodeBytes likewise requests bytes directly; the capture accepts native
// bytes, text, or an integer sequence (see bytesCapture).
func (p *proxyDecoder) DecodeBytes(v Visitor) error {
	c := bytesCapture{BaseVisitor: expects("a byte array")}
	if err := p.d.DecodeBytes(&c); err != nil {
		return err
	}
	return p.resolver(c.val).DecodeBytes(v)
}

func (p *proxyDecoder) DecodeOption(v Visitor) error { return p.d.DecodeOption(p.wrap(v)) }
func (p *proxyDecoder) DecodeUnit(v Visitor) error   { return p.d.DecodeUnit(p.wrap(v)) }

func (p *proxyDecoder) DecodeNewtype(name string, v Visitor) error {
	return p.d.DecodeNewtype(name, p.wrap(v))
}

func (p *proxyDecoder) DecodeSeq(v Visitor) error { return p.d.DecodeSeq(p.wrap(v)) }

func (p *proxyDecoder) DecodeTuple(n int, v Visitor) error { return p.d.DecodeTuple(n, p.wrap(v)) }

func (p *proxyDecoder) DecodeMap(v Visitor) error { return p.d.DecodeMap(p.wrap(v)) }

func (p *proxyDecoder) DecodeStruct(name string, fields []string, v Visitor) error {
	return p.d.DecodeStruct(name, fields, p.wrap(v))
}

func (p *proxyDecoder) DecodeEnum(name string, variants []string, v Visitor) error {
	return p.d.DecodeEnum(name, variants, p.wrap(v))
}

// Identifiers name fields and variants; they are structural and never
// substituted, so the visitor passes through unwrapped.
func (p *proxyDecoder) DecodeIdentifier(v Visitor) error { return p.d.DecodeIdentifier(v) }

// Ignored values are discarded without resolution; expanding them could only
// surface errors for data the application never sees.
func (p *proxyDecoder) DecodeIgnored(v Visitor) error { return p.d.DecodeIgnored(v) }

// valueCapture snapshots one self-described primitive.
type valueCapture struct {
	BaseVisitor
	val Value
}

func (c *valueCapture) VisitBool(v bool) error     { c.val = BoolValue(v); return nil }
func (c *valueCapture) VisitInt(v int64) error     { c.val = IntValue(v); return nil }
func (c *valueCapture) VisitUint(v uint64) error   { c.val = UintValue(v); return nil }
func (c *valueCapture) VisitFloat(v float64) error { c.val = FloatValue(v); return nil }
func (c *valueCapture) VisitString(v string) error { c.val = StringValue(v); return nil }
func (c *valueCapture) VisitBytes(v []byte) error  { c.val = BytesValue(v); return nil }
func (c *valueCapture) VisitNull() error           { c.val = Value{Kind: KindNull}; return nil }

type stringCapture struct {
	BaseVisitor
	s string
}

func (c *stringCapture) VisitString(v string) error { c.s = v; return nil }

// wrapVisitor is the aggregate-side half of the proxy: it forwards every
// callback to the application's visitor, re-wrapping nested decoders, and
// routes self-described textual leaves through Source.ExpandAny.
type wrapVisitor struct {
	inner Visitor
	src   Source
}

func (w *wrapVisitor) Expecting() string { return w.inner.Expecting() }

func (w *wrapVisitor) VisitBool(v bool) error     { return w.inner.VisitBool(v) }
func (w *wrapVisitor) VisitInt(v int64) error     { return w.inner.VisitInt(v) }
func (w *wrapVisitor) VisitUint(v uint64) error   { return w.inner.VisitUint(v) }
func (w *wrapVisitor) VisitFloat(v float64) error { return w.inner.VisitFloat(v) }

func (w *wrapVisitor) VisitString(v string) error {
	val, err := w.src.ExpandAny(v)
	if err != nil {
		return err
	}
	return val.Replay(w.inner)
}

func (w *wrapVisitor) VisitBytes(v []byte) error { return w.inner.VisitBytes(v) }
func (w *wrapVisitor) VisitNull() error          { return w.inner.VisitNull() }

func (w *wrapVisitor) VisitSome(d Decoder) error {
	return w.inner.VisitSome(NewDecoder(d, w.src))
}

func (w *wrapVisitor) VisitNewtype(d Decoder) error {
	return w.inner.VisitNewtype(NewDecoder(d, w.src))
}

func (w *wrapVisitor) VisitSeq(seq SeqAccess) error {
	return w.inner.VisitSeq(&wrapSeq{inner: seq, src: w.src})
}

func (w *wrapVisitor) VisitMap(m MapAccess) error {
	return w.inner.VisitMap(&wrapMap{inner: m, src: w.src})
}

func (w *wrapVisitor) VisitEnum(e EnumAccess) error {
	return w.inner.VisitEnum(&wrapEnum{inner: e, src: w.src})
}

func wrapFunc(fn DecodeFunc, src Source) DecodeFunc {
	return func(d Decoder) error { return fn(NewDecoder(d, src)) }
}

type wrapSeq struct {
	inner SeqAccess
	src   Source
}

func (s *wrapSeq) NextElement(fn DecodeFunc) (bool, error) {
	return s.inner.NextElement(wrapFunc(fn, s.src))
}

func (s *wrapSeq) Size() int { return s.inner.Size() }

type wrapMap struct {
	inner MapAccess
	src   Source
}

// NextKey does not wrap: keys are literal discriminators and must survive
// verbatim even when placeholder-shaped.
func (m *wrapMap) NextKey(fn DecodeFunc) (bool, error) { return m.inner.NextKey(fn) }

func (m *wrapMap) NextValue(fn DecodeFunc) error {
	return m.inner.NextValue(wrapFunc(fn, m.src))
}

type wrapEnum struct {
	inner EnumAccess
	src   Source
}

// Variant does not wrap: which variant fired is structural.
func (e *wrapEnum) Variant(fn DecodeFunc) error { return e.inner.Variant(fn) }

func (e *wrapEnum) Unit() error { return e.inner.Unit() }

func (e *wrapEnum) Newtype(fn DecodeFunc) error {
	return e.inner.Newtype(wrapFunc(fn, e.src))
}

func (e *wrapEnum) Tuple(n int, fn DecodeFunc) error {
	return e.inner.Tuple(n, wrapFunc(fn, e.src))
}

func (e *wrapEnum) Struct(fields []string, fn DecodeFunc) error {
	return e.inner.Struct(fields, wrapFunc(fn, e.src))
}
