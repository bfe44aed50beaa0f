package devars

// valueDecoder resolves a captured leaf against a typed request. A matching
// primitive replays unchanged; textual captures are handed to the Source for
// conversion into the requested shape; everything else is a mismatch.
//
// Numeric requests widen across captured numerics (integer requests accept
// signed and unsigned captures, float requests additionally accept both) and
// only ever resolve text, never numeric mismatches.
type valueDecoder struct {
	val Value
	src Source
}

func (r valueDecoder) mismatch(v Visitor) error { return Mismatch(r.val, v) }

func (r valueDecoder) DecodeAny(v Visitor) error { return r.mismatch(v) }

func (r valueDecoder) DecodeBool(v Visitor) error {
	switch r.val.Kind {
	case KindBool:
		return v.VisitBool(r.val.Bool)
	case KindString:
		b, err := r.src.ExpandBool(r.val.Str)
		if err != nil {
			return err
		}
		return v.VisitBool(b)
	default:
		return r.mismatch(v)
	}
}

func (r valueDecoder) integer(v Visitor, bits int) error {
	switch r.val.Kind {
	case KindInt:
		return v.VisitInt(r.val.Int)
	case KindUint:
		return v.VisitUint(r.val.Uint)
	case KindString:
		n, err := r.src.ExpandInt(r.val.Str, bits)
		if err != nil {
			return err
		}
		return v.VisitInt(n)
	default:
		return r.mismatch(v)
	}
}

func (r valueDecoder) unsigned(v Visitor, bits int) error {
	switch r.val.Kind {
	case KindInt:
		return v.VisitInt(r.val.Int)
	case KindUint:
		return v.VisitUint(r.val.Uint)
	case KindString:
		n, err := r.src.ExpandUint(r.val.Str, bits)
		if err != nil {
			return err
		}
		return v.VisitUint(n)
	default:
		return r.mismatch(v)
	}
}

func (r valueDecoder) float(v Visitor, bits int) error {
	switch r.val.Kind {
	case KindFloat:
		return v.VisitFloat(r.val.Float)
	case KindInt:
		return v.VisitInt(r.val.Int)
	case KindUint:
		return v.VisitUint(r.val.Uint)
	case KindString:
		f, err := r.src.ExpandFloat(r.val.Str, bits)
		if err != nil {
			return err
		}
		return v.VisitFloat(f)
	default:
		return r.mismatch(v)
	}
}

func (r valueDecoder) DecodeInt8(v Visitor) error  { return r.integer(v, 8) }
func (r valueDecoder) DecodeInt16(v Visitor) error { return r.integer(v, 16) }
func (r valueDecoder) DecodeInt32(v Visitor) error { return r.integer(v, 32) }
func (r valueDecoder) DecodeInt64(v Visitor) error { return r.integer(v, 64) }

func (r valueDecoder) DecodeUint8(v Visitor) error  { return r.unsigned(v, 8) }
func (r valueDecoder) DecodeUint16(v Visitor) error { return r.unsigned(v, 16) }
func (r valueDecoder) DecodeUint32(v Visitor) error { return r.unsigned(v, 32) }
func (r valueDecoder) DecodeUint64(v Visitor) error { return r.unsigned(v, 64) }

func (r valueDecoder) DecodeFloat32(v Visitor) error { return r.float(v, 32) }
func (r valueDecoder) DecodeFloat64(v Visitor) error { return r.float(v, 64) }

func (r valueDecoder) DecodeString(v Visitor) error {
	switch r.val.Kind {
	case KindString:
		s, err := r.src.ExpandString(r.val.Str)
		if err != nil {
			return err
		}
		return v.VisitString(s)
	default:
		return r.mismatch(v)
	}
}

func (r valueDecoder) DecodeBytes(v Visitor) error {
	switch r.val.Kind {
	case KindString:
		// Textual captures are the UTF-8 text of the literal; formats decide
		// per request whether the same literal is text or bytes.
		return r.DecodeString(v)
	case KindBytes:
		b, err := r.src.ExpandBytes(r.val.Bytes)
		if err != nil {
			return err
		}
		return v.VisitBytes(b)
	default:
		return r.mismatch(v)
	}
}

// The proxy never routes aggregate shapes through a captured value; these
// exist to satisfy Decoder and report the capture as-is.

func (r valueDecoder) DecodeOption(v Visitor) error { return r.mismatch(v) }
func (r valueDecoder) DecodeUnit(v Visitor) error   { return r.mismatch(v) }

func (r valueDecoder) DecodeNewtype(name string, v Visitor) error { return r.mismatch(v) }

func (r valueDecoder) DecodeSeq(v Visitor) error          { return r.mismatch(v) }
func (r valueDecoder) DecodeTuple(n int, v Visitor) error { return r.mismatch(v) }
func (r valueDecoder) DecodeMap(v Visitor) error          { return r.mismatch(v) }

func (r valueDecoder) DecodeStruct(name string, fields []string, v Visitor) error {
	return r.mismatch(v)
}

func (r valueDecoder) DecodeEnum(name string, variants []string, v Visitor) error {
	return r.mismatch(v)
}

func (r valueDecoder) DecodeIdentifier(v Visitor) error { return r.mismatch(v) }

func (r valueDecoder) DecodeIgnored(v Visitor) error { return v.VisitNull() }
