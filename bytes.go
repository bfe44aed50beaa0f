package devars

// bytesCaptureLimit caps the capacity preallocated from a sequence size
// hint; untrusted inputs can claim any length.
const bytesCaptureLimit = 4096

// bytesCapture materializes a byte-sequence leaf from whichever shape the
// format delivers: native bytes (kept without copying), text (routed through
// the string path by the resolver), or a sequence of small integers for
// formats lacking a byte-string shape.
type bytesCapture struct {
	BaseVisitor
	val Value
}

func (c *bytesCapture) VisitBytes(v []byte) error  { c.val = BytesValue(v); return nil }
func (c *bytesCapture) VisitString(v string) error { c.val = StringValue(v); return nil }

func (c *bytesCapture) VisitSeq(seq SeqAccess) error {
	n := seq.Size()
	if n < 0 || n > bytesCaptureLimit {
		n = bytesCaptureLimit
	}
	buf := make([]byte, 0, n)
	for {
		more, err := seq.NextElement(func(d Decoder) error {
			return d.DecodeUint8(&byteElement{BaseVisitor: expects("a byte (0..255)"), buf: &buf})
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	c.val = BytesValue(buf)
	return nil
}

type byteElement struct {
	BaseVisitor
	buf *[]byte
}

func (e *byteElement) VisitUint(v uint64) error {
	if v > 255 {
		return Issue{Code: CodeOverflow, Message: "byte element out of range", Offset: -1}
	}
	*e.buf = append(*e.buf, byte(v))
	return nil
}

func (e *byteElement) VisitInt(v int64) error {
	if v < 0 || v > 255 {
		return Issue{Code: CodeOverflow, Message: "byte element out of range", Offset: -1}
	}
	*e.buf = append(*e.buf, byte(v))
	return nil
}
