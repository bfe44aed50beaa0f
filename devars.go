package devars

import "reflect"

// Decode is the primary entry point. It decodes the document behind d into
// out (a non-nil pointer), expanding variable placeholders through src. The
// first error encountered, in document order, aborts the decode; there is no
// partial result.
func Decode(d Decoder, src Source, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Issue{Code: CodeParseError, Message: "decode target must be a non-nil pointer", Offset: -1}
	}
	return bindValue(NewDecoder(d, src), rv.Elem(), "")
}

// As decodes the document into a fresh T.
func As[T any](d Decoder, src Source) (T, error) {
	var out T
	err := Decode(d, src, &out)
	return out, err
}
