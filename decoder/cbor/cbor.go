// Package cbor provides a devars.Decoder over a CBOR document, parsed by
// fxamacker/cbor into a string-keyed value tree and replayed through
// decoder/value. Byte strings surface natively as []byte, so binary payloads
// skip the sequence-of-integers normalization entirely.
package cbor

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	devars "github.com/reoring/devars"
	"github.com/reoring/devars/decoder/value"
)

var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// NewBytes parses b and builds a Decoder over the decoded tree.
func NewBytes(b []byte) (*value.Decoder, error) {
	var tree any
	if err := decMode.Unmarshal(b, &tree); err != nil {
		return nil, parseError(err)
	}
	return value.New(normalize(tree)), nil
}

// NewReader parses one CBOR data item from r.
func NewReader(r io.Reader) (*value.Decoder, error) {
	var tree any
	if err := decMode.NewDecoder(r).Decode(&tree); err != nil {
		return nil, parseError(err)
	}
	return value.New(normalize(tree)), nil
}

func parseError(err error) error {
	return devars.Issue{
		Code:    devars.CodeParseError,
		Message: err.Error(),
		Cause:   err,
		Offset:  -1,
	}
}

// normalize strips CBOR tags down to their content and recurses into
// containers so decoder/value sees only plain Go shapes.
func normalize(v any) any {
	switch x := v.(type) {
	case cbor.Tag:
		return normalize(x.Content)
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalize(x[k])
		}
		return x
	}
	return v
}
