// Package toml provides a devars.Decoder over a TOML document, parsed by
// pelletier/go-toml into a tree and replayed through decoder/value.
package toml

import (
	"io"

	gotoml "github.com/pelletier/go-toml"

	devars "github.com/reoring/devars"
	"github.com/reoring/devars/decoder/value"
)

// NewBytes parses b and builds a Decoder over the document table.
func NewBytes(b []byte) (*value.Decoder, error) {
	tree, err := gotoml.LoadBytes(b)
	if err != nil {
		return nil, parseError(err)
	}
	return value.New(normalize(tree.ToMap())), nil
}

// NewReader parses a TOML document from r.
func NewReader(r io.Reader) (*value.Decoder, error) {
	tree, err := gotoml.LoadReader(r)
	if err != nil {
		return nil, parseError(err)
	}
	return value.New(normalize(tree.ToMap())), nil
}

func parseError(err error) error {
	return devars.Issue{
		Code:    devars.CodeParseError,
		Message: err.Error(),
		Cause:   err,
		Offset:  -1,
	}
}

// normalize rewrites go-toml's local date/time values as their canonical text
// and recurses into containers; everything else already matches the shapes
// decoder/value replays.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k := range x {
			x[k] = normalize(x[k])
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case []map[string]any:
		// Arrays of tables come back in this shape.
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalize(x[i])
		}
		return out
	case gotoml.LocalDate:
		return x.String()
	case gotoml.LocalTime:
		return x.String()
	case gotoml.LocalDateTime:
		return x.String()
	}
	return v
}
