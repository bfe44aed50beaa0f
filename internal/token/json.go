package token

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

type containerKind int

const (
	inObject containerKind = iota
	inArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// jsonSource adapts the go-json streaming decoder into a Source. go-json
// reports object keys as plain strings, so a frame stack tracks whether the
// next string is a key or a value.
type jsonSource struct {
	dec   *j.Decoder
	stack []frame
}

// JSONReader wraps an io.Reader into a Source for JSON using go-json.
// Numbers are kept as text so drivers can parse them at the requested width.
func JSONReader(r io.Reader) Source {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// JSONBytes wraps a byte slice into a Source for JSON using go-json.
func JSONBytes(b []byte) Source { return JSONReader(bytes.NewReader(b)) }

func (s *jsonSource) push(kind containerKind) {
	s.stack = append(s.stack, frame{kind: kind, expectingKey: kind == inObject})
}

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

// delivered flips the enclosing object back to key position once a value has
// been produced.
func (s *jsonSource) delivered() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == inObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.push(inObject)
			return Token{Kind: BeginObject, Offset: -1}, nil
		case '}':
			s.pop()
			s.delivered()
			return Token{Kind: EndObject, Offset: -1}, nil
		case '[':
			s.push(inArray)
			return Token{Kind: BeginArray, Offset: -1}, nil
		case ']':
			s.pop()
			s.delivered()
			return Token{Kind: EndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == inObject && top.expectingKey {
				top.expectingKey = false
				return Token{Kind: Key, String: v, Offset: -1}, nil
			}
		}
		s.delivered()
		return Token{Kind: String, String: v, Offset: -1}, nil
	case bool:
		s.delivered()
		return Token{Kind: Bool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.delivered()
		return Token{Kind: Number, Number: string(v), Offset: -1}, nil
	case float64:
		s.delivered()
		return Token{Kind: Number, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	case nil:
		s.delivered()
		return Token{Kind: Null, Offset: -1}, nil
	}
	s.delivered()
	return Token{Kind: Null, Offset: -1}, nil
}

func (s *jsonSource) Location() int64 { return -1 }
