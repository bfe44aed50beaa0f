package source

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	devars "github.com/reoring/devars"
)

// Lookup resolves a variable name to its raw text value.
type Lookup interface {
	Lookup(name string) (string, bool)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(name string) (string, bool)

func (f LookupFunc) Lookup(name string) (string, bool) { return f(name) }

// StringSource resolves placeholders through a string-based Lookup. Known
// target types are parsed from the looked-up text with strconv at the
// requested width; self-describing expansion uses parseAny's inference
// order. Text without a placeholder passes through untouched.
type StringSource struct {
	v      variable
	lookup Lookup
}

// New builds a StringSource over the given Lookup with the default `${`/`}`
// delimiters.
func New(lookup Lookup) *StringSource {
	return &StringSource{v: defaultVariable(), lookup: lookup}
}

// Env resolves variables from the process environment.
func Env() *StringSource {
	return New(LookupFunc(os.LookupEnv))
}

// Map resolves variables from m.
func Map(m map[string]string) *StringSource {
	return New(LookupFunc(func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}))
}

// WithPrefix changes the placeholder prefix.
func (s *StringSource) WithPrefix(prefix string) *StringSource {
	s.v.prefix = prefix
	return s
}

// WithSuffix changes the placeholder suffix.
func (s *StringSource) WithSuffix(suffix string) *StringSource {
	s.v.suffix = suffix
	return s
}

func (s *StringSource) value(name string) (string, error) {
	v, ok := s.lookup.Lookup(name)
	if !ok {
		return "", s.v.missing(name)
	}
	return v, nil
}

func (s *StringSource) ExpandBool(text string) (bool, error) {
	const expected = "a boolean"
	name, ok := s.v.parse(text)
	if !ok {
		return false, s.v.expectedVariable(text, expected)
	}
	v, err := s.value(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return b, nil
}

func (s *StringSource) ExpandInt(text string, bits int) (int64, error) {
	expected := fmt.Sprintf("a signed integer (int%d)", bits)
	name, ok := s.v.parse(text)
	if !ok {
		return 0, s.v.expectedVariable(text, expected)
	}
	v, err := s.value(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, devars.Issue{Code: devars.CodeOverflow, Message: fmt.Sprintf("variable `%s` value %q overflows int%d", s.v.format(name), v, bits), Offset: -1}
		}
		return 0, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return n, nil
}

func (s *StringSource) ExpandUint(text string, bits int) (uint64, error) {
	expected := fmt.Sprintf("an unsigned integer (uint%d)", bits)
	name, ok := s.v.parse(text)
	if !ok {
		return 0, s.v.expectedVariable(text, expected)
	}
	v, err := s.value(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, devars.Issue{Code: devars.CodeOverflow, Message: fmt.Sprintf("variable `%s` value %q overflows uint%d", s.v.format(name), v, bits), Offset: -1}
		}
		return 0, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return n, nil
}

func (s *StringSource) ExpandFloat(text string, bits int) (float64, error) {
	const expected = "a floating point"
	name, ok := s.v.parse(text)
	if !ok {
		return 0, s.v.expectedVariable(text, expected)
	}
	v, err := s.value(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, bits)
	if err != nil {
		return 0, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return f, nil
}

func (s *StringSource) ExpandString(text string) (string, error) {
	name, ok := s.v.parse(text)
	if !ok {
		// No variable in the string; the expansion is the original.
		return text, nil
	}
	v, err := s.value(name)
	if err != nil {
		return "", err
	}
	val := parseAny(v)
	if val.Kind != devars.KindString {
		return "", s.v.mismatched(name, val, "a string")
	}
	return val.Str, nil
}

func (s *StringSource) ExpandBytes(b []byte) ([]byte, error) {
	name, ok := s.v.parseBytes(b)
	if !ok {
		return b, nil
	}
	v, err := s.value(name)
	if err != nil {
		return nil, err
	}
	val := parseAny(v)
	if val.Kind != devars.KindString {
		return nil, s.v.mismatched(name, val, "a string")
	}
	return []byte(val.Str), nil
}

func (s *StringSource) ExpandAny(text string) (devars.Value, error) {
	name, ok := s.v.parse(text)
	if !ok {
		return devars.StringValue(text), nil
	}
	v, err := s.value(name)
	if err != nil {
		return devars.Value{}, err
	}
	return parseAny(v), nil
}
