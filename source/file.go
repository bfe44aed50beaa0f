package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	devars "github.com/reoring/devars"
)

// FileSource resolves placeholders by reading files: the variable name is a
// path, joined to a base path when relative. Known target types are parsed
// from the file text; bytes and self-describing expansion load raw contents.
//
// Do not point this source at untrusted input; it grants unfiltered
// filesystem access.
type FileSource struct {
	base string
	v    variable
}

// File builds a FileSource with the default `${`/`}` delimiters and no base
// path.
func File() *FileSource {
	return &FileSource{v: defaultVariable()}
}

// WithBasePath joins relative placeholder paths onto base. An absolute base
// keeps resolution independent of the working directory.
func (s *FileSource) WithBasePath(base string) *FileSource {
	s.base = base
	return s
}

// WithPrefix changes the placeholder prefix.
func (s *FileSource) WithPrefix(prefix string) *FileSource {
	s.v.prefix = prefix
	return s
}

// WithSuffix changes the placeholder suffix.
func (s *FileSource) WithSuffix(suffix string) *FileSource {
	s.v.suffix = suffix
	return s
}

func (s *FileSource) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.base, name)
}

func (s *FileSource) readFailure(path, name string, err error) error {
	return devars.Issue{
		Code:    devars.CodeReadFailure,
		Message: fmt.Sprintf("failed to read file `%s` from variable `%s`: %v", path, s.v.format(name), err),
		Cause:   err,
		Offset:  -1,
	}
}

func (s *FileSource) read(name string) ([]byte, error) {
	path := s.resolve(name)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, s.readFailure(path, name, err)
	}
	return b, nil
}

func (s *FileSource) text(name string) (string, error) {
	b, err := s.read(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *FileSource) ExpandBool(text string) (bool, error) {
	const expected = "a boolean"
	name, ok := s.v.parse(text)
	if !ok {
		return false, s.v.expectedVariable(text, expected)
	}
	v, err := s.text(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return b, nil
}

func (s *FileSource) ExpandInt(text string, bits int) (int64, error) {
	expected := fmt.Sprintf("a signed integer (int%d)", bits)
	name, ok := s.v.parse(text)
	if !ok {
		return 0, s.v.expectedVariable(text, expected)
	}
	v, err := s.text(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, bits)
	if err != nil {
		return 0, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return n, nil
}

func (s *FileSource) ExpandUint(text string, bits int) (uint64, error) {
	expected := fmt.Sprintf("an unsigned integer (uint%d)", bits)
	name, ok := s.v.parse(text)
	if !ok {
		return 0, s.v.expectedVariable(text, expected)
	}
	v, err := s.text(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return n, nil
}

func (s *FileSource) ExpandFloat(text string, bits int) (float64, error) {
	const expected = "a floating point"
	name, ok := s.v.parse(text)
	if !ok {
		return 0, s.v.expectedVariable(text, expected)
	}
	v, err := s.text(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, bits)
	if err != nil {
		return 0, s.v.mismatched(name, devars.StringValue(v), expected)
	}
	return f, nil
}

func (s *FileSource) ExpandString(text string) (string, error) {
	name, ok := s.v.parse(text)
	if !ok {
		return text, nil
	}
	v, err := s.text(name)
	if err != nil {
		return "", err
	}
	val := parseAny(v)
	if val.Kind != devars.KindString {
		return "", s.v.mismatched(name, val, "a string")
	}
	return val.Str, nil
}

func (s *FileSource) ExpandBytes(b []byte) ([]byte, error) {
	name, ok := s.v.parseBytes(b)
	if !ok {
		return b, nil
	}
	return s.read(name)
}

func (s *FileSource) ExpandAny(text string) (devars.Value, error) {
	name, ok := s.v.parse(text)
	if !ok {
		return devars.StringValue(text), nil
	}
	b, err := s.read(name)
	if err != nil {
		return devars.Value{}, err
	}
	if !utf8.Valid(b) {
		return devars.BytesValue(b), nil
	}
	return parseAny(string(b)), nil
}
