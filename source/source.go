// Package source provides the built-in resolution backends: environment
// variables, in-memory maps and file contents. Each implements
// devars.Source; the placeholder syntax is `${NAME}` by default and can be
// changed per backend.
package source

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	devars "github.com/reoring/devars"
)

// variable holds the placeholder delimiters shared by the backends.
type variable struct {
	prefix string
	suffix string
}

func defaultVariable() variable { return variable{prefix: "${", suffix: "}"} }

// parse extracts the variable name from a placeholder, reporting false when
// text is not placeholder-shaped.
func (v variable) parse(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, v.prefix)
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, v.suffix)
}

func (v variable) parseBytes(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return v.parse(string(b))
}

// format renders the literal placeholder form for diagnostics.
func (v variable) format(name string) string { return v.prefix + name + v.suffix }

func (v variable) missing(name string) error {
	return devars.Issue{
		Code:    devars.CodeMissingVariable,
		Message: fmt.Sprintf("got variable `%s`, but it does not exist", v.format(name)),
		Offset:  -1,
	}
}

func (v variable) expectedVariable(text, expected string) error {
	return devars.Issue{
		Code:    devars.CodeInvalidValue,
		Message: fmt.Sprintf("invalid value: string %q, expected %s or a variable", text, expected),
		Offset:  -1,
	}
}

func (v variable) mismatched(name string, got devars.Value, expected string) error {
	return devars.Issue{
		Code:    devars.CodeInvalidValue,
		Message: fmt.Sprintf("invalid value: %s, expected variable `%s` to be %s", got.Describe(), v.format(name), expected),
		Offset:  -1,
	}
}

// parseAny infers a primitive from resolved text. Ambiguous values resolve
// in priority order: bool, unsigned, signed, float, string. Wrapping a value
// in an extra pair of `"` forces a string and strips the quotes.
func parseAny(text string) devars.Value {
	switch text {
	case "true":
		return devars.BoolValue(true)
	case "false":
		return devars.BoolValue(false)
	}
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return devars.UintValue(u)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return devars.IntValue(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return devars.FloatValue(f)
	}
	return devars.StringValue(stripQuoted(text))
}

func stripQuoted(text string) string {
	if rest, ok := strings.CutPrefix(text, `"`); ok {
		if inner, ok := strings.CutSuffix(rest, `"`); ok {
			return inner
		}
	}
	return text
}
