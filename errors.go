package devars

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeInvalidType reports a shape mismatch between a decoded value and
	// the shape the caller requested.
	CodeInvalidType = "invalid_type"
	// CodeInvalidValue reports a value of the right shape that cannot serve
	// the request, e.g. non-placeholder text where only a variable would fit.
	CodeInvalidValue = "invalid_value"
	// CodeMissingVariable reports a placeholder whose variable has no value.
	CodeMissingVariable = "missing_variable"
	// CodeReadFailure reports a backend that failed to load a variable's
	// contents (unreadable file, I/O error).
	CodeReadFailure = "read_failure"
	// CodeOverflow reports a numeric value outside the requested width.
	CodeOverflow = "overflow"
	// CodeParseError reports malformed input at the format level.
	CodeParseError = "parse_error"
)

// Issue is the error type of this module. Decoding stops at the first issue;
// there is no aggregation and no partial result.
type Issue struct {
	Path    string // JSON Pointer into the document (for example: /redis/port).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the input source (-1 when unknown).
}

func (it Issue) Error() string {
	b := &strings.Builder{}
	b.WriteString(it.Code)
	if it.Path != "" {
		fmt.Fprintf(b, " at %s", it.Path)
	}
	if it.Message != "" {
		b.WriteString(": ")
		b.WriteString(it.Message)
	}
	return b.String()
}

func (it Issue) Unwrap() error { return it.Cause }

// AsIssue extracts an Issue from an error using errors.As internally.
func AsIssue(err error) (Issue, bool) {
	var it Issue
	if err == nil {
		return it, false
	}
	if errors.As(err, &it) {
		return it, true
	}
	return Issue{}, false
}

// Mismatch builds the invalid_type Issue for a captured value observed where
// another shape was requested. Both sides appear in the message so the caller
// can locate the offending field.
func Mismatch(got Value, want Visitor) Issue {
	return Issue{
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("invalid type: %s, expected %s", got.Describe(), want.Expecting()),
		Offset:  -1,
	}
}
