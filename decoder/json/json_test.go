package json_test

import (
	"strings"
	"testing"

	devars "github.com/reoring/devars"
	dj "github.com/reoring/devars/decoder/json"
	"github.com/reoring/devars/source"
)

func TestNumbers_FullWidth(t *testing.T) {
	type nums struct {
		Big  uint64  `json:"big"`
		Neg  int64   `json:"neg"`
		Frac float64 `json:"frac"`
	}
	doc := []byte(`{"big":18446744073709551615,"neg":-9223372036854775808,"frac":0.25}`)
	got, err := devars.As[nums](dj.NewBytes(doc), source.Map(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Big != 18446744073709551615 || got.Neg != -9223372036854775808 || got.Frac != 0.25 {
		t.Fatalf("got %+v", got)
	}
}

func TestNumbers_AnyKeepsIntegerPrecision(t *testing.T) {
	got, err := devars.As[map[string]any](dj.NewBytes([]byte(`{"n":9007199254740993}`)), source.Map(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["n"] != uint64(9007199254740993) {
		t.Fatalf("n = %#v", got["n"])
	}
}

func TestJSONC_CommentsAndTrailingCommas(t *testing.T) {
	doc := []byte(`{
		// primary endpoint
		"host": "${HOST}",
		"port": 6379, /* default */
	}`)
	type cfg struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	got, err := devars.As[cfg](dj.NewJSONC(doc), source.Map(map[string]string{"HOST": "db"}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Host != "db" || got.Port != 6379 {
		t.Fatalf("got %+v", got)
	}
}

func TestStringRequestOnNumber(t *testing.T) {
	type cfg struct {
		S string `json:"s"`
	}
	_, err := devars.As[cfg](dj.NewBytes([]byte(`{"s":123}`)), source.Map(nil))
	it, ok := devars.AsIssue(err)
	if !ok || it.Code != devars.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", err)
	}
	if !strings.Contains(it.Message, "number `123`") {
		t.Fatalf("message = %q", it.Message)
	}
}

func TestNumericMapKeys(t *testing.T) {
	got, err := devars.As[map[int8]string](dj.NewBytes([]byte(`{"1":"a","-2":"b"}`)), source.Map(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[1] != "a" || got[-2] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestMalformedDocument(t *testing.T) {
	var out map[string]any
	err := devars.Decode(dj.NewBytes([]byte(`{"a":`)), source.Map(nil), &out)
	if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	type cfg struct {
		Keep int `json:"keep"`
	}
	doc := []byte(`{"drop":{"nested":["${X}",{"deep":1}]},"keep":7}`)
	// The ignored subtree contains a placeholder; skipping must not resolve it.
	got, err := devars.As[cfg](dj.NewBytes(doc), source.Map(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Keep != 7 {
		t.Fatalf("got %+v", got)
	}
}
