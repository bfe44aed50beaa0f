package source_test

import (
	"reflect"
	"strings"
	"testing"

	devars "github.com/reoring/devars"
	"github.com/reoring/devars/source"
)

func TestExpandAny_InferencePriority(t *testing.T) {
	src := source.Map(map[string]string{
		"BOOL":   "true",
		"UINT":   "123",
		"INT":    "-123",
		"FLOAT":  "1.5",
		"STRING": "hello",
		"QUOTED": `"123"`,
	})
	cases := []struct {
		name string
		want devars.Value
	}{
		{"BOOL", devars.BoolValue(true)},
		{"UINT", devars.UintValue(123)},
		{"INT", devars.IntValue(-123)},
		{"FLOAT", devars.FloatValue(1.5)},
		{"STRING", devars.StringValue("hello")},
		{"QUOTED", devars.StringValue("123")},
	}
	for _, tc := range cases {
		got, err := src.ExpandAny("${" + tc.name + "}")
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got.Kind != tc.want.Kind {
			t.Fatalf("%s: kind %v, want %v", tc.name, got.Kind, tc.want.Kind)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestExpandAny_NoPlaceholderIsString(t *testing.T) {
	src := source.Map(map[string]string{"X": "true"})
	got, err := src.ExpandAny("plain text with ${X} inside")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got.Kind != devars.KindString || got.Str != "plain text with ${X} inside" {
		t.Fatalf("got %+v", got)
	}
}

func TestExpandString_Passthrough(t *testing.T) {
	src := source.Map(nil)
	got, err := src.ExpandString("just text")
	if err != nil || got != "just text" {
		t.Fatalf("got %q, err %v", got, err)
	}
}

func TestExpandString_NumericValueRejected(t *testing.T) {
	src := source.Map(map[string]string{"PORT": "6379"})
	_, err := src.ExpandString("${PORT}")
	it, ok := devars.AsIssue(err)
	if !ok || it.Code != devars.CodeInvalidValue {
		t.Fatalf("expected invalid_value, got %v", err)
	}
	if !strings.Contains(it.Message, "${PORT}") {
		t.Fatalf("message = %q", it.Message)
	}
}

func TestExpandInt_MissingVariable(t *testing.T) {
	src := source.Map(nil)
	_, err := src.ExpandInt("${ABSENT}", 32)
	it, ok := devars.AsIssue(err)
	if !ok || it.Code != devars.CodeMissingVariable {
		t.Fatalf("expected missing_variable, got %v", err)
	}
	if !strings.Contains(it.Message, "${ABSENT}") {
		t.Fatalf("message = %q", it.Message)
	}
}

func TestExpandInt_WidthOverflow(t *testing.T) {
	src := source.Map(map[string]string{"N": "300"})
	_, err := src.ExpandInt("${N}", 8)
	if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
	if n, err := src.ExpandInt("${N}", 16); err != nil || n != 300 {
		t.Fatalf("got %d, err %v", n, err)
	}
}

func TestExpandBytes_Passthrough(t *testing.T) {
	src := source.Map(nil)
	in := []byte{0xff, 0xfe}
	got, err := src.ExpandBytes(in)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if &got[0] != &in[0] {
		t.Fatalf("expected the original slice back")
	}
}

func TestCustomDelimiters(t *testing.T) {
	src := source.Map(map[string]string{"HOST": "db"}).WithPrefix("%(").WithSuffix(")")
	got, err := src.ExpandString("%(HOST)")
	if err != nil || got != "db" {
		t.Fatalf("got %q, err %v", got, err)
	}
	// The default syntax is now plain text.
	got, err = src.ExpandString("${HOST}")
	if err != nil || got != "${HOST}" {
		t.Fatalf("got %q, err %v", got, err)
	}
}

func TestBoolSpellings(t *testing.T) {
	src := source.Map(map[string]string{"A": "1", "B": "TRUE", "C": "yes"})
	if b, err := src.ExpandBool("${A}"); err != nil || !b {
		t.Fatalf("1: got %v, err %v", b, err)
	}
	if b, err := src.ExpandBool("${B}"); err != nil || !b {
		t.Fatalf("TRUE: got %v, err %v", b, err)
	}
	if _, err := src.ExpandBool("${C}"); err == nil {
		t.Fatalf("expected an error for %q", "yes")
	}
}
