package yaml_test

import (
	"testing"

	devars "github.com/reoring/devars"
	dy "github.com/reoring/devars/decoder/yaml"
	"github.com/reoring/devars/source"
)

func decode[T any](t *testing.T, doc string, vars map[string]string) T {
	t.Helper()
	d, err := dy.NewBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := devars.As[T](d, source.Map(vars))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestScalarLiteralText(t *testing.T) {
	type cfg struct {
		Port string `json:"port"`
	}
	// A string request against an implicitly typed scalar yields its text.
	got := decode[cfg](t, "port: 123\n", nil)
	if got.Port != "123" {
		t.Fatalf("port = %q", got.Port)
	}
}

func TestUnquotedPlaceholder(t *testing.T) {
	type cfg struct {
		Host string `json:"host"`
		Port uint16 `json:"port"`
	}
	doc := "host: ${HOST}\nport: ${PORT}\n"
	got := decode[cfg](t, doc, map[string]string{"HOST": "db", "PORT": "6379"})
	if got.Host != "db" || got.Port != 6379 {
		t.Fatalf("got %+v", got)
	}
}

func TestAnchorsAndAliases(t *testing.T) {
	type cfg struct {
		A string `json:"a"`
		B string `json:"b"`
	}
	doc := "a: &ref ${NAME}\nb: *ref\n"
	got := decode[cfg](t, doc, map[string]string{"NAME": "shared"})
	if got.A != "shared" || got.B != "shared" {
		t.Fatalf("got %+v", got)
	}
}

func TestBinaryScalar(t *testing.T) {
	type cfg struct {
		Blob []byte `json:"blob"`
	}
	got := decode[cfg](t, "blob: !!binary aGVsbG8=\n", nil)
	if string(got.Blob) != "hello" {
		t.Fatalf("blob = %q", got.Blob)
	}
}

func TestTypedScalars(t *testing.T) {
	type cfg struct {
		N int32   `json:"n"`
		F float64 `json:"f"`
		B bool    `json:"b"`
	}
	got := decode[cfg](t, "n: -42\nf: 2.5\nb: true\n", nil)
	if got.N != -42 || got.F != 2.5 || !got.B {
		t.Fatalf("got %+v", got)
	}
}

func TestNullAndOption(t *testing.T) {
	type cfg struct {
		P *int `json:"p"`
		Q *int `json:"q"`
	}
	got := decode[cfg](t, "p: ~\nq: 7\n", nil)
	if got.P != nil {
		t.Fatalf("p = %v", *got.P)
	}
	if got.Q == nil || *got.Q != 7 {
		t.Fatalf("q = %v", got.Q)
	}
}

func TestAnyInfersFromTags(t *testing.T) {
	doc := "i: 3\nneg: -3\nf: 1.5\ns: text\nb: false\nn: null\n"
	got := decode[map[string]any](t, doc, nil)
	if got["i"] != uint64(3) || got["neg"] != int64(-3) || got["f"] != 1.5 {
		t.Fatalf("numbers: %#v", got)
	}
	if got["s"] != "text" || got["b"] != false || got["n"] != nil {
		t.Fatalf("scalars: %#v", got)
	}
}

func TestMapKeyNotExpanded(t *testing.T) {
	got := decode[map[string]int](t, "${KEY}: 1\n", map[string]string{"KEY": "x"})
	if got["${KEY}"] != 1 {
		t.Fatalf("got %v", got)
	}
}
