package token_test

import (
	"io"
	"testing"

	"github.com/reoring/devars/internal/token"
)

func kinds(t *testing.T, doc string) []token.Kind {
	t.Helper()
	src := token.JSONBytes([]byte(doc))
	var out []token.Kind
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, tok.Kind)
	}
}

func TestKeyValueDisambiguation(t *testing.T) {
	got := kinds(t, `{"a":"x","b":{"c":[1,"y"]},"d":null}`)
	want := []token.Kind{
		token.BeginObject,
		token.Key, token.String,
		token.Key, token.BeginObject,
		token.Key, token.BeginArray, token.Number, token.String, token.EndArray,
		token.EndObject,
		token.Key, token.Null,
		token.EndObject,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNumbersStayTextual(t *testing.T) {
	src := token.JSONBytes([]byte(`[18446744073709551615, -0.5]`))
	if tok, _ := src.NextToken(); tok.Kind != token.BeginArray {
		t.Fatalf("expected array start, got %v", tok.Kind)
	}
	tok, err := src.NextToken()
	if err != nil || tok.Kind != token.Number || tok.Number != "18446744073709551615" {
		t.Fatalf("got %+v, err %v", tok, err)
	}
	tok, err = src.NextToken()
	if err != nil || tok.Kind != token.Number || tok.Number != "-0.5" {
		t.Fatalf("got %+v, err %v", tok, err)
	}
}
