package value_test

import (
	"testing"

	devars "github.com/reoring/devars"
	dv "github.com/reoring/devars/decoder/value"
	"github.com/reoring/devars/source"
)

func TestReplayTree(t *testing.T) {
	type cfg struct {
		Name  string         `json:"name"`
		Port  uint16         `json:"port"`
		Tags  []string       `json:"tags"`
		Extra map[string]any `json:"extra"`
	}
	tree := map[string]any{
		"name": "svc",
		"port": uint64(8080),
		"tags": []any{"a", "${TAG}"},
		"extra": map[string]any{
			"debug": true,
		},
	}
	got, err := devars.As[cfg](dv.New(tree), source.Map(map[string]string{"TAG": "b"}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "svc" || got.Port != 8080 {
		t.Fatalf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "b" {
		t.Fatalf("tags = %v", got.Tags)
	}
	if got.Extra["debug"] != true {
		t.Fatalf("extra = %v", got.Extra)
	}
}

func TestWidthChecks(t *testing.T) {
	var n int8
	err := devars.Decode(dv.New(int64(300)), source.Map(nil), &n)
	if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}

	var u uint16
	err = devars.Decode(dv.New(int64(-1)), source.Map(nil), &u)
	if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeOverflow {
		t.Fatalf("expected overflow for negative, got %v", err)
	}
}

func TestMismatchShape(t *testing.T) {
	var s []string
	err := devars.Decode(dv.New("not a list"), source.Map(nil), &s)
	if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}

func TestNativeBytes(t *testing.T) {
	var out []byte
	in := []byte{9, 8, 7}
	if err := devars.Decode(dv.New(in), source.Map(nil), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if &out[0] != &in[0] {
		t.Fatalf("expected the original slice to pass through")
	}
}
