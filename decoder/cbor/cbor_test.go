package cbor_test

import (
	"testing"

	"github.com/fxamacker/cbor/v2"

	devars "github.com/reoring/devars"
	dc "github.com/reoring/devars/decoder/cbor"
	"github.com/reoring/devars/source"
)

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := cbor.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestDecodeWithSubstitution(t *testing.T) {
	type cfg struct {
		Host string `json:"host"`
		Port uint16 `json:"port"`
		Blob []byte `json:"blob"`
	}
	doc := marshal(t, map[string]any{
		"host": "${HOST}",
		"port": "${PORT}",
		"blob": []byte{1, 2, 3},
	})
	d, err := dc.NewBytes(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := devars.As[cfg](d, source.Map(map[string]string{"HOST": "db", "PORT": "6379"}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Host != "db" || got.Port != 6379 || len(got.Blob) != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestNativeIntegers(t *testing.T) {
	doc := marshal(t, map[string]any{"pos": uint64(300), "neg": int64(-300)})
	d, err := dc.NewBytes(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	type cfg struct {
		Pos uint16 `json:"pos"`
		Neg int16  `json:"neg"`
	}
	got, err := devars.As[cfg](d, source.Map(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Pos != 300 || got.Neg != -300 {
		t.Fatalf("got %+v", got)
	}
}

func TestMalformed(t *testing.T) {
	if _, err := dc.NewBytes([]byte{0xff, 0x00}); err == nil {
		t.Fatalf("expected a parse error")
	} else if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}
