package toml_test

import (
	"testing"

	devars "github.com/reoring/devars"
	dt "github.com/reoring/devars/decoder/toml"
	"github.com/reoring/devars/source"
)

func TestDecodeWithSubstitution(t *testing.T) {
	doc := []byte(`
title = "${TITLE}"

[server]
host = "${HOST}"
port = "${PORT}"
debug = true

[[server.replicas]]
host = "r1"
`)
	type replica struct {
		Host string `json:"host"`
	}
	type server struct {
		Host     string    `json:"host"`
		Port     uint16    `json:"port"`
		Debug    bool      `json:"debug"`
		Replicas []replica `json:"replicas"`
	}
	type cfg struct {
		Title  string `json:"title"`
		Server server `json:"server"`
	}
	d, err := dt.NewBytes(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	src := source.Map(map[string]string{"TITLE": "demo", "HOST": "db", "PORT": "6379"})
	got, err := devars.As[cfg](d, src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "demo" || got.Server.Host != "db" || got.Server.Port != 6379 || !got.Server.Debug {
		t.Fatalf("got %+v", got)
	}
	if len(got.Server.Replicas) != 1 || got.Server.Replicas[0].Host != "r1" {
		t.Fatalf("replicas = %+v", got.Server.Replicas)
	}
}

func TestNativeNumbers(t *testing.T) {
	d, err := dt.NewBytes([]byte("n = -42\nf = 2.5\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	type cfg struct {
		N int32   `json:"n"`
		F float64 `json:"f"`
	}
	got, err := devars.As[cfg](d, source.Map(nil))
	if err != nil || got.N != -42 || got.F != 2.5 {
		t.Fatalf("got %+v, err %v", got, err)
	}
}

func TestMalformed(t *testing.T) {
	if _, err := dt.NewBytes([]byte("= broken")); err == nil {
		t.Fatalf("expected a parse error")
	} else if it, ok := devars.AsIssue(err); !ok || it.Code != devars.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}
