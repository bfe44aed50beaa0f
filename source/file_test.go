package source_test

import (
	"os"
	"path/filepath"
	"testing"

	devars "github.com/reoring/devars"
	"github.com/reoring/devars/source"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFileSource_TypedReads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "port", []byte("6379"))
	writeFile(t, dir, "enabled", []byte("true"))
	writeFile(t, dir, "host", []byte("db.internal"))

	src := source.File().WithBasePath(dir)

	if n, err := src.ExpandUint("${port}", 16); err != nil || n != 6379 {
		t.Fatalf("port: got %d, err %v", n, err)
	}
	if b, err := src.ExpandBool("${enabled}"); err != nil || !b {
		t.Fatalf("enabled: got %v, err %v", b, err)
	}
	if s, err := src.ExpandString("${host}"); err != nil || s != "db.internal" {
		t.Fatalf("host: got %q, err %v", s, err)
	}
}

func TestFileSource_AnyFallsBackToBytes(t *testing.T) {
	dir := t.TempDir()
	raw := []byte{0xff, 0x00, 0x01}
	writeFile(t, dir, "blob", raw)
	writeFile(t, dir, "count", []byte("42"))

	src := source.File().WithBasePath(dir)

	got, err := src.ExpandAny("${blob}")
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	if got.Kind != devars.KindBytes || len(got.Bytes) != 3 {
		t.Fatalf("blob: got %+v", got)
	}

	got, err = src.ExpandAny("${count}")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got.Kind != devars.KindUint || got.Uint != 42 {
		t.Fatalf("count: got %+v", got)
	}
}

func TestFileSource_ReadFailure(t *testing.T) {
	src := source.File().WithBasePath(t.TempDir())
	_, err := src.ExpandString("${absent}")
	it, ok := devars.AsIssue(err)
	if !ok || it.Code != devars.CodeReadFailure {
		t.Fatalf("expected read_failure, got %v", err)
	}
	if it.Cause == nil || !os.IsNotExist(it.Cause) {
		t.Fatalf("expected the os error as cause, got %v", it.Cause)
	}
}

func TestFileSource_Passthrough(t *testing.T) {
	src := source.File().WithBasePath(t.TempDir())
	if s, err := src.ExpandString("no placeholder"); err != nil || s != "no placeholder" {
		t.Fatalf("got %q, err %v", s, err)
	}
	in := []byte("raw")
	if b, err := src.ExpandBytes(in); err != nil || &b[0] != &in[0] {
		t.Fatalf("expected passthrough, err %v", err)
	}
}
