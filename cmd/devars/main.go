package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"

	devars "github.com/reoring/devars"
	cbordec "github.com/reoring/devars/decoder/cbor"
	jsondec "github.com/reoring/devars/decoder/json"
	tomldec "github.com/reoring/devars/decoder/toml"
	yamldec "github.com/reoring/devars/decoder/yaml"
	"github.com/reoring/devars/source"
)

func main() {
	fs := flag.NewFlagSet("devars", flag.ExitOnError)
	format := fs.StringP("format", "f", "", "input format: json, jsonc, yaml, toml or cbor (default: by file extension)")
	vars := fs.StringArray("var", nil, "NAME=VALUE override, repeatable; wins over the environment")
	filesBase := fs.String("files", "", "resolve variables as files under this base path instead of the environment")
	prefix := fs.String("prefix", "${", "placeholder prefix")
	suffix := fs.String("suffix", "}", "placeholder suffix")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "devars expands ${VARIABLE} placeholders in a config document and prints the result as JSON.\n\nUsage:\n  devars [flags] config.(json|jsonc|yaml|toml|cbor)\n\nFlags:")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading %s: %v", path, err)
	}

	f := *format
	if f == "" {
		f = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	dec, err := newDecoder(f, data)
	if err != nil {
		fatalf("%v", err)
	}

	src := newSource(*vars, *filesBase, *prefix, *suffix)

	var out any
	if err := devars.Decode(dec, src, &out); err != nil {
		fatalf("%v", err)
	}

	enc := j.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatalf("encoding result: %v", err)
	}
}

func newDecoder(format string, data []byte) (devars.Decoder, error) {
	switch format {
	case "json":
		return jsondec.NewBytes(data), nil
	case "jsonc":
		return jsondec.NewJSONC(data), nil
	case "yaml", "yml":
		return yamldec.NewBytes(data)
	case "toml":
		return tomldec.NewBytes(data)
	case "cbor":
		return cbordec.NewBytes(data)
	}
	return nil, fmt.Errorf("unknown format %q (use --format)", format)
}

// newSource builds the variable backend: a FileSource when --files is given,
// otherwise the environment with --var overrides layered on top.
func newSource(vars []string, filesBase, prefix, suffix string) devars.Source {
	if filesBase != "" {
		return source.File().WithBasePath(filesBase).WithPrefix(prefix).WithSuffix(suffix)
	}
	overrides := make(map[string]string, len(vars))
	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			fatalf("malformed --var %q (want NAME=VALUE)", kv)
		}
		overrides[name] = value
	}
	lookup := source.LookupFunc(func(name string) (string, bool) {
		if v, ok := overrides[name]; ok {
			return v, true
		}
		return os.LookupEnv(name)
	})
	return source.New(lookup).WithPrefix(prefix).WithSuffix(suffix)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
