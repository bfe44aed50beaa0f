package devars

// Package devars expands variable placeholders while decoding structured
// documents. It sits between a format decoder (JSON, YAML, CBOR, TOML) and
// the application's typed decode requests: string leaves such as
// "${REDIS_PORT}" are resolved through a Source into a value of the type the
// application asked for, and every other shape passes through untouched.
//
// The package provides:
//
// - A format-neutral decode protocol (Decoder/Visitor) implemented by the
//   drivers under decoder/.
// - The expansion proxy via NewDecoder, a shape-preserving Decoder wrapper.
// - A reflection binder (Decode, As) that turns Go values into typed decode
//   requests.
// - A stable single-issue error model (Issue with code, path, offset).
//
// Design policy:
// - Keep only public APIs in the root package; put token machinery under
//   internal/.
// - Place format drivers under decoder/, resolution backends under source/,
//   and the CLI under cmd/devars.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	var cfg Config
//	err := devars.Decode(json.NewBytes(data), source.Env(), &cfg)
//
//	cfg, err := devars.As[Config](json.NewBytes(data), source.Env())
//
// Map keys and enum discriminants are never substituted, and a resolved
// value is never re-scanned for further placeholders.
