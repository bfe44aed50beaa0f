// Package token defines the streaming token model shared by the text format
// drivers. A Source yields one token per structural event in document order;
// drivers layer decode requests on top of it.
package token

// Kind represents token kinds from a generic source.
type Kind int

const (
	BeginObject Kind = iota
	EndObject
	BeginArray
	EndArray
	Key
	String
	Number
	Bool
	Null
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// Source is the minimal interface a tokenizer must provide.
type Source interface {
	NextToken() (Token, error)
	// Location returns the current byte offset, -1 when unknown.
	Location() int64
}
