// Package yaml provides a devars.Decoder over a YAML document, parsed into a
// yaml.v3 node tree. Anchors and aliases are followed transparently;
// DecodeString yields the literal text of any scalar regardless of its
// resolved tag, so `port: 123` can still bind as the string "123".
package yaml

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	devars "github.com/reoring/devars"
)

const (
	tagNull   = "!!null"
	tagBool   = "!!bool"
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagStr    = "!!str"
	tagBinary = "!!binary"
)

// Decoder walks one YAML node tree.
type Decoder struct {
	node *yaml.Node
}

var _ devars.Decoder = (*Decoder)(nil)

// NewBytes parses b and builds a Decoder over the first document.
func NewBytes(b []byte) (*Decoder, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, parseError(err)
	}
	return &Decoder{node: &doc}, nil
}

// NewReader parses one document from r and builds a Decoder over it.
func NewReader(r io.Reader) (*Decoder, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, parseError(err)
	}
	return &Decoder{node: &doc}, nil
}

func parseError(err error) error {
	return devars.Issue{
		Code:    devars.CodeParseError,
		Message: err.Error(),
		Cause:   err,
		Offset:  -1,
	}
}

// resolved follows document wrappers and alias nodes down to content.
func (d *Decoder) resolved() *yaml.Node {
	n := d.node
	for {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
}

func isNull(n *yaml.Node) bool {
	if n.Kind == 0 {
		return true
	}
	return n.Kind == yaml.ScalarNode && n.Tag == tagNull
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "map"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		switch n.Tag {
		case tagNull:
			return "null"
		case tagBool:
			return fmt.Sprintf("boolean `%s`", n.Value)
		case tagInt:
			return fmt.Sprintf("integer `%s`", n.Value)
		case tagFloat:
			return fmt.Sprintf("floating point `%s`", n.Value)
		case tagBinary:
			return "bytes"
		}
		return devars.StringValue(n.Value).Describe()
	}
	return "empty document"
}

func (d *Decoder) mismatch(n *yaml.Node, v devars.Visitor) error {
	msg := fmt.Sprintf("invalid type: %s, expected %s", describe(n), v.Expecting())
	if n.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, n.Line)
	}
	return devars.Issue{Code: devars.CodeInvalidType, Message: msg, Offset: -1}
}

func (d *Decoder) overflow(n *yaml.Node, want string) error {
	return devars.Issue{
		Code:    devars.CodeOverflow,
		Message: fmt.Sprintf("number `%s` does not fit %s (line %d)", n.Value, want, n.Line),
		Offset:  -1,
	}
}

// parseSpecialFloat handles the YAML spellings strconv rejects.
func parseSpecialFloat(text string) (float64, bool) {
	switch strings.ToLower(text) {
	case ".inf", "+.inf":
		return math.Inf(1), true
	case "-.inf":
		return math.Inf(-1), true
	case ".nan":
		return math.NaN(), true
	}
	return 0, false
}

func (d *Decoder) DecodeAny(v devars.Visitor) error {
	n := d.resolved()
	switch n.Kind {
	case yaml.MappingNode:
		return v.VisitMap(&mapAccess{pairs: n.Content})
	case yaml.SequenceNode:
		return v.VisitSeq(&seqAccess{elems: n.Content})
	case yaml.ScalarNode:
		switch n.Tag {
		case tagNull:
			return v.VisitNull()
		case tagBool:
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return v.VisitString(n.Value)
			}
			return v.VisitBool(b)
		case tagInt:
			if n.Value != "" && n.Value[0] == '-' {
				if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
					return v.VisitInt(i)
				}
			} else if u, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
				return v.VisitUint(u)
			}
			return v.VisitString(n.Value)
		case tagFloat:
			if f, ok := parseSpecialFloat(n.Value); ok {
				return v.VisitFloat(f)
			}
			if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return v.VisitFloat(f)
			}
			return v.VisitString(n.Value)
		case tagBinary:
			raw, err := base64.StdEncoding.DecodeString(n.Value)
			if err != nil {
				return parseError(err)
			}
			return v.VisitBytes(raw)
		}
		return v.VisitString(n.Value)
	}
	if isNull(n) {
		return v.VisitNull()
	}
	return d.mismatch(n, v)
}

func (d *Decoder) DecodeBool(v devars.Visitor) error {
	n := d.resolved()
	if n.Kind != yaml.ScalarNode || n.Tag != tagBool {
		return d.mismatch(n, v)
	}
	b, err := strconv.ParseBool(n.Value)
	if err != nil {
		return d.mismatch(n, v)
	}
	return v.VisitBool(b)
}

func (d *Decoder) integer(v devars.Visitor, bits int) error {
	n := d.resolved()
	if n.Kind != yaml.ScalarNode || n.Tag != tagInt {
		return d.mismatch(n, v)
	}
	i, err := strconv.ParseInt(n.Value, 0, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return d.overflow(n, fmt.Sprintf("int%d", bits))
		}
		return d.mismatch(n, v)
	}
	return v.VisitInt(i)
}

func (d *Decoder) unsigned(v devars.Visitor, bits int) error {
	n := d.resolved()
	if n.Kind != yaml.ScalarNode || n.Tag != tagInt {
		return d.mismatch(n, v)
	}
	u, err := strconv.ParseUint(n.Value, 0, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return d.overflow(n, fmt.Sprintf("uint%d", bits))
		}
		return d.mismatch(n, v)
	}
	return v.VisitUint(u)
}

func (d *Decoder) float(v devars.Visitor, bits int) error {
	n := d.resolved()
	if n.Kind != yaml.ScalarNode || (n.Tag != tagFloat && n.Tag != tagInt) {
		return d.mismatch(n, v)
	}
	if f, ok := parseSpecialFloat(n.Value); ok {
		return v.VisitFloat(f)
	}
	f, err := strconv.ParseFloat(n.Value, bits)
	if err != nil {
		return d.mismatch(n, v)
	}
	return v.VisitFloat(f)
}

func (d *Decoder) DecodeInt8(v devars.Visitor) error  { return d.integer(v, 8) }
func (d *Decoder) DecodeInt16(v devars.Visitor) error { return d.integer(v, 16) }
func (d *Decoder) DecodeInt32(v devars.Visitor) error { return d.integer(v, 32) }
func (d *Decoder) DecodeInt64(v devars.Visitor) error { return d.integer(v, 64) }

func (d *Decoder) DecodeUint8(v devars.Visitor) error  { return d.unsigned(v, 8) }
func (d *Decoder) DecodeUint16(v devars.Visitor) error { return d.unsigned(v, 16) }
func (d *Decoder) DecodeUint32(v devars.Visitor) error { return d.unsigned(v, 32) }
func (d *Decoder) DecodeUint64(v devars.Visitor) error { return d.unsigned(v, 64) }

func (d *Decoder) DecodeFloat32(v devars.Visitor) error { return d.float(v, 32) }
func (d *Decoder) DecodeFloat64(v devars.Visitor) error { return d.float(v, 64) }

// DecodeString yields the literal text of any scalar, honoring the request
// for text over the scalar's resolved type.
func (d *Decoder) DecodeString(v devars.Visitor) error {
	n := d.resolved()
	if n.Kind != yaml.ScalarNode || n.Tag == tagNull {
		return d.mismatch(n, v)
	}
	if n.Tag == tagBinary {
		raw, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return parseError(err)
		}
		return v.VisitBytes(raw)
	}
	return v.VisitString(n.Value)
}

func (d *Decoder) DecodeBytes(v devars.Visitor) error {
	n := d.resolved()
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == tagBinary {
			raw, err := base64.StdEncoding.DecodeString(n.Value)
			if err != nil {
				return parseError(err)
			}
			return v.VisitBytes(raw)
		}
		if n.Tag != tagNull {
			return v.VisitString(n.Value)
		}
	case yaml.SequenceNode:
		return v.VisitSeq(&seqAccess{elems: n.Content})
	}
	return d.mismatch(n, v)
}

func (d *Decoder) DecodeOption(v devars.Visitor) error {
	if isNull(d.resolved()) {
		return v.VisitNull()
	}
	return v.VisitSome(d)
}

func (d *Decoder) DecodeUnit(v devars.Visitor) error {
	n := d.resolved()
	if !isNull(n) {
		return d.mismatch(n, v)
	}
	return v.VisitNull()
}

func (d *Decoder) DecodeNewtype(name string, v devars.Visitor) error {
	return v.VisitNewtype(d)
}

func (d *Decoder) DecodeSeq(v devars.Visitor) error {
	n := d.resolved()
	if n.Kind != yaml.SequenceNode {
		return d.mismatch(n, v)
	}
	return v.VisitSeq(&seqAccess{elems: n.Content})
}

func (d *Decoder) DecodeTuple(n int, v devars.Visitor) error {
	return d.DecodeSeq(v)
}

func (d *Decoder) DecodeMap(v devars.Visitor) error {
	n := d.resolved()
	if n.Kind != yaml.MappingNode {
		return d.mismatch(n, v)
	}
	return v.VisitMap(&mapAccess{pairs: n.Content})
}

func (d *Decoder) DecodeStruct(name string, fields []string, v devars.Visitor) error {
	return d.DecodeMap(v)
}

func (d *Decoder) DecodeEnum(name string, variants []string, v devars.Visitor) error {
	n := d.resolved()
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == tagNull {
			return d.mismatch(n, v)
		}
		return v.VisitEnum(&enumAccess{variant: n})
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return devars.Issue{
				Code:    devars.CodeInvalidValue,
				Message: fmt.Sprintf("expected a single-key mapping for an enum with payload (line %d)", n.Line),
				Offset:  -1,
			}
		}
		return v.VisitEnum(&enumAccess{variant: n.Content[0], payload: n.Content[1]})
	}
	return d.mismatch(n, v)
}

func (d *Decoder) DecodeIdentifier(v devars.Visitor) error {
	n := d.resolved()
	if n.Kind != yaml.ScalarNode {
		return d.mismatch(n, v)
	}
	return v.VisitString(n.Value)
}

func (d *Decoder) DecodeIgnored(v devars.Visitor) error {
	return v.VisitNull()
}

type seqAccess struct {
	elems []*yaml.Node
	next  int
}

func (a *seqAccess) NextElement(fn devars.DecodeFunc) (bool, error) {
	if a.next >= len(a.elems) {
		return false, nil
	}
	elem := a.elems[a.next]
	a.next++
	if err := fn(&Decoder{node: elem}); err != nil {
		return false, err
	}
	return true, nil
}

func (a *seqAccess) Size() int { return len(a.elems) - a.next }

// mapAccess walks the flattened key/value pair list of a mapping node.
type mapAccess struct {
	pairs []*yaml.Node
	next  int
}

func (a *mapAccess) NextKey(fn devars.DecodeFunc) (bool, error) {
	if a.next >= len(a.pairs) {
		return false, nil
	}
	if err := fn(&Decoder{node: a.pairs[a.next]}); err != nil {
		return false, err
	}
	return true, nil
}

func (a *mapAccess) NextValue(fn devars.DecodeFunc) error {
	val := a.pairs[a.next+1]
	a.next += 2
	return fn(&Decoder{node: val})
}

type enumAccess struct {
	variant *yaml.Node
	payload *yaml.Node
}

func (a *enumAccess) Variant(fn devars.DecodeFunc) error {
	return fn(&Decoder{node: a.variant})
}

func (a *enumAccess) Unit() error {
	if a.payload != nil && !isNull((&Decoder{node: a.payload}).resolved()) {
		return devars.Issue{
			Code:    devars.CodeInvalidType,
			Message: "invalid type: variant with payload, expected unit variant",
			Offset:  -1,
		}
	}
	return nil
}

func (a *enumAccess) payloadDecoder(want string) (*Decoder, error) {
	if a.payload == nil {
		return nil, devars.Issue{
			Code:    devars.CodeInvalidType,
			Message: "invalid type: unit variant, expected " + want,
			Offset:  -1,
		}
	}
	return &Decoder{node: a.payload}, nil
}

func (a *enumAccess) Newtype(fn devars.DecodeFunc) error {
	d, err := a.payloadDecoder("newtype variant")
	if err != nil {
		return err
	}
	return fn(d)
}

func (a *enumAccess) Tuple(n int, fn devars.DecodeFunc) error {
	d, err := a.payloadDecoder("tuple variant")
	if err != nil {
		return err
	}
	return fn(d)
}

func (a *enumAccess) Struct(fields []string, fn devars.DecodeFunc) error {
	d, err := a.payloadDecoder("struct variant")
	if err != nil {
		return err
	}
	return fn(d)
}
