package devars_test

import (
	"testing"

	devars "github.com/reoring/devars"
	dj "github.com/reoring/devars/decoder/json"
	"github.com/reoring/devars/source"
)

// backendChoice decodes an externally tagged enum: either a bare string for
// a unit variant, or {"Variant": {...payload...}}.
type backendChoice struct {
	tag  string
	port uint16
}

type backendVisitor struct {
	devars.BaseVisitor
	out *backendChoice
}

func (v *backendVisitor) VisitEnum(e devars.EnumAccess) error {
	tag := nameCollector{BaseVisitor: devars.BaseVisitor{Want: "a variant name"}}
	if err := e.Variant(func(d devars.Decoder) error {
		return d.DecodeIdentifier(&tag)
	}); err != nil {
		return err
	}
	v.out.tag = tag.name
	if v.out.tag == "Disabled" || v.out.tag == "${NOT_A_VAR}" {
		return e.Unit()
	}
	return e.Struct([]string{"port"}, func(d devars.Decoder) error {
		return d.DecodeStruct("Backend", []string{"port"}, &backendPayload{
			BaseVisitor: devars.BaseVisitor{Want: "a backend payload"},
			out:         v.out,
		})
	})
}

type backendPayload struct {
	devars.BaseVisitor
	out *backendChoice
}

func (p *backendPayload) VisitMap(m devars.MapAccess) error {
	for {
		key := nameCollector{BaseVisitor: devars.BaseVisitor{Want: "a field name"}}
		more, err := m.NextKey(func(d devars.Decoder) error {
			return d.DecodeIdentifier(&key)
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		switch key.name {
		case "port":
			err = m.NextValue(func(d devars.Decoder) error {
				return d.DecodeUint16(&portCollector{
					BaseVisitor: devars.BaseVisitor{Want: "a port number"},
					out:         &p.out.port,
				})
			})
		default:
			err = m.NextValue(func(d devars.Decoder) error {
				return d.DecodeIgnored(nopVisitor{devars.BaseVisitor{Want: "ignored"}})
			})
		}
		if err != nil {
			return err
		}
	}
}

type nameCollector struct {
	devars.BaseVisitor
	name string
}

func (c *nameCollector) VisitString(v string) error { c.name = v; return nil }

type portCollector struct {
	devars.BaseVisitor
	out *uint16
}

func (c *portCollector) VisitUint(v uint64) error { *c.out = uint16(v); return nil }
func (c *portCollector) VisitInt(v int64) error   { *c.out = uint16(v); return nil }

type nopVisitor struct{ devars.BaseVisitor }

func (nopVisitor) VisitNull() error { return nil }

func decodeBackend(t *testing.T, doc string, vars map[string]string) backendChoice {
	t.Helper()
	var out backendChoice
	d := devars.NewDecoder(dj.NewBytes([]byte(doc)), source.Map(vars))
	vis := &backendVisitor{BaseVisitor: devars.BaseVisitor{Want: "a backend choice"}, out: &out}
	if err := d.DecodeEnum("Backend", []string{"Disabled", "Redis"}, vis); err != nil {
		t.Fatalf("decode enum: %v", err)
	}
	return out
}

func TestEnum_PayloadSubstituted(t *testing.T) {
	got := decodeBackend(t, `{"Redis":{"port":"${REDIS_PORT}"}}`, map[string]string{"REDIS_PORT": "6379"})
	if got.tag != "Redis" || got.port != 6379 {
		t.Fatalf("got %+v", got)
	}
}

func TestEnum_UnitVariant(t *testing.T) {
	got := decodeBackend(t, `"Disabled"`, nil)
	if got.tag != "Disabled" {
		t.Fatalf("got %+v", got)
	}
}

// A placeholder-shaped discriminant is structural and must never be expanded,
// even when the variable exists.
func TestEnum_PlaceholderShapedTagUntouched(t *testing.T) {
	got := decodeBackend(t, `"${NOT_A_VAR}"`, map[string]string{"NOT_A_VAR": "Redis"})
	if got.tag != "${NOT_A_VAR}" {
		t.Fatalf("tag = %q, want the literal placeholder", got.tag)
	}
}
