package devars

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindValue issues the decode request matching rv's type and stores the
// result. path is a JSON-Pointer-ish location threaded into Issues for
// diagnostics.
func bindValue(d Decoder, rv reflect.Value, path string) error {
	switch rv.Kind() {
	case reflect.Bool:
		return at(d.DecodeBool(&boolBind{BaseVisitor: expects("a boolean"), rv: rv}), path)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return at(decodeIntWidth(d, rv), path)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return at(decodeUintWidth(d, rv), path)
	case reflect.Float32:
		return at(d.DecodeFloat32(&floatBind{BaseVisitor: expects("a floating point"), rv: rv}), path)
	case reflect.Float64:
		return at(d.DecodeFloat64(&floatBind{BaseVisitor: expects("a floating point"), rv: rv}), path)
	case reflect.String:
		return at(d.DecodeString(&stringBind{BaseVisitor: expects("a string"), rv: rv}), path)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return at(d.DecodeBytes(&bytesBind{BaseVisitor: expects("a byte array"), rv: rv}), path)
		}
		return at(d.DecodeSeq(&seqBind{BaseVisitor: expects("a sequence"), rv: rv, path: path}), path)
	case reflect.Array:
		want := expects("a sequence of length " + strconv.Itoa(rv.Len()))
		return at(d.DecodeTuple(rv.Len(), &tupleBind{BaseVisitor: want, rv: rv, path: path}), path)
	case reflect.Map:
		return at(d.DecodeMap(&mapBind{BaseVisitor: expects("a map"), rv: rv, path: path}), path)
	case reflect.Pointer:
		return at(d.DecodeOption(&optionBind{BaseVisitor: expects("an optional value"), rv: rv, path: path}), path)
	case reflect.Struct:
		rt := rv.Type()
		idx := structFields(rt)
		names := make([]string, 0, len(idx))
		for name := range idx {
			names = append(names, name)
		}
		want := expects("a " + rt.Name() + " object")
		return at(d.DecodeStruct(rt.Name(), names, &structBind{BaseVisitor: want, rv: rv, fields: idx, path: path}), path)
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return Issue{Code: CodeParseError, Path: path, Message: "cannot decode into non-empty interface " + rv.Type().String(), Offset: -1}
		}
		return at(d.DecodeAny(&anyBind{BaseVisitor: expects("any value"), rv: rv, path: path}), path)
	default:
		return Issue{Code: CodeParseError, Path: path, Message: "unsupported decode target " + rv.Type().String(), Offset: -1}
	}
}

// at fills in the document location on Issues raised below this frame.
func at(err error, path string) error {
	if err == nil {
		return nil
	}
	if it, ok := err.(Issue); ok && it.Path == "" {
		it.Path = path
		if it.Path == "" {
			it.Path = "/"
		}
		return it
	}
	return err
}

func decodeIntWidth(d Decoder, rv reflect.Value) error {
	v := &intBind{BaseVisitor: expects("an integer"), rv: rv}
	switch rv.Type().Bits() {
	case 8:
		return d.DecodeInt8(v)
	case 16:
		return d.DecodeInt16(v)
	case 32:
		return d.DecodeInt32(v)
	default:
		return d.DecodeInt64(v)
	}
}

func decodeUintWidth(d Decoder, rv reflect.Value) error {
	v := &uintBind{BaseVisitor: expects("an unsigned integer"), rv: rv}
	switch rv.Type().Bits() {
	case 8:
		return d.DecodeUint8(v)
	case 16:
		return d.DecodeUint16(v)
	case 32:
		return d.DecodeUint32(v)
	default:
		return d.DecodeUint64(v)
	}
}

// structFields resolves document keys for the exported fields of rt,
// honoring `json` tags with the field name as fallback.
func structFields(rt reflect.Type) map[string]int {
	out := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := structKey(sf)
		if name == "-" || name == "" {
			continue
		}
		out[name] = i
	}
	return out
}

func structKey(sf reflect.StructField) string {
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

func overflow(path, detail string) Issue {
	return Issue{Code: CodeOverflow, Path: path, Message: detail, Offset: -1}
}

type boolBind struct {
	BaseVisitor
	rv reflect.Value
}

func (b *boolBind) VisitBool(v bool) error { b.rv.SetBool(v); return nil }

type intBind struct {
	BaseVisitor
	rv reflect.Value
}

func (b *intBind) VisitInt(v int64) error {
	if b.rv.OverflowInt(v) {
		return overflow("", fmt.Sprintf("value %d overflows %s", v, b.rv.Type()))
	}
	b.rv.SetInt(v)
	return nil
}

func (b *intBind) VisitUint(v uint64) error {
	if v > uint64(1)<<63-1 {
		return overflow("", fmt.Sprintf("value %d overflows %s", v, b.rv.Type()))
	}
	return b.VisitInt(int64(v))
}

type uintBind struct {
	BaseVisitor
	rv reflect.Value
}

func (b *uintBind) VisitUint(v uint64) error {
	if b.rv.OverflowUint(v) {
		return overflow("", fmt.Sprintf("value %d overflows %s", v, b.rv.Type()))
	}
	b.rv.SetUint(v)
	return nil
}

func (b *uintBind) VisitInt(v int64) error {
	if v < 0 {
		return overflow("", fmt.Sprintf("value %d overflows %s", v, b.rv.Type()))
	}
	return b.VisitUint(uint64(v))
}

type floatBind struct {
	BaseVisitor
	rv reflect.Value
}

func (b *floatBind) VisitFloat(v float64) error {
	if b.rv.OverflowFloat(v) {
		return overflow("", fmt.Sprintf("value %g overflows %s", v, b.rv.Type()))
	}
	b.rv.SetFloat(v)
	return nil
}

func (b *floatBind) VisitInt(v int64) error  { return b.VisitFloat(float64(v)) }
func (b *floatBind) VisitUint(v uint64) error { return b.VisitFloat(float64(v)) }

type stringBind struct {
	BaseVisitor
	rv reflect.Value
}

func (b *stringBind) VisitString(v string) error { b.rv.SetString(v); return nil }

type bytesBind struct {
	BaseVisitor
	rv reflect.Value
}

func (b *bytesBind) VisitBytes(v []byte) error  { b.rv.SetBytes(v); return nil }
func (b *bytesBind) VisitString(v string) error { b.rv.SetBytes([]byte(v)); return nil }

type seqBind struct {
	BaseVisitor
	rv   reflect.Value
	path string
}

func (b *seqBind) VisitSeq(seq SeqAccess) error {
	et := b.rv.Type().Elem()
	n := seq.Size()
	if n < 0 {
		n = 0
	}
	out := reflect.MakeSlice(b.rv.Type(), 0, n)
	for i := 0; ; i++ {
		elem := reflect.New(et).Elem()
		idx := i
		more, err := seq.NextElement(func(d Decoder) error {
			return bindValue(d, elem, b.path+"/"+strconv.Itoa(idx))
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		out = reflect.Append(out, elem)
	}
	b.rv.Set(out)
	return nil
}

type tupleBind struct {
	BaseVisitor
	rv   reflect.Value
	path string
}

func (b *tupleBind) VisitSeq(seq SeqAccess) error {
	n := b.rv.Len()
	for i := 0; i < n; i++ {
		idx := i
		more, err := seq.NextElement(func(d Decoder) error {
			return bindValue(d, b.rv.Index(idx), b.path+"/"+strconv.Itoa(idx))
		})
		if err != nil {
			return err
		}
		if !more {
			return Issue{Code: CodeInvalidValue, Path: b.path, Message: fmt.Sprintf("sequence too short, expected %d elements", n), Offset: -1}
		}
	}
	more, err := seq.NextElement(func(d Decoder) error {
		return d.DecodeIgnored(&ignoreBind{expects("any ignored value")})
	})
	if err != nil {
		return err
	}
	if more {
		return Issue{Code: CodeInvalidValue, Path: b.path, Message: fmt.Sprintf("sequence too long, expected %d elements", n), Offset: -1}
	}
	return nil
}

type mapBind struct {
	BaseVisitor
	rv   reflect.Value
	path string
}

func (b *mapBind) VisitMap(m MapAccess) error {
	mt := b.rv.Type()
	out := reflect.MakeMap(mt)
	for {
		key := reflect.New(mt.Key()).Elem()
		more, err := m.NextKey(func(d Decoder) error {
			return bindValue(d, key, b.path)
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		val := reflect.New(mt.Elem()).Elem()
		vp := b.path + "/" + fmt.Sprint(key.Interface())
		if err := m.NextValue(func(d Decoder) error {
			return bindValue(d, val, vp)
		}); err != nil {
			return err
		}
		out.SetMapIndex(key, val)
	}
	b.rv.Set(out)
	return nil
}

type optionBind struct {
	BaseVisitor
	rv   reflect.Value
	path string
}

func (b *optionBind) VisitNull() error {
	b.rv.Set(reflect.Zero(b.rv.Type()))
	return nil
}

func (b *optionBind) VisitSome(d Decoder) error {
	pv := reflect.New(b.rv.Type().Elem())
	if err := bindValue(d, pv.Elem(), b.path); err != nil {
		return err
	}
	b.rv.Set(pv)
	return nil
}

type structBind struct {
	BaseVisitor
	rv     reflect.Value
	fields map[string]int
	path   string
}

func (b *structBind) VisitMap(m MapAccess) error {
	for {
		key := identBind{BaseVisitor: expects("a field name")}
		more, err := m.NextKey(func(d Decoder) error {
			return d.DecodeIdentifier(&key)
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		idx, known := b.fields[key.name]
		if !known {
			if err := m.NextValue(func(d Decoder) error {
				return d.DecodeIgnored(&ignoreBind{expects("any ignored value")})
			}); err != nil {
				return err
			}
			continue
		}
		fv := b.rv.Field(idx)
		fp := b.path + "/" + key.name
		if err := m.NextValue(func(d Decoder) error {
			return bindValue(d, fv, fp)
		}); err != nil {
			return err
		}
	}
}

type identBind struct {
	BaseVisitor
	name string
}

func (b *identBind) VisitString(v string) error { b.name = v; return nil }

type ignoreBind struct{ BaseVisitor }

func (ignoreBind) VisitNull() error { return nil }

// anyBind builds the natural Go value for a self-described shape:
// map[string]any, []any, bool, int64/uint64/float64, string, []byte or nil.
type anyBind struct {
	BaseVisitor
	rv   reflect.Value
	path string
}

func (b *anyBind) set(v any) error {
	if v == nil {
		b.rv.Set(reflect.Zero(b.rv.Type()))
		return nil
	}
	b.rv.Set(reflect.ValueOf(v))
	return nil
}

func (b *anyBind) VisitBool(v bool) error     { return b.set(v) }
func (b *anyBind) VisitInt(v int64) error     { return b.set(v) }
func (b *anyBind) VisitUint(v uint64) error   { return b.set(v) }
func (b *anyBind) VisitFloat(v float64) error { return b.set(v) }
func (b *anyBind) VisitString(v string) error { return b.set(v) }
func (b *anyBind) VisitBytes(v []byte) error  { return b.set(v) }
func (b *anyBind) VisitNull() error           { return b.set(nil) }

func (b *anyBind) VisitSome(d Decoder) error {
	return d.DecodeAny(b)
}

func (b *anyBind) VisitNewtype(d Decoder) error {
	return d.DecodeAny(b)
}

func (b *anyBind) VisitSeq(seq SeqAccess) error {
	out := []any{}
	for i := 0; ; i++ {
		var el any
		elem := reflect.ValueOf(&el).Elem()
		idx := i
		more, err := seq.NextElement(func(d Decoder) error {
			return bindValue(d, elem, b.path+"/"+strconv.Itoa(idx))
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		out = append(out, el)
	}
	return b.set(out)
}

func (b *anyBind) VisitMap(m MapAccess) error {
	out := map[string]any{}
	for {
		key := identBind{BaseVisitor: expects("a string key")}
		more, err := m.NextKey(func(d Decoder) error {
			return d.DecodeString(&key)
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		var el any
		elem := reflect.ValueOf(&el).Elem()
		vp := b.path + "/" + key.name
		if err := m.NextValue(func(d Decoder) error {
			return bindValue(d, elem, vp)
		}); err != nil {
			return err
		}
		out[key.name] = el
	}
	return b.set(out)
}
