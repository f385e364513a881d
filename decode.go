package itf

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
)

// Unmarshaler is the capability a host type implements to decode itself
// from a Value. The decoder invokes it for every nested field before
// falling back to reflection, so user sum types and the container types
// in this package all plug into the same recursion.
type Unmarshaler interface {
	UnmarshalITF(v Value) error
}

// Decode walks a Value against the shape of target, which must be a
// non-nil pointer. It recurses through records, sequences, maps, sets,
// tuples and big integers; any failure at any depth aborts the whole
// decode with a DecodeError carrying the path to the failing node.
func Decode(v Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("itf: decode target must be a non-nil pointer, got %T", target)
	}
	return decodeValue(v, rv.Elem(), nil)
}

var bigIntType = reflect.TypeOf(big.Int{})

func decodeValue(v Value, dst reflect.Value, path Path) error {
	// Interface targets (Value itself, or any) take the raw tree.
	if dst.Kind() == reflect.Interface && reflect.TypeOf(v).Implements(dst.Type()) {
		dst.Set(reflect.ValueOf(v))
		return nil
	}

	// Pointer targets model optional fields: null becomes nil, anything
	// else allocates and recurses.
	if dst.Kind() == reflect.Pointer {
		if _, isNull := v.(Null); isNull {
			dst.SetZero()
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeValue(v, dst.Elem(), path)
	}

	if dst.CanAddr() {
		if u, ok := dst.Addr().Interface().(Unmarshaler); ok {
			return atPath(u.UnmarshalITF(v), path)
		}
	}

	if dst.Type() == bigIntType {
		return decodeBigIntTarget(v, dst, path)
	}

	switch val := v.(type) {
	case Null:
		return typeMismatch(path, dst.Type().String(), v)

	case Bool:
		if dst.Kind() != reflect.Bool {
			return typeMismatch(path, dst.Type().String(), v)
		}
		dst.SetBool(bool(val))
		return nil

	case Number:
		return decodeNumber(float64(val), dst, path)

	case String:
		if dst.Kind() != reflect.String {
			return typeMismatch(path, dst.Type().String(), v)
		}
		dst.SetString(string(val))
		return nil

	case BigInt:
		return decodeBigInt(val, dst, path)

	case List:
		return decodeSeq([]Value(val), dst, path, false)

	case Tuple:
		return decodeTuple(val, dst, path)

	case *Record:
		return decodeRecord(val, dst, path)

	case *Set[Value]:
		// Typed *Set[T] targets were caught by the Unmarshaler hook; a
		// slice target receives the elements in insertion order.
		if dst.Kind() == reflect.Slice {
			return decodeSeq(setElems(val), dst, path, false)
		}
		return typeMismatch(path, dst.Type().String(), v)

	case *Map[Value, Value]:
		return decodeMapValue(val, dst, path)

	case Unserializable:
		if dst.Type() == reflect.TypeOf(Unserializable("")) {
			dst.Set(reflect.ValueOf(val))
			return nil
		}
		return newDecodeError(CodeUnrepresentableValue, path,
			"producer could not serialize this value (%s); target %s does not accept it",
			string(val), dst.Type())

	default:
		return typeMismatch(path, dst.Type().String(), v)
	}
}

func decodeNumber(f float64, dst reflect.Value, path Path) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) || dst.OverflowInt(int64(f)) {
			return newDecodeError(CodeNumericOverflow, path, "number %v does not fit in %s", f, dst.Type())
		}
		dst.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f < 0 || f != math.Trunc(f) || dst.OverflowUint(uint64(f)) {
			return newDecodeError(CodeNumericOverflow, path, "number %v does not fit in %s", f, dst.Type())
		}
		dst.SetUint(uint64(f))
	case reflect.Float32, reflect.Float64:
		if dst.OverflowFloat(f) {
			return newDecodeError(CodeNumericOverflow, path, "number %v does not fit in %s", f, dst.Type())
		}
		dst.SetFloat(f)
	default:
		return typeMismatch(path, dst.Type().String(), Number(f))
	}
	return nil
}

func decodeBigInt(b BigInt, dst reflect.Value, path Path) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := b.Int64()
		if !ok || dst.OverflowInt(n) {
			return newDecodeError(CodeNumericOverflow, path, "bigint %s does not fit in %s", b, dst.Type())
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := b.Uint64()
		if !ok || dst.OverflowUint(n) {
			return newDecodeError(CodeNumericOverflow, path, "bigint %s does not fit in %s", b, dst.Type())
		}
		dst.SetUint(n)
	default:
		return typeMismatch(path, dst.Type().String(), b)
	}
	return nil
}

// decodeBigIntTarget fills a big.Int destination from a BigInt or an
// integral Number.
func decodeBigIntTarget(v Value, dst reflect.Value, path Path) error {
	switch val := v.(type) {
	case BigInt:
		dst.Set(reflect.ValueOf(*val.Big()))
		return nil
	case Number:
		f := float64(val)
		if f != math.Trunc(f) {
			return newDecodeError(CodeNumericOverflow, path, "number %v is not an integer", f)
		}
		dst.Set(reflect.ValueOf(*big.NewInt(int64(f))))
		return nil
	default:
		return typeMismatch(path, "integer", v)
	}
}

// decodeSeq fills a slice or array destination. Arrays are fixed-size
// shapes, so a length mismatch is an arity error; fixedArity forces the
// same check for slices when the source is a tuple.
func decodeSeq(elems []Value, dst reflect.Value, path Path, fixedArity bool) error {
	switch dst.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for i, elem := range elems {
			if err := decodeValue(elem, out.Index(i), path.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	case reflect.Array:
		if dst.Len() != len(elems) {
			return newDecodeError(CodeArityMismatch, path,
				"expected %d elements, found %d", dst.Len(), len(elems))
		}
		for i, elem := range elems {
			if err := decodeValue(elem, dst.Index(i), path.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		if fixedArity {
			return typeMismatch(path, dst.Type().String(), Tuple(elems))
		}
		return typeMismatch(path, dst.Type().String(), List(elems))
	}
}

// decodeTuple fills fixed-arity shapes: [N]T arrays and positional
// structs. Slices are also accepted for callers that want the elements
// without an arity constraint on their own side.
func decodeTuple(t Tuple, dst reflect.Value, path Path) error {
	switch dst.Kind() {
	case reflect.Slice, reflect.Array:
		return decodeSeq([]Value(t), dst, path, true)
	case reflect.Struct:
		fields := exportedFields(dst.Type())
		if len(fields) != len(t) {
			return newDecodeError(CodeArityMismatch, path,
				"tuple has %d elements but %s has %d fields", len(t), dst.Type(), len(fields))
		}
		for i, fi := range fields {
			if err := decodeValue(t[i], dst.Field(fi), path.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return typeMismatch(path, dst.Type().String(), t)
	}
}

// decodeRecord fills a struct (fields matched by itf tag, else
// case-insensitive name) or a string-keyed map. Record keys with no
// matching struct field are ignored, mirroring producer-side
// extensibility; a declared field with no record key is MISSING_FIELD.
func decodeRecord(rec *Record, dst reflect.Value, path Path) error {
	switch dst.Kind() {
	case reflect.Struct:
		t := dst.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := fieldName(f)
			if name == "-" {
				continue
			}
			fv, found := rec.Get(name)
			if !found {
				for k, rv := range rec.All() {
					if strings.EqualFold(k, name) {
						fv, found = rv, true
						break
					}
				}
			}
			if !found {
				return newDecodeError(CodeMissingField, path, "required field %q not found", name)
			}
			if err := decodeValue(fv, dst.Field(i), path.Field(name)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return typeMismatch(path, dst.Type().String(), rec)
		}
		out := reflect.MakeMapWithSize(dst.Type(), rec.Len())
		for k, v := range rec.All() {
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := decodeValue(v, ev, path.Field(k)); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), ev)
		}
		dst.Set(out)
		return nil

	default:
		return typeMismatch(path, dst.Type().String(), rec)
	}
}

// decodeMapValue fills a native Go map from an ITF map. Typed
// *Map[K, V] targets were caught by the Unmarshaler hook.
func decodeMapValue(m *Map[Value, Value], dst reflect.Value, path Path) error {
	if dst.Kind() != reflect.Map {
		return typeMismatch(path, dst.Type().String(), m)
	}
	out := reflect.MakeMapWithSize(dst.Type(), m.Len())
	i := 0
	for k, v := range m.All() {
		kv := reflect.New(dst.Type().Key()).Elem()
		if err := decodeValue(k, kv, path.Index(i).Index(0)); err != nil {
			return err
		}
		ev := reflect.New(dst.Type().Elem()).Elem()
		if err := decodeValue(v, ev, path.Index(i).Index(1)); err != nil {
			return err
		}
		if out.MapIndex(kv).IsValid() {
			return newDecodeError(CodeDuplicateKey, path.Index(i),
				"map keys collide after decoding to %s", dst.Type().Key())
		}
		out.SetMapIndex(kv, ev)
		i++
	}
	dst.Set(out)
	return nil
}

// fieldName resolves the record key for a struct field: the itf tag if
// set, else the field name.
func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("itf")
	if tag == "" {
		return f.Name
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

func exportedFields(t reflect.Type) []int {
	var fields []int
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			fields = append(fields, i)
		}
	}
	return fields
}

func setElems(s *Set[Value]) []Value {
	elems := make([]Value, 0, s.Len())
	for e := range s.All() {
		elems = append(elems, e)
	}
	return elems
}
