package itf

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
)

// Marshaler is the capability a host type implements to encode itself to
// a Value. Set and Map implement it to re-wrap their contents; user types
// with custom representations (sum types, renamed variants) implement it
// the same way.
type Marshaler interface {
	MarshalITF() (Value, error)
}

// Encode turns a host value into a Value tree, the exact left inverse of
// Decode: for every representable v, decoding Encode(v) into v's own type
// reproduces it. Container contents keep their insertion order; native Go
// maps, which have no order, are encoded with sorted keys so output is
// deterministic.
func Encode(x any) (Value, error) {
	if x == nil {
		return Null{}, nil
	}
	if m, ok := x.(Marshaler); ok {
		return m.MarshalITF()
	}
	if v, ok := x.(Value); ok {
		return v, nil
	}
	switch n := x.(type) {
	case Record:
		// Records travel by pointer; accept a copy for convenience.
		return &n, nil
	case *big.Int:
		if n == nil {
			return Null{}, nil
		}
		return BigIntOf(n), nil
	case big.Int:
		return BigIntOf(&n), nil
	}

	rv := reflect.ValueOf(x)
	// Pointer-receiver Marshalers passed by value still get their say.
	if rv.Kind() != reflect.Pointer && reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		return pv.Interface().(Marshaler).MarshalITF()
	}
	return encodeReflect(rv)
}

var marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()

func encodeReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return Encode(rv.Elem().Interface())

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n > maxExactInt || n < -maxExactInt {
			return NewBigInt(n), nil
		}
		return Number(n), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(maxExactInt) {
			return BigIntOf(new(big.Int).SetUint64(u)), nil
		}
		return Number(u), nil

	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil

	case reflect.Slice, reflect.Array:
		out := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := Encode(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil

	case reflect.Map:
		return encodeGoMap(rv)

	case reflect.Struct:
		return encodeStruct(rv)

	default:
		return nil, fmt.Errorf("itf: cannot encode value of type %s", rv.Type())
	}
}

// encodeGoMap turns a string-keyed Go map into a Record and any other Go
// map into an ITF map. Keys are sorted (strings lexically, others by
// structural identity) because Go map iteration order is random.
func encodeGoMap(rv reflect.Value) (Value, error) {
	if rv.Type().Key().Kind() == reflect.String {
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)

		rec := NewRecord()
		for _, k := range keys {
			kv := reflect.ValueOf(k).Convert(rv.Type().Key())
			ev, err := Encode(rv.MapIndex(kv).Interface())
			if err != nil {
				return nil, err
			}
			rec.Set(k, ev)
		}
		return rec, nil
	}

	type pair struct {
		id   string
		k, v Value
	}
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		kv, err := Encode(iter.Key().Interface())
		if err != nil {
			return nil, err
		}
		vv, err := Encode(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{id: identityKey(kv), k: kv, v: vv})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	out := NewMap[Value, Value]()
	for _, p := range pairs {
		if err := out.Insert(p.k, p.v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeStruct(rv reflect.Value) (Value, error) {
	t := rv.Type()
	rec := NewRecord()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		fv, err := Encode(rv.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		rec.Set(name, fv)
	}
	return rec, nil
}
