package itf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// identityKey renders a Value to a canonical string used as its identity
// for structural equality and for hashing composite keys in Set and Map.
// Set and Map contents are sorted here, and Record keys likewise, so two
// values that differ only in insertion order get the same key. This
// string never leaves the package; wire output (Emit) keeps insertion
// order.
func identityKey(v Value) string {
	var b strings.Builder
	writeIdentity(&b, v)
	return b.String()
}

// identityOf computes the identity of an arbitrary host value by encoding
// it first. Containers use it to hash their keys and elements.
func identityOf(x any) (string, error) {
	if v, ok := x.(Value); ok {
		return identityKey(v), nil
	}
	v, err := Encode(x)
	if err != nil {
		return "", err
	}
	return identityKey(v), nil
}

func writeIdentity(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case Null:
		b.WriteString("null")
	case Bool:
		b.WriteString(strconv.FormatBool(bool(val)))
	case Number:
		b.WriteString("num:")
		b.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
	case String:
		b.WriteString("str:")
		b.WriteString(strconv.Quote(string(val)))
	case BigInt:
		b.WriteString("big:")
		b.WriteString(val.String())
	case List:
		writeIdentitySeq(b, "list", val)
	case Tuple:
		writeIdentitySeq(b, "tup", val)
	case *Record:
		parts := make([]string, 0, val.Len())
		for k, fv := range val.All() {
			parts = append(parts, strconv.Quote(k)+"="+identityKey(fv))
		}
		sort.Strings(parts)
		b.WriteString("rec{")
		b.WriteString(strings.Join(parts, ","))
		b.WriteByte('}')
	case *Set[Value]:
		parts := make([]string, 0, val.Len())
		for elem := range val.All() {
			parts = append(parts, identityKey(elem))
		}
		sort.Strings(parts)
		b.WriteString("set{")
		b.WriteString(strings.Join(parts, ","))
		b.WriteByte('}')
	case *Map[Value, Value]:
		parts := make([]string, 0, val.Len())
		for k, mv := range val.All() {
			parts = append(parts, identityKey(k)+"=>"+identityKey(mv))
		}
		sort.Strings(parts)
		b.WriteString("map{")
		b.WriteString(strings.Join(parts, ","))
		b.WriteByte('}')
	case Unserializable:
		b.WriteString("unser:")
		b.WriteString(strconv.Quote(string(val)))
	default:
		// Unreachable for values built by this package.
		fmt.Fprintf(b, "opaque:%T", v)
	}
}

func writeIdentitySeq(b *strings.Builder, tag string, elems []Value) {
	b.WriteString(tag)
	b.WriteByte('[')
	for i, elem := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		writeIdentity(b, elem)
	}
	b.WriteByte(']')
}
