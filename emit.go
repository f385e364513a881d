package itf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Emit serializes a Value to canonical ITF JSON. Extended kinds are
// re-wrapped in their reserved-tag object forms; Record, Set and Map
// contents are written in insertion order, never sorted, matching
// producer behavior. Emit is the exact left inverse of ParseValue for
// every value this package can construct.
func Emit(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := emitValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func emitValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Number:
		buf.WriteString(formatNumber(float64(val)))
	case String:
		return emitString(buf, string(val))
	case BigInt:
		buf.WriteString(`{"#bigint":`)
		if err := emitString(buf, val.String()); err != nil {
			return err
		}
		buf.WriteByte('}')
	case List:
		return emitSeq(buf, val)
	case Tuple:
		buf.WriteString(`{"#tup":`)
		if err := emitSeq(buf, val); err != nil {
			return err
		}
		buf.WriteByte('}')
	case *Record:
		return emitRecord(buf, val)
	case *Set[Value]:
		buf.WriteString(`{"#set":[`)
		i := 0
		for elem := range val.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := emitValue(buf, elem); err != nil {
				return err
			}
			i++
		}
		buf.WriteString("]}")
	case *Map[Value, Value]:
		buf.WriteString(`{"#map":[`)
		i := 0
		for k, mv := range val.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('[')
			if err := emitValue(buf, k); err != nil {
				return err
			}
			buf.WriteByte(',')
			if err := emitValue(buf, mv); err != nil {
				return err
			}
			buf.WriteByte(']')
			i++
		}
		buf.WriteString("]}")
	case Unserializable:
		buf.WriteString(`{"#unserializable":`)
		if err := emitString(buf, string(val)); err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("itf: cannot emit value of type %T", v)
	}
	return nil
}

func emitSeq(buf *bytes.Buffer, elems []Value) error {
	buf.WriteByte('[')
	for i, elem := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := emitValue(buf, elem); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func emitRecord(buf *bytes.Buffer, rec *Record) error {
	buf.WriteByte('{')
	i := 0
	for k, v := range rec.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := emitString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := emitValue(buf, v); err != nil {
			return err
		}
		i++
	}
	buf.WriteByte('}')
	return nil
}

// emitString writes a JSON string without HTML escaping. json.Marshal
// escapes <, > and &, which diverges from what trace producers emit; the
// encoder path avoids that.
func emitString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	out := tmp.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	buf.Write(out)
	return nil
}

// formatNumber writes integral numbers without an exponent or decimal
// point so that small integers round-trip byte-identical.
func formatNumber(f float64) string {
	if f == float64(int64(f)) && f >= -float64(maxExactInt) && f <= float64(maxExactInt) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
