package itf

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// maxExactInt is the largest integer magnitude float64 represents
// exactly. Plain JSON integers beyond it must be written as #bigint.
const maxExactInt = int64(1) << 53

// reservedTags are the single-key object forms that encode the ITF
// extended kinds. #meta is deliberately absent: it is structural, owned
// by the trace/state envelope, and never a value tag.
var reservedTags = map[string]bool{
	"#bigint":         true,
	"#tup":            true,
	"#set":            true,
	"#map":            true,
	"#unserializable": true,
}

// ParseValue parses raw ITF JSON into a Value, applying tag recognition:
// an object with exactly one key that is a reserved tag becomes the
// corresponding extended kind; every other object becomes a Record with
// its key order preserved.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseNext(dec, nil)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newDecodeError(CodeMalformedJSON, nil, "trailing data after JSON value")
	}
	return v, nil
}

func parseNext(dec *json.Decoder, path Path) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, &DecodeError{Code: CodeMalformedJSON, Path: path, Message: err.Error(), Err: err}
	}
	return parseToken(dec, tok, path)
}

func parseToken(dec *json.Decoder, tok json.Token, path Path) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec, path)
		case '[':
			return parseArray(dec, path)
		default:
			return nil, newDecodeError(CodeMalformedJSON, path, "unexpected %q", t.String())
		}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	case json.Number:
		return parseNumber(t, path)
	default:
		return nil, newDecodeError(CodeMalformedJSON, path, "unexpected token %v", tok)
	}
}

// parseObject reads an object with a streaming decoder so key order
// survives, then applies tag recognition to the finished record.
func parseObject(dec *json.Decoder, path Path) (Value, error) {
	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &DecodeError{Code: CodeMalformedJSON, Path: path, Message: err.Error(), Err: err}
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, newDecodeError(CodeMalformedJSON, path, "object key is not a string")
		}
		if _, dup := rec.Get(key); dup {
			return nil, newDecodeError(CodeDuplicateKey, path, "duplicate object key %q", key)
		}
		val, err := parseNext(dec, path.Field(key))
		if err != nil {
			return nil, err
		}
		rec.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, &DecodeError{Code: CodeMalformedJSON, Path: path, Message: err.Error(), Err: err}
	}

	if rec.Len() == 1 {
		key := rec.Keys()[0]
		if reservedTags[key] {
			payload, _ := rec.Get(key)
			return applyTag(key, payload, path)
		}
	}
	return rec, nil
}

func parseArray(dec *json.Decoder, path Path) (Value, error) {
	var list List
	for i := 0; dec.More(); i++ {
		elem, err := parseNext(dec, path.Index(i))
		if err != nil {
			return nil, err
		}
		list = append(list, elem)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, &DecodeError{Code: CodeMalformedJSON, Path: path, Message: err.Error(), Err: err}
	}
	return list, nil
}

// applyTag converts a reserved single-key object into its extended kind.
func applyTag(tag string, payload Value, path Path) (Value, error) {
	tagPath := path.Field(tag)

	switch tag {
	case "#bigint":
		s, ok := payload.(String)
		if !ok {
			return nil, typeMismatch(tagPath, "string", payload)
		}
		b, err := ParseBigInt(string(s))
		if err != nil {
			return nil, newDecodeError(CodeInvalidBigInt, tagPath, "%v", err)
		}
		return b, nil

	case "#tup":
		l, ok := payload.(List)
		if !ok {
			return nil, typeMismatch(tagPath, "array", payload)
		}
		return Tuple(l), nil

	case "#set":
		l, ok := payload.(List)
		if !ok {
			return nil, typeMismatch(tagPath, "array", payload)
		}
		set := &Set[Value]{}
		for i, elem := range l {
			if err := set.Insert(elem); err != nil {
				return nil, atPath(err, tagPath.Index(i))
			}
		}
		return set, nil

	case "#map":
		l, ok := payload.(List)
		if !ok {
			return nil, typeMismatch(tagPath, "array", payload)
		}
		m := NewMap[Value, Value]()
		for i, entry := range l {
			pair, ok := entry.(List)
			if !ok {
				return nil, typeMismatch(tagPath.Index(i), "array", entry)
			}
			if len(pair) != 2 {
				return nil, newDecodeError(CodeArityMismatch, tagPath.Index(i),
					"map entry must be a [key, value] pair, got %d elements", len(pair))
			}
			if err := m.Insert(pair[0], pair[1]); err != nil {
				return nil, atPath(err, tagPath.Index(i))
			}
		}
		return m, nil

	case "#unserializable":
		s, ok := payload.(String)
		if !ok {
			return nil, typeMismatch(tagPath, "string", payload)
		}
		return Unserializable(s), nil
	}

	// Unreachable: callers check reservedTags first.
	return nil, newDecodeError(CodeMalformedJSON, path, "unknown tag %q", tag)
}

func parseNumber(n json.Number, path Path) (Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil || i > maxExactInt || i < -maxExactInt {
			return nil, newDecodeError(CodeNumericOverflow, path,
				"integer %s exceeds the exact 64-bit float range; producers must use #bigint", s)
		}
		return Number(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, &DecodeError{Code: CodeMalformedJSON, Path: path, Message: err.Error(), Err: err}
	}
	return Number(f), nil
}
