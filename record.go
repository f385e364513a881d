package itf

import (
	"iter"
	"slices"
)

// Record is an insertion-ordered mapping from string keys to Values: the
// decoded form of a plain JSON object. Order is preserved so a decoded
// trace re-emits byte-stable, but equality is by key set (JSON object
// semantics), matching Equal.
type Record struct {
	keys []string
	vals map[string]Value
}

func (*Record) isValue() {}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{vals: make(map[string]Value)}
}

// Set inserts or replaces a key. A replaced key keeps its original
// position.
func (r *Record) Set(key string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, exists := r.vals[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Delete removes a key if present.
func (r *Record) Delete(key string) {
	if _, ok := r.vals[key]; !ok {
		return
	}
	delete(r.vals, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

// All iterates key-value pairs in insertion order. The sequence is
// restartable.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range r.keys {
			if !yield(k, r.vals[k]) {
				return
			}
		}
	}
}

// Equal reports whether two Records hold the same key set with equal
// values per key, regardless of insertion order.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	for k, v := range r.All() {
		ov, ok := other.Get(k)
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// UnmarshalITF implements Unmarshaler so a *Record field inside a typed
// state shape captures a sub-object verbatim.
func (r *Record) UnmarshalITF(v Value) error {
	src, ok := v.(*Record)
	if !ok {
		return newDecodeError(CodeTypeMismatch, nil, "expected record, found %s", kindName(v))
	}
	*r = Record{}
	for k, val := range src.All() {
		r.Set(k, val)
	}
	return nil
}
