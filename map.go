package itf

import "iter"

// MapEntry is one key-value pair of a Map.
type MapEntry[K, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered mapping whose keys may be any type the
// encoder can represent, including composites (tuples, sets, other maps).
// Key identity is structural, computed from the key's encoded form.
//
// Insertion order is preserved for iteration and re-encoding but is not
// significant for equality: two Maps with the same pairs in different
// order are equal.
//
// Insert is the strict construction path used by the decoder; Set is the
// consumer-facing upsert.
type Map[K, V any] struct {
	entries []MapEntry[K, V]
	index   map[string]int
}

func (*Map[K, V]) isValue() {}

// NewMap creates an empty Map.
func NewMap[K, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[string]int)}
}

// Insert adds a pair, failing with DUPLICATE_KEY if a structurally equal
// key is already present.
func (m *Map[K, V]) Insert(key K, value V) error {
	id, err := identityOf(key)
	if err != nil {
		return err
	}
	if _, dup := m.index[id]; dup {
		return newDecodeError(CodeDuplicateKey, nil, "duplicate map key %s", id)
	}
	m.put(id, key, value)
	return nil
}

// Set inserts or replaces a pair. A replaced key keeps its original
// position.
func (m *Map[K, V]) Set(key K, value V) {
	id, err := identityOf(key)
	if err != nil {
		return
	}
	if pos, ok := m.index[id]; ok {
		m.entries[pos].Value = value
		return
	}
	m.put(id, key, value)
}

func (m *Map[K, V]) put(id string, key K, value V) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, MapEntry[K, V]{Key: key, Value: value})
}

// Get returns the value for a structurally equal key and whether it is
// present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	id, err := identityOf(key)
	if err != nil {
		return zero, false
	}
	pos, ok := m.index[id]
	if !ok {
		return zero, false
	}
	return m.entries[pos].Value, true
}

// Len returns the number of pairs.
func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// All iterates key-value pairs in insertion order. The sequence is
// restartable.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys iterates keys in insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, e := range m.entries {
			if !yield(e.Key) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold the same key set with equal values
// per key, in any order. Values compare by their encoded identity.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if m.Len() != other.Len() {
		return false
	}
	for id, pos := range m.index {
		opos, ok := other.index[id]
		if !ok {
			return false
		}
		vid, err := identityOf(m.entries[pos].Value)
		if err != nil {
			return false
		}
		oid, err := identityOf(other.entries[opos].Value)
		if err != nil {
			return false
		}
		if vid != oid {
			return false
		}
	}
	return true
}

// UnmarshalITF decodes a map value pair-by-pair into the declared key and
// value types. Two keys that become equal after typed decoding are
// rejected with DUPLICATE_KEY.
func (m *Map[K, V]) UnmarshalITF(v Value) error {
	src, ok := v.(*Map[Value, Value])
	if !ok {
		return newDecodeError(CodeTypeMismatch, nil, "expected map, found %s", kindName(v))
	}
	*m = Map[K, V]{}
	i := 0
	for key, val := range src.All() {
		var k K
		if err := Decode(key, &k); err != nil {
			return atPath(err, Path{}.Index(i).Index(0))
		}
		var vv V
		if err := Decode(val, &vv); err != nil {
			return atPath(err, Path{}.Index(i).Index(1))
		}
		if err := m.Insert(k, vv); err != nil {
			return atPath(err, Path{}.Index(i))
		}
		i++
	}
	return nil
}

// MarshalITF re-encodes the map as a *Map[Value, Value] for emission.
func (m *Map[K, V]) MarshalITF() (Value, error) {
	out := NewMap[Value, Value]()
	for key, val := range m.All() {
		kv, err := Encode(key)
		if err != nil {
			return nil, err
		}
		vv, err := Encode(val)
		if err != nil {
			return nil, err
		}
		if err := out.Insert(kv, vv); err != nil {
			return nil, err
		}
	}
	return out, nil
}
