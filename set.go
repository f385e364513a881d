package itf

import "iter"

// Set is an insertion-ordered collection of unique elements under
// structural equality. Element identity is computed from the element's
// encoded form, so composite element types (tuples, nested sets, maps)
// work without being comparable in the Go sense.
//
// Order is preserved for iteration and re-encoding but is not significant
// for equality: two Sets with the same elements in different order are
// equal.
//
// Insert is the strict construction path used by the decoder; Add is the
// idempotent consumer-facing variant.
type Set[T any] struct {
	elems []T
	index map[string]int
}

func (*Set[T]) isValue() {}

// NewSet creates a Set from the given elements, dropping duplicates.
func NewSet[T any](elems ...T) *Set[T] {
	s := &Set[T]{}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Insert adds an element, failing with DUPLICATE_ELEMENT if a
// structurally equal element is already present.
func (s *Set[T]) Insert(elem T) error {
	key, err := identityOf(elem)
	if err != nil {
		return err
	}
	if _, dup := s.index[key]; dup {
		return newDecodeError(CodeDuplicateElement, nil, "duplicate set element %s", key)
	}
	s.put(key, elem)
	return nil
}

// Add adds an element if absent and reports whether it was added.
func (s *Set[T]) Add(elem T) bool {
	key, err := identityOf(elem)
	if err != nil {
		return false
	}
	if _, dup := s.index[key]; dup {
		return false
	}
	s.put(key, elem)
	return true
}

func (s *Set[T]) put(key string, elem T) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.elems)
	s.elems = append(s.elems, elem)
}

// Contains reports whether a structurally equal element is present.
func (s *Set[T]) Contains(elem T) bool {
	key, err := identityOf(elem)
	if err != nil {
		return false
	}
	_, ok := s.index[key]
	return ok
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	return len(s.elems)
}

// All iterates elements in insertion order. The sequence is restartable.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, e := range s.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Equal reports whether both sets hold the same elements, in any order.
func (s *Set[T]) Equal(other *Set[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for key := range s.index {
		if _, ok := other.index[key]; !ok {
			return false
		}
	}
	return true
}

// UnmarshalITF decodes a set value element-by-element into the declared
// element type. Two entries that become equal after typed decoding are
// rejected with DUPLICATE_ELEMENT.
func (s *Set[T]) UnmarshalITF(v Value) error {
	src, ok := v.(*Set[Value])
	if !ok {
		return newDecodeError(CodeTypeMismatch, nil, "expected set, found %s", kindName(v))
	}
	*s = Set[T]{}
	i := 0
	for elem := range src.All() {
		var t T
		if err := Decode(elem, &t); err != nil {
			return atPath(err, Path{}.Index(i))
		}
		if err := s.Insert(t); err != nil {
			return atPath(err, Path{}.Index(i))
		}
		i++
	}
	return nil
}

// MarshalITF re-encodes the set as a *Set[Value] for emission.
func (s *Set[T]) MarshalITF() (Value, error) {
	out := &Set[Value]{}
	for elem := range s.All() {
		v, err := Encode(elem)
		if err != nil {
			return nil, err
		}
		if err := out.Insert(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
