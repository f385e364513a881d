package itf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all kinds implement Value (compile-time check via assignment)
	var _ Value = Null{}
	var _ Value = Bool(true)
	var _ Value = Number(1.5)
	var _ Value = String("test")
	var _ Value = NewBigInt(42)
	var _ Value = List{String("a"), Number(1)}
	var _ Value = Tuple{Number(1), Number(2)}
	var _ Value = NewRecord()
	var _ Value = NewSet[Value]()
	var _ Value = NewMap[Value, Value]()
	var _ Value = Unserializable("fun(1)")
}

func TestEqualScalars(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null equals null", Null{}, Null{}, true},
		{"bools", Bool(true), Bool(true), true},
		{"bools differ", Bool(true), Bool(false), false},
		{"numbers", Number(3), Number(3), true},
		{"numbers differ", Number(3), Number(4), false},
		{"strings", String("x"), String("x"), true},
		{"bigints", NewBigInt(7), NewBigInt(7), true},
		{"number is not bigint", Number(1), NewBigInt(1), false},
		{"number is not bool", Number(1), Bool(true), false},
		{"list is not tuple", List{Number(1)}, Tuple{Number(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqualBigIntLargeLiteral(t *testing.T) {
	a, err := ParseBigInt("123456789012345678901234567890")
	require.NoError(t, err)
	b, err := ParseBigInt("123456789012345678901234567890")
	require.NoError(t, err)

	assert.True(t, Equal(a, b))
	assert.Equal(t, "123456789012345678901234567890", a.String())
}

func TestRecordPreservesInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("zebra", Number(1))
	rec.Set("apple", Number(2))
	rec.Set("mango", Number(3))

	assert.Equal(t, []string{"zebra", "apple", "mango"}, rec.Keys())

	// Replacing a value keeps the original position.
	rec.Set("apple", Number(20))
	assert.Equal(t, []string{"zebra", "apple", "mango"}, rec.Keys())

	v, ok := rec.Get("apple")
	require.True(t, ok)
	assert.True(t, Equal(Number(20), v))
}

func TestRecordEqualityIgnoresOrder(t *testing.T) {
	a := NewRecord()
	a.Set("x", Number(1))
	a.Set("y", Number(2))

	b := NewRecord()
	b.Set("y", Number(2))
	b.Set("x", Number(1))

	assert.True(t, a.Equal(b))
	assert.True(t, Equal(a, b))

	b.Set("x", Number(3))
	assert.False(t, a.Equal(b))
}

func TestRecordDelete(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", Number(1))
	rec.Set("b", Number(2))

	rec.Delete("a")
	assert.Equal(t, []string{"b"}, rec.Keys())
	_, ok := rec.Get("a")
	assert.False(t, ok)

	rec.Delete("missing") // no-op
	assert.Equal(t, 1, rec.Len())
}

func TestEqualNestedComposites(t *testing.T) {
	inner1 := NewSet[Value]()
	require.NoError(t, inner1.Insert(Number(1)))
	require.NoError(t, inner1.Insert(Number(2)))

	inner2 := NewSet[Value]()
	require.NoError(t, inner2.Insert(Number(2)))
	require.NoError(t, inner2.Insert(Number(1)))

	a := List{Tuple{String("k"), inner1}}
	b := List{Tuple{String("k"), inner2}}

	assert.True(t, Equal(a, b))
}
