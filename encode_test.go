package itf

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"int", 42, Number(42)},
		{"uint16", uint16(7), Number(7)},
		{"float", 0.5, Number(0.5)},
		{"string", "hi", String("hi")},
		{"nil pointer", (*int)(nil), Null{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %#v", got)
		})
	}
}

func TestEncodeLargeIntegersBecomeBigInt(t *testing.T) {
	got, err := Encode(int64(9007199254740993))
	require.NoError(t, err)
	b, ok := got.(BigInt)
	require.True(t, ok)
	assert.Equal(t, "9007199254740993", b.String())

	got, err = Encode(uint64(18446744073709551615))
	require.NoError(t, err)
	b, ok = got.(BigInt)
	require.True(t, ok)
	assert.Equal(t, "18446744073709551615", b.String())

	// Within the exact range, plain numbers.
	got, err = Encode(int64(9007199254740992))
	require.NoError(t, err)
	_, isNum := got.(Number)
	assert.True(t, isNum)
}

func TestEncodeBigIntPointer(t *testing.T) {
	n := new(big.Int)
	n.SetString("340282366920938463463374607431768211456", 10)

	got, err := Encode(n)
	require.NoError(t, err)
	b, ok := got.(BigInt)
	require.True(t, ok)
	assert.Equal(t, "340282366920938463463374607431768211456", b.String())

	got, err = Encode((*big.Int)(nil))
	require.NoError(t, err)
	assert.True(t, Equal(Null{}, got))
}

func TestEncodeStructFieldOrder(t *testing.T) {
	type account struct {
		Owner   string `itf:"who_owns"`
		Balance int
		hidden  int
		Skipped bool `itf:"-"`
	}
	_ = account{hidden: 0}

	got, err := Encode(account{Owner: "alice", Balance: 10, Skipped: true})
	require.NoError(t, err)

	rec, ok := got.(*Record)
	require.True(t, ok)
	assert.Equal(t, []string{"who_owns", "Balance"}, rec.Keys())
}

func TestEncodeGoMaps(t *testing.T) {
	// String keys become a record with sorted keys.
	got, err := Encode(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	out, err := Emit(got)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(out))

	// Non-string keys become an ITF map, deterministically ordered.
	got, err = Encode(map[int]string{2: "b", 1: "a"})
	require.NoError(t, err)
	m, ok := got.(*Map[Value, Value])
	require.True(t, ok)
	assert.Equal(t, 2, m.Len())
	v, ok := m.Get(Number(1))
	require.True(t, ok)
	assert.True(t, Equal(String("a"), v))
}

func TestEncodeContainersByValue(t *testing.T) {
	// Pointer-receiver marshalers still fire when the container travels
	// by value inside a struct.
	type state struct {
		Seen Set[int]         `itf:"seen"`
		Tab  Map[string, int] `itf:"tab"`
	}
	var s state
	s.Seen.Add(2)
	s.Seen.Add(1)
	s.Tab.Set("x", 10)

	got, err := Encode(s)
	require.NoError(t, err)
	out, err := Emit(got)
	require.NoError(t, err)
	assert.Equal(t, `{"seen":{"#set":[2,1]},"tab":{"#map":[["x",10]]}}`, string(out))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	type edge struct {
		From string
		To   string
	}
	type snapshot struct {
		Name    string          `itf:"name"`
		Count   int             `itf:"count"`
		Ratio   float64         `itf:"ratio"`
		Ids     []int           `itf:"ids"`
		Seen    *Set[edge]      `itf:"seen"`
		Weights *Map[edge, int] `itf:"weights"`
		Big     big.Int         `itf:"big"`
		Opt     *int            `itf:"opt"`
	}

	seen := NewSet[edge]()
	require.NoError(t, seen.Insert(edge{From: "a", To: "b"}))
	require.NoError(t, seen.Insert(edge{From: "b", To: "a"}))

	weights := NewMap[edge, int]()
	require.NoError(t, weights.Insert(edge{From: "a", To: "b"}, 3))

	var bigN big.Int
	bigN.SetString("123456789012345678901234567890", 10)

	opt := 5
	in := snapshot{
		Name:    "s1",
		Count:   2,
		Ratio:   0.25,
		Ids:     []int{3, 1, 2},
		Seen:    seen,
		Weights: weights,
		Big:     bigN,
		Opt:     &opt,
	}

	v, err := Encode(in)
	require.NoError(t, err)

	var out snapshot
	require.NoError(t, Decode(v, &out))

	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Count, out.Count)
	assert.Equal(t, in.Ratio, out.Ratio)
	assert.Equal(t, in.Ids, out.Ids)
	assert.True(t, in.Seen.Equal(out.Seen))
	assert.True(t, in.Weights.Equal(out.Weights))
	assert.Equal(t, in.Big.String(), out.Big.String())
	require.NotNil(t, out.Opt)
	assert.Equal(t, 5, *out.Opt)

	// And through the wire: emit, reparse, decode again.
	raw, err := Emit(v)
	require.NoError(t, err)
	v2, err := ParseValue(raw)
	require.NoError(t, err)
	assert.True(t, Equal(v, v2))
}

func TestEncodeRoundTripNilOptional(t *testing.T) {
	type shape struct {
		Opt *int `itf:"opt"`
	}
	v, err := Encode(shape{})
	require.NoError(t, err)

	var out shape
	require.NoError(t, Decode(v, &out))
	assert.Nil(t, out.Opt)
}
