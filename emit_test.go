package itf

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitScalars(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null{}, `null`},
		{"true", Bool(true), `true`},
		{"integer", Number(42), `42`},
		{"negative", Number(-7), `-7`},
		{"float", Number(0.5), `0.5`},
		{"string", String("hi"), `"hi"`},
		{"no html escape", String("a<b&c>d"), `"a<b&c>d"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Emit(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEmitContainersInsertionOrder(t *testing.T) {
	set := NewSet[Value]()
	require.NoError(t, set.Insert(Number(2)))
	require.NoError(t, set.Insert(Number(1)))

	got, err := Emit(set)
	require.NoError(t, err)
	assert.Equal(t, `{"#set":[2,1]}`, string(got))

	m := NewMap[Value, Value]()
	require.NoError(t, m.Insert(String("b"), Number(2)))
	require.NoError(t, m.Insert(String("a"), Number(1)))

	got, err = Emit(m)
	require.NoError(t, err)
	assert.Equal(t, `{"#map":[["b",2],["a",1]]}`, string(got))

	rec := NewRecord()
	rec.Set("z", Number(1))
	rec.Set("a", Number(2))

	got, err = Emit(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(got))
}

func TestEmitGolden(t *testing.T) {
	big, err := ParseBigInt("123456789012345678901234567890")
	require.NoError(t, err)

	set := NewSet[Value]()
	require.NoError(t, set.Insert(Number(2)))
	require.NoError(t, set.Insert(Number(1)))

	m := NewMap[Value, Value]()
	require.NoError(t, m.Insert(String("k"), Number(0.5)))

	rec := NewRecord()
	rec.Set("name", String("transfer<&>"))
	rec.Set("big", big)
	rec.Set("pair", Tuple{Number(1), String("a")})
	rec.Set("xs", set)
	rec.Set("m", m)
	rec.Set("gap", Null{})
	rec.Set("u", Unserializable("Nat"))

	out, err := Emit(rec)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "composite-value", out)
}

func TestEmitRoundTripsParse(t *testing.T) {
	// Canonical ITF JSON survives parse+emit byte for byte.
	inputs := []string{
		`null`,
		`42`,
		`-0.25`,
		`"hello"`,
		`[1,2,3]`,
		`{"#bigint":"340282366920938463463374607431768211456"}`,
		`{"#tup":[1,"a",{"#bigint":"-3"}]}`,
		`{"#set":[3,1,2]}`,
		`{"#map":[[{"#tup":[1,2]},"v"],[{"#tup":[2,1]},"w"]]}`,
		`{"#unserializable":"Int"}`,
		`{"z":1,"a":{"#set":[true,false]}}`,
	}
	for _, input := range inputs {
		v, err := ParseValue([]byte(input))
		require.NoError(t, err, "input %q", input)
		out, err := Emit(v)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, input, string(out))
	}
}

func TestEmitBigIntFidelity(t *testing.T) {
	// 253 bits, far past anything float64 can hold.
	lit := "14474011154664524427946373126085988481658748083205070504932198000989141204992"
	b, err := ParseBigInt(lit)
	require.NoError(t, err)

	out, err := Emit(b)
	require.NoError(t, err)
	assert.Equal(t, `{"#bigint":"`+lit+`"}`, string(out))
}
