package itf

import (
	"math/big"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterTrace = `{
  "#meta": {
    "format": "ITF",
    "format-description": "https://apalache-mc.org/docs/adr/015adr-trace.html",
    "source": "Counter.tla",
    "description": "a counter that increments",
    "varTypes": {"x": "Int"}
  },
  "params": ["N"],
  "vars": ["x"],
  "states": [
    {"#meta": {"index": 0}, "x": {"#bigint": "0"}},
    {"#meta": {"index": 1}, "x": {"#bigint": "1"}}
  ]
}`

func TestDecodeTraceTyped(t *testing.T) {
	type counter struct {
		X big.Int `itf:"x"`
	}

	tr, err := DecodeTrace[counter](([]byte)(counterTrace))
	require.NoError(t, err)

	assert.Equal(t, "ITF", tr.Meta.Format)
	assert.Equal(t, "Counter.tla", tr.Meta.Source)
	assert.Equal(t, "a counter that increments", tr.Meta.Description)
	assert.Equal(t, map[string]string{"x": "Int"}, tr.Meta.VarTypes)
	assert.Equal(t, []string{"N"}, tr.Params)
	assert.Equal(t, []string{"x"}, tr.Vars)
	assert.Nil(t, tr.LoopIndex)

	require.Len(t, tr.States, 2)
	assert.Equal(t, "0", tr.States[0].Value.X.String())
	assert.Equal(t, "1", tr.States[1].Value.X.String())
	require.NotNil(t, tr.States[1].Meta.Index)
	assert.Equal(t, 1, *tr.States[1].Meta.Index)
}

func TestDecodeTraceGeneric(t *testing.T) {
	tr, err := DecodeTrace[*Record]([]byte(counterTrace))
	require.NoError(t, err)

	require.Len(t, tr.States, 2)
	x, ok := tr.States[0].Value.Get("x")
	require.True(t, ok)
	assert.True(t, Equal(NewBigInt(0), x))
}

func TestDecodeTraceRequiredKeys(t *testing.T) {
	_, err := DecodeTrace[*Record]([]byte(`{"states": []}`))
	require.Error(t, err)
	assert.Equal(t, CodeMissingField, CodeOf(err))
	assert.Contains(t, err.Error(), "vars")

	_, err = DecodeTrace[*Record]([]byte(`{"vars": ["x"]}`))
	require.Error(t, err)
	assert.Equal(t, CodeMissingField, CodeOf(err))
	assert.Contains(t, err.Error(), "states")
}

func TestDecodeTraceEmptyStates(t *testing.T) {
	tr, err := DecodeTrace[*Record]([]byte(`{"vars": ["x"], "states": []}`))
	require.NoError(t, err)
	assert.Empty(t, tr.States)
}

func TestDecodeTraceLoopIndex(t *testing.T) {
	tr, err := DecodeTrace[*Record]([]byte(
		`{"vars": ["x"], "loop_index": 1, "states": [{"x": 0}, {"x": 1}, {"x": 0}]}`))
	require.NoError(t, err)
	require.NotNil(t, tr.LoopIndex)
	assert.Equal(t, 1, *tr.LoopIndex)

	_, err = DecodeTrace[*Record]([]byte(`{"vars": [], "loop_index": -1, "states": []}`))
	require.Error(t, err)
	assert.Equal(t, CodeTypeMismatch, CodeOf(err))
}

func TestDecodeTraceBadStateAborts(t *testing.T) {
	type counter struct {
		X int `itf:"x"`
	}
	_, err := DecodeTrace[counter]([]byte(
		`{"vars": ["x"], "states": [{"x": 0}, {"x": "oops"}]}`))
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeTypeMismatch, de.Code)
	assert.Equal(t, "states[1].x", de.Path.String())
}

func TestTraceMetaUnknownKeysPreserved(t *testing.T) {
	input := `{"#meta": {"source": "A.tla", "foo": "bar"}, "vars": [], "states": []}`
	tr, err := DecodeTrace[*Record]([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "A.tla", tr.Meta.Source)
	require.NotNil(t, tr.Meta.Other)
	v, ok := tr.Meta.Other.Get("foo")
	require.True(t, ok)
	assert.True(t, Equal(String("bar"), v))

	out, err := EncodeTrace(tr)
	require.NoError(t, err)
	back, err := DecodeTrace[*Record](out)
	require.NoError(t, err)
	require.NotNil(t, back.Meta.Other)
	v, ok = back.Meta.Other.Get("foo")
	require.True(t, ok)
	assert.True(t, Equal(String("bar"), v))
}

func TestStateMetaUnknownKeysPreserved(t *testing.T) {
	input := `{"vars": ["x"], "states": [{"#meta": {"index": 0, "note": "start"}, "x": 1}]}`
	tr, err := DecodeTrace[*Record]([]byte(input))
	require.NoError(t, err)

	require.Len(t, tr.States, 1)
	require.NotNil(t, tr.States[0].Meta.Other)
	v, ok := tr.States[0].Meta.Other.Get("note")
	require.True(t, ok)
	assert.True(t, Equal(String("start"), v))
}

func TestEncodeTraceRoundTrip(t *testing.T) {
	type counter struct {
		X big.Int `itf:"x"`
	}

	tr, err := DecodeTrace[counter]([]byte(counterTrace))
	require.NoError(t, err)

	out, err := EncodeTrace(tr)
	require.NoError(t, err)

	back, err := DecodeTrace[counter](out)
	require.NoError(t, err)
	assert.Equal(t, tr.Meta, back.Meta)
	assert.Equal(t, tr.Params, back.Params)
	assert.Equal(t, tr.Vars, back.Vars)
	require.Len(t, back.States, 2)
	assert.Equal(t, "1", back.States[1].Value.X.String())
}

func TestEncodeTraceGolden(t *testing.T) {
	idx0, idx1, loop := 0, 1, 0
	tr := &Trace[*Record]{
		Meta: TraceMeta{
			Description: "two increments",
			Source:      "Counter.tla",
			VarTypes:    map[string]string{"x": "Int"},
			Format:      "ITF",
		},
		Params:    []string{"N"},
		Vars:      []string{"x"},
		LoopIndex: &loop,
	}

	s0 := NewRecord()
	s0.Set("x", NewBigInt(0))
	s1 := NewRecord()
	s1.Set("x", NewBigInt(1))
	tr.States = []State[*Record]{
		{Meta: StateMeta{Index: &idx0}, Value: s0},
		{Meta: StateMeta{Index: &idx1}, Value: s1},
	}

	out, err := EncodeTrace(tr)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "counter-trace", out)
}
