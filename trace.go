package itf

import (
	"reflect"
	"sort"
)

// Wire keys of the trace envelope. Everything else inside a #meta object
// is preserved verbatim in the Other bag; everything else inside a state
// object is a variable binding.
const (
	metaKey      = "#meta"
	paramsKey    = "params"
	varsKey      = "vars"
	loopIndexKey = "loop_index"
	statesKey    = "states"
)

// TraceMeta is the metadata block of a trace. Unknown keys land in Other
// and are re-emitted on encode, never dropped.
type TraceMeta struct {
	// Description is a free-form description of the trace.
	Description string

	// Source names the specification the trace was produced from.
	Source string

	// VarTypes maps each variable name to its declared type, as reported
	// by the producer.
	VarTypes map[string]string

	// Format identifies the trace format dialect.
	Format string

	// FormatDescription points at the format's documentation.
	FormatDescription string

	// Other holds unrecognized metadata fields.
	Other *Record
}

// StateMeta is the metadata block of a single state.
type StateMeta struct {
	// Index is the state's position as self-reported by the producer.
	// Producers conventionally make it equal to the state's array
	// position, but that is not checked here.
	Index *int

	// Other holds unrecognized metadata fields.
	Other *Record
}

// State is one snapshot of all declared variables, decoded into the
// caller's shape S.
type State[S any] struct {
	Meta  StateMeta
	Value S
}

// Trace is a decoded execution trace: metadata, the declared parameter
// and variable names, an ordered sequence of states, and an optional
// loop-back index marking an infinite lasso.
//
// LoopIndex is advisory: whether it must be less than len(States) is
// unspecified by the format, so it is not validated here.
type Trace[S any] struct {
	Meta      TraceMeta
	Params    []string
	Vars      []string
	LoopIndex *int
	States    []State[S]
}

// DecodeTrace decodes raw ITF JSON into a Trace whose states have shape
// S. The vars and states keys are required; params, loop_index and #meta
// are optional. A failure decoding any state aborts the whole call - a
// partially typed trace is never returned.
func DecodeTrace[S any](data []byte) (*Trace[S], error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	root, ok := v.(*Record)
	if !ok {
		return nil, typeMismatch(nil, "trace object", v)
	}

	var t Trace[S]

	if mv, ok := root.Get(metaKey); ok {
		meta, err := decodeTraceMeta(mv, Path{}.Field(metaKey))
		if err != nil {
			return nil, err
		}
		t.Meta = meta
	}

	if pv, ok := root.Get(paramsKey); ok {
		if err := decodeValue(pv, ptrElem(&t.Params), Path{}.Field(paramsKey)); err != nil {
			return nil, err
		}
	}

	vv, ok := root.Get(varsKey)
	if !ok {
		return nil, newDecodeError(CodeMissingField, nil, "required field %q not found", varsKey)
	}
	if err := decodeValue(vv, ptrElem(&t.Vars), Path{}.Field(varsKey)); err != nil {
		return nil, err
	}

	if lv, ok := root.Get(loopIndexKey); ok {
		idx, err := decodeIndex(lv, Path{}.Field(loopIndexKey))
		if err != nil {
			return nil, err
		}
		t.LoopIndex = &idx
	}

	sv, ok := root.Get(statesKey)
	if !ok {
		return nil, newDecodeError(CodeMissingField, nil, "required field %q not found", statesKey)
	}
	list, ok := sv.(List)
	if !ok {
		return nil, typeMismatch(Path{}.Field(statesKey), "array", sv)
	}
	t.States = make([]State[S], 0, len(list))
	for i, elem := range list {
		st, err := decodeState[S](elem, Path{}.Field(statesKey).Index(i))
		if err != nil {
			return nil, err
		}
		t.States = append(t.States, st)
	}

	return &t, nil
}

func decodeState[S any](v Value, path Path) (State[S], error) {
	var st State[S]

	rec, ok := v.(*Record)
	if !ok {
		return st, typeMismatch(path, "state object", v)
	}

	if mv, ok := rec.Get(metaKey); ok {
		meta, err := decodeStateMeta(mv, path.Field(metaKey))
		if err != nil {
			return st, err
		}
		st.Meta = meta
	}

	// The remaining top-level keys are the variable bindings; whether
	// they match the declared vars is the target shape's concern.
	bindings := NewRecord()
	for k, bv := range rec.All() {
		if k == metaKey {
			continue
		}
		bindings.Set(k, bv)
	}
	if err := decodeValue(bindings, ptrElem(&st.Value), path); err != nil {
		return st, err
	}
	return st, nil
}

func decodeTraceMeta(v Value, path Path) (TraceMeta, error) {
	var meta TraceMeta

	rec, ok := v.(*Record)
	if !ok {
		return meta, typeMismatch(path, "object", v)
	}

	for k, mv := range rec.All() {
		switch k {
		case "description":
			if err := decodeValue(mv, ptrElem(&meta.Description), path.Field(k)); err != nil {
				return meta, err
			}
		case "source":
			if err := decodeValue(mv, ptrElem(&meta.Source), path.Field(k)); err != nil {
				return meta, err
			}
		case "varTypes":
			if err := decodeValue(mv, ptrElem(&meta.VarTypes), path.Field(k)); err != nil {
				return meta, err
			}
		case "format":
			if err := decodeValue(mv, ptrElem(&meta.Format), path.Field(k)); err != nil {
				return meta, err
			}
		case "format-description":
			if err := decodeValue(mv, ptrElem(&meta.FormatDescription), path.Field(k)); err != nil {
				return meta, err
			}
		default:
			if meta.Other == nil {
				meta.Other = NewRecord()
			}
			meta.Other.Set(k, mv)
		}
	}
	return meta, nil
}

func decodeStateMeta(v Value, path Path) (StateMeta, error) {
	var meta StateMeta

	rec, ok := v.(*Record)
	if !ok {
		return meta, typeMismatch(path, "object", v)
	}

	for k, mv := range rec.All() {
		if k == "index" {
			idx, err := decodeIndex(mv, path.Field(k))
			if err != nil {
				return meta, err
			}
			meta.Index = &idx
			continue
		}
		if meta.Other == nil {
			meta.Other = NewRecord()
		}
		meta.Other.Set(k, mv)
	}
	return meta, nil
}

// decodeIndex decodes a non-negative integer (state index or loop index).
func decodeIndex(v Value, path Path) (int, error) {
	var idx int
	if err := decodeValue(v, ptrElem(&idx), path); err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, newDecodeError(CodeTypeMismatch, path, "expected non-negative integer, found %d", idx)
	}
	return idx, nil
}

// EncodeTrace re-serializes a trace to canonical ITF JSON. Given a trace
// that decoded successfully (or was constructed from valid parts),
// DecodeTrace(EncodeTrace(t)) reproduces t.
func EncodeTrace[S any](t *Trace[S]) ([]byte, error) {
	root := NewRecord()

	if mv := encodeTraceMeta(t.Meta); mv.Len() > 0 {
		root.Set(metaKey, mv)
	}
	if len(t.Params) > 0 {
		root.Set(paramsKey, stringList(t.Params))
	}
	root.Set(varsKey, stringList(t.Vars))
	if t.LoopIndex != nil {
		root.Set(loopIndexKey, Number(*t.LoopIndex))
	}

	states := make(List, 0, len(t.States))
	for _, st := range t.States {
		sv, err := encodeState(st)
		if err != nil {
			return nil, err
		}
		states = append(states, sv)
	}
	root.Set(statesKey, states)

	return Emit(root)
}

func encodeState[S any](st State[S]) (Value, error) {
	out := NewRecord()

	if mv := encodeStateMeta(st.Meta); mv.Len() > 0 {
		out.Set(metaKey, mv)
	}

	vv, err := Encode(st.Value)
	if err != nil {
		return nil, err
	}
	bindings, ok := vv.(*Record)
	if !ok {
		return nil, newDecodeError(CodeTypeMismatch, nil,
			"state value must encode to a record, got %s", kindName(vv))
	}
	for k, bv := range bindings.All() {
		out.Set(k, bv)
	}
	return out, nil
}

func encodeTraceMeta(meta TraceMeta) *Record {
	rec := NewRecord()
	if meta.Description != "" {
		rec.Set("description", String(meta.Description))
	}
	if meta.Source != "" {
		rec.Set("source", String(meta.Source))
	}
	if len(meta.VarTypes) > 0 {
		names := make([]string, 0, len(meta.VarTypes))
		for name := range meta.VarTypes {
			names = append(names, name)
		}
		sort.Strings(names)
		vt := NewRecord()
		for _, name := range names {
			vt.Set(name, String(meta.VarTypes[name]))
		}
		rec.Set("varTypes", vt)
	}
	if meta.Format != "" {
		rec.Set("format", String(meta.Format))
	}
	if meta.FormatDescription != "" {
		rec.Set("format-description", String(meta.FormatDescription))
	}
	if meta.Other != nil {
		for k, v := range meta.Other.All() {
			rec.Set(k, v)
		}
	}
	return rec
}

func encodeStateMeta(meta StateMeta) *Record {
	rec := NewRecord()
	if meta.Index != nil {
		rec.Set("index", Number(*meta.Index))
	}
	if meta.Other != nil {
		for k, v := range meta.Other.All() {
			rec.Set(k, v)
		}
	}
	return rec
}

func stringList(ss []string) List {
	out := make(List, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// ptrElem adapts a typed pointer for the internal decode entry point.
func ptrElem[T any](p *T) reflect.Value {
	return reflect.ValueOf(p).Elem()
}
