// Package itf decodes and encodes model-checker execution traces written
// in the Informal Trace Format (ITF), a JSON dialect that extends plain
// JSON with tagged encodings for values JSON cannot represent natively:
// arbitrary-precision integers, tuples, sets, and maps with non-string
// keys.
//
// The package is built around three layers:
//
//   - Value, a sealed union over every decoded ITF value kind, produced by
//     ParseValue and consumed by Emit.
//   - Decode and Encode, the type-directed bridge between Values and host
//     Go types (structs, slices, maps, big.Int, and the container types
//     Set, Map, Tuple, Record).
//   - Trace and State, the envelope that wraps an ordered sequence of
//     typed states plus metadata.
//
// A consumer declares a Go struct describing one state and decodes a whole
// trace in one step:
//
//	type Bank struct {
//	    WhoIsOnBank *itf.Set[string] `itf:"who_is_on_bank"`
//	    Steps       itf.BigInt       `itf:"steps"`
//	}
//
//	trace, err := itf.DecodeTrace[Bank](data)
//
// When no typed shape is known in advance, decode against *Record to keep
// every state as a generic ordered value tree:
//
//	trace, err := itf.DecodeTrace[*itf.Record](data)
//
// Decoding is strict: reserved tags must carry well-formed payloads,
// duplicate set elements and map keys are rejected, and every error
// reports the path from the trace root to the failing node. Encoding is
// the exact inverse; DecodeTrace(EncodeTrace(t)) reproduces t for every
// validly constructed trace.
package itf
