package itf

// Value is a sealed interface over every ITF value kind. Only Null, Bool,
// Number, String, BigInt, List, Tuple, *Record, *Set[Value],
// *Map[Value, Value], and Unserializable implement it.
//
// Null, Bool, Number, String, List and Record are the plain JSON kinds;
// BigInt, Tuple, Set and Map are the ITF extended kinds, recognized on the
// wire only by their reserved single-key tag objects.
type Value interface {
	isValue() // Sealed - only these types implement it
}

// Null represents a JSON null value.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) isValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) isValue() {}

// Number represents a JSON number. ITF numbers are 64-bit; integers
// outside the float64-exact range must be written as #bigint, and
// ParseValue rejects plain integer literals beyond that range.
type Number float64

func (Number) isValue() {}

// String represents a string value.
type String string

func (String) isValue() {}

// List represents a plain JSON array of Values.
type List []Value

func (List) isValue() {}

// Tuple represents an ITF tuple: a fixed-arity ordered sequence. On the
// wire it is the payload of a #tup tag. Arity is enforced when a Tuple is
// decoded into a fixed-size host shape, not here.
type Tuple []Value

func (Tuple) isValue() {}

// Unserializable marks a value the trace producer could not encode. The
// string is the producer's opaque description. It decodes only into Value
// or Unserializable targets; anything else fails with
// UNREPRESENTABLE_VALUE.
type Unserializable string

func (Unserializable) isValue() {}

// Equal reports structural equality of two Values. Set and Map contents
// compare order-independently; Record fields compare by key set, not by
// insertion order. Values of different kinds are never equal (Number(1)
// and a #bigint 1 are distinct).
func Equal(a, b Value) bool {
	return identityKey(a) == identityKey(b)
}

// kindName names a Value's kind for error messages.
func kindName(v Value) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case BigInt:
		return "bigint"
	case List:
		return "list"
	case Tuple:
		return "tuple"
	case *Record:
		return "record"
	case Unserializable:
		return "unserializable"
	default:
		if _, ok := v.(*Set[Value]); ok {
			return "set"
		}
		if _, ok := v.(*Map[Value, Value]); ok {
			return "map"
		}
		return "unknown"
	}
}
