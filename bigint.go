package itf

import (
	"fmt"
	"math"
	"math/big"
)

// BigInt represents an arbitrary-precision integer, the decoded form of a
// #bigint tag. The zero BigInt is zero. BigInt is an immutable value type:
// Big returns a copy, so callers cannot disturb a decoded trace.
type BigInt struct {
	n *big.Int
}

func (BigInt) isValue() {}

// NewBigInt creates a BigInt from an int64.
func NewBigInt(n int64) BigInt {
	return BigInt{n: big.NewInt(n)}
}

// BigIntOf wraps an existing big.Int, copying it.
func BigIntOf(n *big.Int) BigInt {
	if n == nil {
		return BigInt{}
	}
	return BigInt{n: new(big.Int).Set(n)}
}

// ParseBigInt parses an optionally signed decimal literal, the only form
// a #bigint payload may take.
func ParseBigInt(s string) (BigInt, error) {
	if !validBigIntLiteral(s) {
		return BigInt{}, fmt.Errorf("not a decimal integer literal: %q", s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigInt{}, fmt.Errorf("not a decimal integer literal: %q", s)
	}
	return BigInt{n: n}, nil
}

// validBigIntLiteral checks for an optional sign followed by one or more
// decimal digits. big.Int.SetString is laxer than the format allows (it
// accepts underscores with base 0 and whitespace trimming elsewhere), so
// the shape is checked explicitly first.
func validBigIntLiteral(s string) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// UnmarshalITF implements Unmarshaler: a BigInt target accepts a #bigint
// value or an integral plain number.
func (b *BigInt) UnmarshalITF(v Value) error {
	switch val := v.(type) {
	case BigInt:
		*b = val
		return nil
	case Number:
		f := float64(val)
		if f != math.Trunc(f) {
			return newDecodeError(CodeNumericOverflow, nil, "number %v is not an integer", f)
		}
		*b = NewBigInt(int64(f))
		return nil
	default:
		return newDecodeError(CodeTypeMismatch, nil, "expected bigint, found %s", kindName(v))
	}
}

// Big returns a copy of the underlying integer.
func (b BigInt) Big() *big.Int {
	return new(big.Int).Set(b.big())
}

// Int64 returns the value as an int64 and whether it fits.
func (b BigInt) Int64() (int64, bool) {
	n := b.big()
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// Uint64 returns the value as a uint64 and whether it fits.
func (b BigInt) Uint64() (uint64, bool) {
	n := b.big()
	if !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}

// Float64 returns the value as a float64 and whether the conversion is
// exact.
func (b BigInt) Float64() (float64, bool) {
	f, acc := new(big.Float).SetInt(b.big()).Float64()
	return f, acc == big.Exact && !math.IsInf(f, 0)
}

// Cmp compares b and other, returning -1, 0 or +1.
func (b BigInt) Cmp(other BigInt) int {
	return b.big().Cmp(other.big())
}

// String returns the decimal representation, identical to the #bigint
// payload it was decoded from.
func (b BigInt) String() string {
	return b.big().String()
}

func (b BigInt) big() *big.Int {
	if b.n == nil {
		return big.NewInt(0)
	}
	return b.n
}
