package rational

import (
	"math"
	"math/big"
)

// Value is an exact rational number in lowest terms with a positive
// denominator. The zero Value is 0. Operations return new values and never
// modify the receiver.
type Value struct {
	rat big.Rat
}

// FromInt returns the value n/1.
func FromInt(n int64) Value {
	var v Value
	v.rat.SetInt64(n)
	return v
}

// New returns the value num/den reduced to lowest terms.
func New(num, den int64) (Value, error) {
	if den == 0 {
		return Value{}, ErrZeroDenominator
	}
	var v Value
	v.rat.SetFrac64(num, den)
	return v, nil
}

// FromFloat returns the exact rational value of f. Note that this is the
// exact binary value, not the decimal literal it was written as: use
// LimitDenominator afterwards to recover a small-denominator form.
func FromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, ErrNotFinite
	}
	var v Value
	v.rat.SetFloat64(f)
	return v, nil
}

// Parse reads a rational from a string in "a/b", integer, decimal, or
// exponent form, as accepted by [big.Rat.SetString].
func Parse(s string) (Value, error) {
	var v Value
	if _, ok := v.rat.SetString(s); !ok {
		return Value{}, ErrParse
	}
	return v, nil
}

// Zero returns the additive identity.
func Zero() Value { return Value{} }

// One returns the multiplicative identity.
func One() Value { return FromInt(1) }

// Add returns v + w.
func (v Value) Add(w Value) Value {
	var out Value
	out.rat.Add(&v.rat, &w.rat)
	return out
}

// Sub returns v - w.
func (v Value) Sub(w Value) Value {
	var out Value
	out.rat.Sub(&v.rat, &w.rat)
	return out
}

// Mul returns v * w.
func (v Value) Mul(w Value) Value {
	var out Value
	out.rat.Mul(&v.rat, &w.rat)
	return out
}

// Div returns v / w, or ErrDivisionByZero when w is zero.
func (v Value) Div(w Value) (Value, error) {
	if w.rat.Sign() == 0 {
		return Value{}, ErrDivisionByZero
	}
	var out Value
	out.rat.Quo(&v.rat, &w.rat)
	return out, nil
}

// Neg returns -v.
func (v Value) Neg() Value {
	var out Value
	out.rat.Neg(&v.rat)
	return out
}

// Abs returns |v|.
func (v Value) Abs() Value {
	var out Value
	out.rat.Abs(&v.rat)
	return out
}

// Sign returns -1, 0, or +1 according to the sign of v.
func (v Value) Sign() int { return v.rat.Sign() }

// Cmp compares v and w, returning -1, 0, or +1.
func (v Value) Cmp(w Value) int { return v.rat.Cmp(&w.rat) }

// Equal reports whether v and w are the same rational number.
func (v Value) Equal(w Value) bool { return v.Cmp(w) == 0 }

// Less reports v < w.
func (v Value) Less(w Value) bool { return v.Cmp(w) < 0 }

// LessOrEqual reports v <= w.
func (v Value) LessOrEqual(w Value) bool { return v.Cmp(w) <= 0 }

// IsZero reports whether v is exactly zero.
func (v Value) IsZero() bool { return v.rat.Sign() == 0 }

// Float64 returns the nearest float64 to v.
func (v Value) Float64() float64 {
	f, _ := v.rat.Float64()
	return f
}

// Num returns a copy of the numerator.
func (v Value) Num() *big.Int { return new(big.Int).Set(v.rat.Num()) }

// Denom returns a copy of the denominator. It is always positive.
func (v Value) Denom() *big.Int { return new(big.Int).Set(v.rat.Denom()) }

// String returns "a/b", or just "a" when the denominator is 1.
func (v Value) String() string { return v.rat.RatString() }
