// Package rational provides exact rational arithmetic for the collision engine.
//
// The package wraps [math/big.Rat] in an immutable value type:
//
//   - [Value]: a rational number, always stored in lowest terms
//   - arithmetic (Add, Sub, Mul, Div, Neg, Abs) never loses exactness
//   - [Value.LimitDenominator]: best rational approximation under a
//     denominator bound, for capping cost in long-running simulations
//
// # Exactness
//
// Every operation except an explicit LimitDenominator call produces an
// exact result. Division by zero is the only failing arithmetic operation
// and returns [ErrDivisionByZero].
//
// # Immutability
//
// Value is safe to copy and compare through its methods. Operations return
// new values and never modify their receivers, so a Value can be shared
// freely across snapshots of simulation state.
package rational
