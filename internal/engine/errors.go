package engine

import "errors"

// Domain errors for simulation configuration.
var (
	// ErrNonPositiveMass indicates a block mass that is zero or negative.
	ErrNonPositiveMass = errors.New("engine: mass must be positive")

	// ErrBlockOrder indicates initial positions that are not 0 <= pos1 < pos2.
	ErrBlockOrder = errors.New("engine: blocks must satisfy 0 <= pos1 < pos2")

	// ErrNotApproaching indicates a starting configuration in which no
	// collision can ever occur.
	ErrNotApproaching = errors.New("engine: configuration is already terminal")

	// ErrPrecisionBounds indicates an invalid denominator limit or
	// simplification interval.
	ErrPrecisionBounds = errors.New("engine: precision parameter out of valid bounds")

	// ErrMaxSteps indicates a non-positive step budget.
	ErrMaxSteps = errors.New("engine: max steps must be positive")
)
