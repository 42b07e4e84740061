package rational

import "errors"

// Domain errors for rational arithmetic.
var (
	// ErrDivisionByZero indicates division by an exactly-zero value.
	ErrDivisionByZero = errors.New("rational: division by zero")

	// ErrZeroDenominator indicates a constructor received a zero denominator.
	ErrZeroDenominator = errors.New("rational: zero denominator")

	// ErrNotFinite indicates a float conversion from NaN or Inf.
	ErrNotFinite = errors.New("rational: value is not finite")

	// ErrLimitBound indicates a denominator limit below one.
	ErrLimitBound = errors.New("rational: denominator limit must be at least 1")

	// ErrParse indicates an unparseable rational literal.
	ErrParse = errors.New("rational: malformed literal")
)
