package analysis

import (
	"math"
	"strconv"
)

// PiEstimate returns the pi approximation implied by a collision total:
// count / sqrt(m2/m1). The estimate converges to pi from below as the mass
// ratio grows by powers of 100.
func PiEstimate(collisions int, massRatio float64) float64 {
	if massRatio <= 0 {
		return 0
	}
	return float64(collisions) / math.Sqrt(massRatio)
}

// ErrorPercent returns the relative error of an estimate against pi, in
// percent.
func ErrorPercent(estimate float64) float64 {
	return 100 * math.Abs(estimate-math.Pi) / math.Pi
}

// ExpectedCollisions returns the theoretical terminal collision count
// floor(pi * sqrt(r)) for a mass ratio r.
func ExpectedCollisions(massRatio float64) int {
	if massRatio <= 0 {
		return 0
	}
	return int(math.Floor(math.Pi * math.Sqrt(massRatio)))
}

// MatchedDigits counts how many leading digits of the estimate agree with
// pi, ignoring the decimal point. For ratio 100^n the answer is usually
// n+1: the count spells out pi's digits.
func MatchedDigits(estimate float64) int {
	if estimate <= 0 {
		return 0
	}
	a := strconv.FormatFloat(estimate, 'f', 15, 64)
	b := strconv.FormatFloat(math.Pi, 'f', 15, 64)
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
		if a[i] != '.' {
			n++
		}
	}
	return n
}
