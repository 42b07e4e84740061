package rational

import (
	"errors"
	"math"
	"testing"
)

func TestLimitDenominatorPi(t *testing.T) {
	pi, err := FromFloat(math.Pi)
	if err != nil {
		t.Fatalf("FromFloat: %v", err)
	}

	tests := []struct {
		name string
		max  int64
		want string
	}{
		{"max 10", 10, "22/7"},
		{"max 100", 100, "311/99"},
		{"max 1000", 1000, "355/113"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pi.LimitDenominator(tt.max)
			if err != nil {
				t.Fatalf("LimitDenominator(%d): %v", tt.max, err)
			}
			if got.String() != tt.want {
				t.Errorf("LimitDenominator(%d) = %s, want %s", tt.max, got, tt.want)
			}
		})
	}
}

func TestLimitDenominatorNegative(t *testing.T) {
	pi, _ := FromFloat(math.Pi)
	got, err := pi.Neg().LimitDenominator(10)
	if err != nil {
		t.Fatalf("LimitDenominator: %v", err)
	}
	if got.String() != "-22/7" {
		t.Errorf("got %s, want -22/7", got)
	}
}

func TestLimitDenominatorIdempotent(t *testing.T) {
	v, err := New(355, 113)
	if err != nil {
		t.Fatal(err)
	}

	// Already within the bound: identity.
	got, err := v.LimitDenominator(113)
	if err != nil {
		t.Fatalf("LimitDenominator: %v", err)
	}
	if !got.Equal(v) {
		t.Errorf("expected identity, got %s", got)
	}

	// Applying the same bound twice gives the same value.
	pi, _ := FromFloat(math.Pi)
	once, _ := pi.LimitDenominator(1000)
	twice, _ := once.LimitDenominator(1000)
	if !once.Equal(twice) {
		t.Errorf("not idempotent: %s then %s", once, twice)
	}
}

func TestLimitDenominatorTie(t *testing.T) {
	// 3/2 is equidistant from 1 and 2; the convergent wins the tie.
	v, _ := New(3, 2)
	got, err := v.LimitDenominator(1)
	if err != nil {
		t.Fatalf("LimitDenominator: %v", err)
	}
	if got.String() != "1" {
		t.Errorf("got %s, want 1", got)
	}
}

func TestLimitDenominatorBound(t *testing.T) {
	v, _ := New(1, 3)
	for _, max := range []int64{0, -1} {
		if _, err := v.LimitDenominator(max); !errors.Is(err, ErrLimitBound) {
			t.Errorf("LimitDenominator(%d): expected ErrLimitBound, got %v", max, err)
		}
	}
}

func TestLimitDenominatorErrorBound(t *testing.T) {
	// The returned approximation is the best one: within 1/(max*denom) of
	// the true value for any bound.
	v, _ := New(1234567, 7654321)
	approx, err := v.LimitDenominator(100)
	if err != nil {
		t.Fatal(err)
	}
	if approx.Denom().Int64() > 100 {
		t.Fatalf("denominator %s exceeds bound", approx.Denom())
	}
	diff := approx.Sub(v).Abs().Float64()
	if diff > 1.0/100.0 {
		t.Errorf("approximation error %v too large", diff)
	}
}
