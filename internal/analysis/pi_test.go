package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/piblocks/internal/engine"
)

func TestPiEstimate(t *testing.T) {
	tests := []struct {
		name       string
		collisions int
		ratio      float64
		want       float64
	}{
		{"ratio 1", 3, 1, 3.0},
		{"ratio 100", 31, 100, 3.1},
		{"ratio 10000", 314, 10000, 3.14},
		{"zero ratio", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PiEstimate(tt.collisions, tt.ratio)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("PiEstimate(%d, %v) = %v, want %v", tt.collisions, tt.ratio, got, tt.want)
			}
		})
	}
}

func TestExpectedCollisions(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{1, 3},
		{100, 31},
		{10000, 314},
		{1e6, 3141},
		{1e8, 31415},
		{0, 0},
	}

	for _, tt := range tests {
		if got := ExpectedCollisions(tt.ratio); got != tt.want {
			t.Errorf("ExpectedCollisions(%v) = %d, want %d", tt.ratio, got, tt.want)
		}
	}
}

func TestErrorPercent(t *testing.T) {
	if got := ErrorPercent(math.Pi); got != 0 {
		t.Errorf("ErrorPercent(pi) = %v, want 0", got)
	}
	if got := ErrorPercent(3.1); got <= 0 || got > 2 {
		t.Errorf("ErrorPercent(3.1) = %v, want a small positive percent", got)
	}
}

func TestMatchedDigits(t *testing.T) {
	tests := []struct {
		name     string
		estimate float64
		want     int
	}{
		{"ratio 1 estimate", 3.0, 1},
		{"ratio 100 estimate", 3.1, 2},
		{"ratio 10000 estimate", 3.14, 3},
		{"non-positive", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchedDigits(tt.estimate); got != tt.want {
				t.Errorf("MatchedDigits(%v) = %d, want %d", tt.estimate, got, tt.want)
			}
		})
	}
}

func TestSweep(t *testing.T) {
	base := engine.DefaultConfig()
	base.MaxDenominator = 0
	cfgs := ConfigsForRatios(base, []int64{1, 100, 10000})

	points := Sweep(context.Background(), cfgs, 1_000_000)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	wants := []int{3, 31, 314}
	for i, p := range points {
		if p.Err != nil {
			t.Fatalf("point %d: %v", i, p.Err)
		}
		if !p.Result.Complete {
			t.Errorf("point %d: not complete", i)
		}
		if p.Result.Total != wants[i] {
			t.Errorf("point %d: total = %d, want %d", i, p.Result.Total, wants[i])
		}
		if p.Expected != wants[i] {
			t.Errorf("point %d: expected = %d, want %d", i, p.Expected, wants[i])
		}
	}
}

func TestSweepBadConfig(t *testing.T) {
	bad := engine.DefaultConfig()
	bad.Mass1 = engine.DefaultConfig().Mass1.Neg()

	points := Sweep(context.Background(), []engine.Config{bad}, 100)
	if points[0].Err == nil {
		t.Error("expected error for invalid config")
	}
}
