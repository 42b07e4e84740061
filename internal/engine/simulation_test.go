package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/piblocks/internal/rational"
)

// exactConfig builds an unlimited-precision scenario with the classic
// geometry and the given mass ratio.
func exactConfig(massRatio int64) Config {
	cfg := DefaultConfig()
	cfg.Mass2 = rational.FromInt(massRatio)
	cfg.MaxDenominator = 0
	return cfg
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero mass1", func(c *Config) { c.Mass1 = rational.Zero() }, ErrNonPositiveMass},
		{"negative mass2", func(c *Config) { c.Mass2 = rational.FromInt(-3) }, ErrNonPositiveMass},
		{"negative pos1", func(c *Config) { c.Pos1 = rational.FromInt(-1) }, ErrBlockOrder},
		{"pos2 behind pos1", func(c *Config) { c.Pos2 = rational.FromInt(100) }, ErrBlockOrder},
		{"pos2 equals pos1", func(c *Config) { c.Pos2 = c.Pos1 }, ErrBlockOrder},
		{"receding block2", func(c *Config) { c.Vel2 = rational.FromInt(5) }, ErrNotApproaching},
		{"stationary block2", func(c *Config) { c.Vel2 = rational.Zero() }, ErrNotApproaching},
		{"negative limit", func(c *Config) { c.MaxDenominator = -1 }, ErrPrecisionBounds},
		{"negative interval", func(c *Config) { c.SimplifyEvery = -1 }, ErrPrecisionBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCollisionCounts(t *testing.T) {
	tests := []struct {
		name      string
		massRatio int64
		want      int
	}{
		{"equal masses", 1, 3},
		{"ratio 100", 100, 31},
		{"ratio 10000", 10000, 314},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := New(exactConfig(tt.massRatio))
			if err != nil {
				t.Fatalf("new: %v", err)
			}

			result, err := sim.RunToCompletion(context.Background(), 1_000_000)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !result.Complete {
				t.Fatal("expected terminal state")
			}
			if result.Total != tt.want {
				t.Errorf("total collisions = %d, want %d", result.Total, tt.want)
			}
			if result.Wall+result.Block != result.Total {
				t.Errorf("counter split %d+%d != %d", result.Wall, result.Block, result.Total)
			}
		})
	}
}

func TestCollisionCountLimitedPrecision(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large mass ratio in short mode")
	}

	// The classic 10^6 ratio run with the denominator bound the original
	// demonstration uses. 3141 collisions: the first digits of pi.
	cfg := DefaultConfig()
	cfg.Mass2 = rational.FromInt(1_000_000)

	sim, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	result, err := sim.RunToCompletion(context.Background(), 1_000_000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Total != 3141 {
		t.Errorf("total collisions = %d, want 3141", result.Total)
	}
}

func TestStepInvariants(t *testing.T) {
	sim, err := New(exactConfig(100))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	prevTime := sim.Elapsed()
	prevTotal := 0
	zero := rational.Zero()

	for {
		ev, ok := sim.Step()
		if !ok {
			break
		}

		if ev.Time.Less(prevTime) {
			t.Fatalf("event %d: time went backwards (%s < %s)", ev.Seq, ev.Time, prevTime)
		}
		if ev.Seq != prevTotal+1 {
			t.Fatalf("event sequence jumped from %d to %d", prevTotal, ev.Seq)
		}
		b1, b2 := sim.Block1(), sim.Block2()
		if b1.Pos.Less(zero) {
			t.Fatalf("event %d: block1 behind the wall at %s", ev.Seq, b1.Pos)
		}
		if b2.Pos.Less(b1.Pos) {
			t.Fatalf("event %d: blocks out of order (%s > %s)", ev.Seq, b1.Pos, b2.Pos)
		}

		prevTime = ev.Time
		prevTotal = ev.Seq
	}
}

func TestExactConservation(t *testing.T) {
	sim, err := New(exactConfig(100))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	e0 := sim.InitialEnergy()

	for {
		before := sim.Momentum()
		ev, ok := sim.Step()
		if !ok {
			break
		}
		// Energy is conserved by every event; momentum only across
		// block-block collisions (the wall absorbs momentum).
		if !sim.Energy().Equal(e0) {
			t.Fatalf("event %d (%s): energy %s != %s", ev.Seq, ev.Kind, sim.Energy(), e0)
		}
		if ev.Kind == BlockCollision && !sim.Momentum().Equal(before) {
			t.Fatalf("event %d: momentum %s != %s", ev.Seq, sim.Momentum(), before)
		}
	}
}

func TestTerminalStepIsNoOp(t *testing.T) {
	sim, err := New(exactConfig(1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := sim.RunToCompletion(context.Background(), 100); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !sim.IsTerminal() {
		t.Fatal("expected terminal state")
	}

	before := *sim
	for i := 0; i < 3; i++ {
		if _, ok := sim.Step(); ok {
			t.Fatal("Step returned an event on a terminal state")
		}
	}
	after := *sim

	if !before.b1.Pos.Equal(after.b1.Pos) || !before.b1.Vel.Equal(after.b1.Vel) ||
		!before.b2.Pos.Equal(after.b2.Pos) || !before.b2.Vel.Equal(after.b2.Vel) ||
		!before.elapsed.Equal(after.elapsed) || before.total != after.total {
		t.Error("terminal Step modified state")
	}
}

func TestImmediateWallBounce(t *testing.T) {
	// Block one resting against the wall: the first block collision throws
	// it inward, and the wall bounce happens with zero time-to-event.
	cfg := exactConfig(1)
	cfg.Pos1 = rational.Zero()

	sim, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ev1, ok := sim.Step()
	if !ok || ev1.Kind != BlockCollision {
		t.Fatalf("expected block collision first, got %v", ev1.Kind)
	}
	ev2, ok := sim.Step()
	if !ok || ev2.Kind != WallCollision {
		t.Fatalf("expected wall collision second, got %v", ev2.Kind)
	}
	if !ev2.Time.Equal(ev1.Time) {
		t.Errorf("wall bounce should be instantaneous: %s != %s", ev2.Time, ev1.Time)
	}

	result, err := sim.RunToCompletion(context.Background(), 100)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Block, wall, block: all at the same point, same as the equal-mass
	// count when the gap is nonzero.
	if result.Total != 3 {
		t.Errorf("total collisions = %d, want 3", result.Total)
	}
}

func TestRunToCompletionBudget(t *testing.T) {
	sim, err := New(exactConfig(10000))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	result, err := sim.RunToCompletion(context.Background(), 5)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Complete {
		t.Error("expected partial result")
	}
	if result.Steps != 5 || result.Total != 5 {
		t.Errorf("steps = %d, total = %d, want 5 each", result.Steps, result.Total)
	}

	// The budget is a bound, not a failure.
	if _, err := sim.RunToCompletion(context.Background(), 0); !errors.Is(err, ErrMaxSteps) {
		t.Errorf("expected ErrMaxSteps, got %v", err)
	}
}

func TestRunToCompletionCanceled(t *testing.T) {
	sim, err := New(exactConfig(10000))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.RunToCompletion(ctx, 1_000_000)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("expected partial result on cancellation")
	}
}

func TestReset(t *testing.T) {
	sim, err := New(exactConfig(100))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := 0; i < 10; i++ {
		sim.Step()
	}
	sim.Reset()

	if _, _, total := sim.Counts(); total != 0 {
		t.Errorf("counter not reset: %d", total)
	}
	if !sim.Elapsed().IsZero() {
		t.Errorf("elapsed not reset: %s", sim.Elapsed())
	}
	if !sim.Block1().Pos.Equal(rational.FromInt(150)) {
		t.Errorf("block1 position not reset: %s", sim.Block1().Pos)
	}
	if !sim.Block2().Vel.Equal(rational.FromInt(-5)) {
		t.Errorf("block2 velocity not reset: %s", sim.Block2().Vel)
	}
}

func TestSetMaxDenominator(t *testing.T) {
	sim, err := New(exactConfig(10000))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := sim.SetMaxDenominator(-5); !errors.Is(err, ErrPrecisionBounds) {
		t.Errorf("expected ErrPrecisionBounds, got %v", err)
	}

	for i := 0; i < 50; i++ {
		sim.Step()
	}
	if err := sim.SetMaxDenominator(1000); err != nil {
		t.Fatalf("set: %v", err)
	}
	if sim.Block1().Vel.Denom().Int64() > 1000 {
		t.Errorf("velocity denominator %s not limited", sim.Block1().Vel.Denom())
	}
	if sim.Block1().Pos.Sign() < 0 || sim.Block2().Pos.Less(sim.Block1().Pos) {
		t.Error("ordering invariant broken after limiting")
	}
}

func TestMassRatio(t *testing.T) {
	sim, err := New(exactConfig(10000))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := sim.MassRatio(); got != 10000 {
		t.Errorf("mass ratio = %v, want 10000", got)
	}
}

func TestSnapshot(t *testing.T) {
	sim, err := New(exactConfig(100))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	snap := sim.Snapshot()
	if snap.X1 != 150 || snap.X2 != 600 || snap.V2 != -5 || snap.V1 != 0 {
		t.Errorf("unexpected initial snapshot: %+v", snap)
	}
	if snap.Terminal {
		t.Error("initial state must not be terminal")
	}
}
