package engine

import (
	"context"
	"fmt"

	"github.com/san-kum/piblocks/internal/rational"
)

// Simulation holds the state of the two blocks and advances it one exact
// collision event at a time.
type Simulation struct {
	cfg Config

	b1, b2  Block
	elapsed rational.Value

	wall  int
	block int
	total int

	maxDen        int64
	simplifyEvery int
	sinceSimplify int

	initialMomentum rational.Value
	initialEnergy   rational.Value
}

// New validates cfg and builds the initial state. When a denominator limit
// is configured the initial conditions pass through it once, matching the
// bound the simulation will run under.
func New(cfg Config) (*Simulation, error) {
	if cfg.Mass1.Sign() <= 0 {
		return nil, fmt.Errorf("%w: mass1 = %s", ErrNonPositiveMass, cfg.Mass1)
	}
	if cfg.Mass2.Sign() <= 0 {
		return nil, fmt.Errorf("%w: mass2 = %s", ErrNonPositiveMass, cfg.Mass2)
	}
	if cfg.Pos1.Sign() < 0 || cfg.Pos2.LessOrEqual(cfg.Pos1) {
		return nil, fmt.Errorf("%w: pos1 = %s, pos2 = %s", ErrBlockOrder, cfg.Pos1, cfg.Pos2)
	}
	// Block one starts at rest, so a collision is only reachable when
	// block two moves toward it.
	if cfg.Vel2.Sign() >= 0 {
		return nil, fmt.Errorf("%w: vel2 = %s", ErrNotApproaching, cfg.Vel2)
	}
	if cfg.MaxDenominator < 0 {
		return nil, fmt.Errorf("%w: max denominator %d", ErrPrecisionBounds, cfg.MaxDenominator)
	}
	if cfg.SimplifyEvery < 0 {
		return nil, fmt.Errorf("%w: simplify interval %d", ErrPrecisionBounds, cfg.SimplifyEvery)
	}
	if cfg.SimplifyEvery == 0 {
		cfg.SimplifyEvery = DefaultSimplifyEvery
	}

	s := &Simulation{
		cfg:           cfg,
		b1:            Block{Mass: cfg.Mass1, Pos: cfg.Pos1, Vel: rational.Zero()},
		b2:            Block{Mass: cfg.Mass2, Pos: cfg.Pos2, Vel: cfg.Vel2},
		maxDen:        cfg.MaxDenominator,
		simplifyEvery: cfg.SimplifyEvery,
	}
	if s.maxDen > 0 {
		s.simplify()
	}
	s.initialMomentum = s.Momentum()
	s.initialEnergy = s.Energy()
	return s, nil
}

// Reset reinitializes the simulation from its original configuration.
func (s *Simulation) Reset() {
	ns, err := New(s.cfg)
	if err != nil {
		// cfg was validated when s was built.
		panic(fmt.Sprintf("engine: reset with invalid config: %v", err))
	}
	*s = *ns
}

// IsTerminal reports whether any further collision is possible. Once block
// one moves away from the wall no slower than block two chases it, the
// blocks separate forever: the billiard termination argument.
func (s *Simulation) IsTerminal() bool {
	return s.b1.Vel.Sign() >= 0 && s.b1.Vel.LessOrEqual(s.b2.Vel)
}

// Step determines and applies exactly one collision event. It returns
// false, with the state untouched, when the simulation is terminal.
func (s *Simulation) Step() (Event, bool) {
	if s.IsTerminal() {
		return Event{}, false
	}

	var wallT, blockT rational.Value
	haveWall := s.b1.Vel.Sign() < 0
	if haveWall {
		// pos1 = 0 with an inbound velocity is an immediate bounce.
		wallT, _ = s.b1.Pos.Div(s.b1.Vel.Neg())
	}
	closing := s.b1.Vel.Sub(s.b2.Vel)
	haveBlock := closing.Sign() > 0
	if haveBlock {
		blockT, _ = s.b2.Pos.Sub(s.b1.Pos).Div(closing)
	}

	// Not terminal, so at least one candidate exists. A simultaneous wall
	// and block collision resolves to the wall; the fixed rule keeps
	// collision counts reproducible.
	kind := WallCollision
	dt := wallT
	if !haveWall || (haveBlock && blockT.Less(wallT)) {
		kind = BlockCollision
		dt = blockT
	}

	s.b1.Pos = s.b1.Pos.Add(s.b1.Vel.Mul(dt))
	s.b2.Pos = s.b2.Pos.Add(s.b2.Vel.Mul(dt))
	s.elapsed = s.elapsed.Add(dt)

	switch kind {
	case WallCollision:
		s.b1.Vel = s.b1.Vel.Neg()
		s.b1.Pos = rational.Zero()
		s.wall++
	case BlockCollision:
		v1, v2 := s.b1.Vel, s.b2.Vel
		m1, m2 := s.b1.Mass, s.b2.Mass
		sum := m1.Add(m2)
		two := rational.FromInt(2)

		// 1-D elastic response; conserves momentum and kinetic energy
		// exactly in rational arithmetic.
		n1 := m1.Sub(m2).Mul(v1).Add(two.Mul(m2).Mul(v2))
		n2 := m2.Sub(m1).Mul(v2).Add(two.Mul(m1).Mul(v1))
		s.b1.Vel, _ = n1.Div(sum)
		s.b2.Vel, _ = n2.Div(sum)
		s.block++
	}
	s.total++

	if s.maxDen > 0 {
		s.sinceSimplify++
		if s.sinceSimplify >= s.simplifyEvery {
			s.simplify()
			s.sinceSimplify = 0
		}
	}

	return Event{
		Seq:    s.total,
		Kind:   kind,
		Time:   s.elapsed,
		Block1: s.b1,
		Block2: s.b2,
	}, true
}

// RunToCompletion steps until the terminal state or until maxSteps events
// have been applied. Exhausting the budget is not an error: the Result
// reports Complete = false with the counts so far. Cancellation returns
// the partial result alongside the context error.
func (s *Simulation) RunToCompletion(ctx context.Context, maxSteps int) (*Result, error) {
	if maxSteps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrMaxSteps, maxSteps)
	}

	steps := 0
	for steps < maxSteps {
		select {
		case <-ctx.Done():
			return s.result(steps), ctx.Err()
		default:
		}

		if _, ok := s.Step(); !ok {
			break
		}
		steps++
	}

	return s.result(steps), nil
}

func (s *Simulation) result(steps int) *Result {
	return &Result{
		Wall:     s.wall,
		Block:    s.block,
		Total:    s.total,
		Steps:    steps,
		Elapsed:  s.elapsed,
		Complete: s.IsTerminal(),
	}
}

// simplify passes positions and velocities through the denominator bound,
// then clamps the ordering invariants the rounding may have disturbed.
// Elapsed time is never limited, so it stays monotonic.
func (s *Simulation) simplify() {
	s.b1.Pos, _ = s.b1.Pos.LimitDenominator(s.maxDen)
	s.b1.Vel, _ = s.b1.Vel.LimitDenominator(s.maxDen)
	s.b2.Pos, _ = s.b2.Pos.LimitDenominator(s.maxDen)
	s.b2.Vel, _ = s.b2.Vel.LimitDenominator(s.maxDen)

	if s.b1.Pos.Sign() < 0 {
		s.b1.Pos = rational.Zero()
	}
	if s.b2.Pos.Less(s.b1.Pos) {
		s.b2.Pos = s.b1.Pos
	}
}

// Block1 returns a copy of the first block (the one nearest the wall).
func (s *Simulation) Block1() Block { return s.b1 }

// Block2 returns a copy of the second block.
func (s *Simulation) Block2() Block { return s.b2 }

// Counts returns the wall, block-block, and total collision counters.
func (s *Simulation) Counts() (wall, block, total int) {
	return s.wall, s.block, s.total
}

// Elapsed returns the exact simulation time.
func (s *Simulation) Elapsed() rational.Value { return s.elapsed }

// MassRatio returns m2/m1 as a float for presentation.
func (s *Simulation) MassRatio() float64 {
	r, _ := s.b2.Mass.Div(s.b1.Mass)
	return r.Float64()
}

// Momentum returns the exact total momentum m1*v1 + m2*v2.
func (s *Simulation) Momentum() rational.Value {
	return s.b1.Mass.Mul(s.b1.Vel).Add(s.b2.Mass.Mul(s.b2.Vel))
}

// Energy returns the exact total kinetic energy (m1*v1^2 + m2*v2^2)/2.
func (s *Simulation) Energy() rational.Value {
	e := s.b1.Mass.Mul(s.b1.Vel).Mul(s.b1.Vel).Add(s.b2.Mass.Mul(s.b2.Vel).Mul(s.b2.Vel))
	half, _ := rational.New(1, 2)
	return e.Mul(half)
}

// InitialMomentum returns the momentum at initialization time.
func (s *Simulation) InitialMomentum() rational.Value { return s.initialMomentum }

// InitialEnergy returns the kinetic energy at initialization time.
func (s *Simulation) InitialEnergy() rational.Value { return s.initialEnergy }

// MaxDenominator returns the active denominator bound (0 = exact).
func (s *Simulation) MaxDenominator() int64 { return s.maxDen }

// SetMaxDenominator changes the denominator bound for subsequent events and
// applies it immediately. Zero restores fully exact arithmetic.
func (s *Simulation) SetMaxDenominator(max int64) error {
	if max < 0 {
		return fmt.Errorf("%w: max denominator %d", ErrPrecisionBounds, max)
	}
	s.maxDen = max
	if s.maxDen > 0 {
		s.simplify()
		s.sinceSimplify = 0
	}
	return nil
}

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() Config { return s.cfg }

// Snapshot returns a float view of the state for presentation layers.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Time:     s.elapsed.Float64(),
		X1:       s.b1.Pos.Float64(),
		V1:       s.b1.Vel.Float64(),
		M1:       s.b1.Mass.Float64(),
		X2:       s.b2.Pos.Float64(),
		V2:       s.b2.Vel.Float64(),
		M2:       s.b2.Mass.Float64(),
		Wall:     s.wall,
		Block:    s.block,
		Total:    s.total,
		Terminal: s.IsTerminal(),
	}
}
