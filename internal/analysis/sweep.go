package analysis

import (
	"context"
	"sync"

	"github.com/san-kum/piblocks/internal/engine"
	"github.com/san-kum/piblocks/internal/rational"
)

// SweepPoint is the outcome of one simulation in a mass-ratio sweep.
type SweepPoint struct {
	MassRatio float64
	Result    *engine.Result
	Pi        float64
	Expected  int
	Err       error
}

// ConfigsForRatios derives one configuration per mass ratio from a base
// scenario, scaling block two's mass.
func ConfigsForRatios(base engine.Config, ratios []int64) []engine.Config {
	cfgs := make([]engine.Config, len(ratios))
	for i, r := range ratios {
		cfg := base
		cfg.Mass2 = base.Mass1.Mul(rational.FromInt(r))
		cfgs[i] = cfg
	}
	return cfgs
}

// Sweep runs the given configurations to completion in parallel. Each
// simulation is independent, so one goroutine per configuration; results
// come back in input order.
func Sweep(ctx context.Context, cfgs []engine.Config, maxSteps int) []SweepPoint {
	points := make([]SweepPoint, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, err := engine.New(cfgs[idx])
			if err != nil {
				points[idx] = SweepPoint{Err: err}
				return
			}

			result, err := sim.RunToCompletion(ctx, maxSteps)
			p := SweepPoint{
				MassRatio: sim.MassRatio(),
				Result:    result,
				Err:       err,
			}
			if result != nil {
				p.Pi = PiEstimate(result.Total, p.MassRatio)
				p.Expected = ExpectedCollisions(p.MassRatio)
			}
			points[idx] = p
		}(i)
	}
	wg.Wait()

	return points
}
