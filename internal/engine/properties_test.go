package engine_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/piblocks/internal/engine"
	"github.com/san-kum/piblocks/internal/rational"
)

var _ = Describe("Collision engine", func() {
	newExact := func(ratio int64) *engine.Simulation {
		cfg := engine.DefaultConfig()
		cfg.Mass2 = rational.FromInt(ratio)
		cfg.MaxDenominator = 0
		sim, err := engine.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		return sim
	}

	Describe("the pi law", func() {
		DescribeTable("collision totals follow floor(pi*sqrt(r))",
			func(ratio int64, want int) {
				sim := newExact(ratio)
				result, err := sim.RunToCompletion(context.Background(), 1_000_000)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Complete).To(BeTrue())
				Expect(result.Total).To(Equal(want))
				Expect(want).To(Equal(int(math.Floor(math.Pi * math.Sqrt(float64(ratio))))))
			},
			Entry("ratio 1", int64(1), 3),
			Entry("ratio 100", int64(100), 31),
			Entry("ratio 10000", int64(10000), 314),
		)
	})

	Describe("conservation", func() {
		It("keeps kinetic energy exactly constant across every event", func() {
			sim := newExact(100)
			e0 := sim.InitialEnergy()
			for {
				if _, ok := sim.Step(); !ok {
					break
				}
				Expect(sim.Energy().Equal(e0)).To(BeTrue(),
					"energy %s, want %s", sim.Energy(), e0)
			}
		})

		It("keeps momentum exactly constant across block-block events", func() {
			sim := newExact(100)
			for {
				before := sim.Momentum()
				ev, ok := sim.Step()
				if !ok {
					break
				}
				if ev.Kind == engine.BlockCollision {
					Expect(sim.Momentum().Equal(before)).To(BeTrue(),
						"momentum %s, want %s", sim.Momentum(), before)
				}
			}
		})
	})

	Describe("termination", func() {
		It("reaches a state from which no collision can ever occur", func() {
			sim := newExact(100)
			result, err := sim.RunToCompletion(context.Background(), 1_000_000)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Complete).To(BeTrue())

			b1, b2 := sim.Block1(), sim.Block2()
			Expect(b1.Vel.Sign()).To(BeNumerically(">=", 0))
			Expect(b1.Vel.LessOrEqual(b2.Vel)).To(BeTrue())
		})

		It("treats further steps as no-ops", func() {
			sim := newExact(1)
			_, err := sim.RunToCompletion(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())

			_, _, total := sim.Counts()
			elapsed := sim.Elapsed()
			for i := 0; i < 5; i++ {
				_, ok := sim.Step()
				Expect(ok).To(BeFalse())
			}
			_, _, after := sim.Counts()
			Expect(after).To(Equal(total))
			Expect(sim.Elapsed().Equal(elapsed)).To(BeTrue())
		})
	})

	Describe("ordering", func() {
		It("never lets the blocks pass through each other or the wall", func() {
			sim := newExact(10000)
			zero := rational.Zero()
			for {
				if _, ok := sim.Step(); !ok {
					break
				}
				b1, b2 := sim.Block1(), sim.Block2()
				Expect(b1.Pos.Less(zero)).To(BeFalse())
				Expect(b2.Pos.Less(b1.Pos)).To(BeFalse())
			}
		})
	})
})
