// Package engine implements the event-driven elastic-collision simulation
// behind the pi approximation.
//
// Two blocks slide on a frictionless line bounded by a wall at position 0.
// Block one starts at rest, block two approaches from the right, and every
// collision (block-wall or block-block) is perfectly elastic. For a mass
// ratio r = m2/m1, the total collision count approaches pi*sqrt(r), which
// is what makes the system interesting to run.
//
//   - [Simulation]: owns the state, advanced one collision at a time
//   - [Simulation.Step]: computes the next event exactly and applies it
//   - [Simulation.RunToCompletion]: steps until no collision can ever occur
//
// All physical quantities are [rational.Value], so momentum and kinetic
// energy are conserved exactly. An optional denominator bound trades that
// exactness for bounded arithmetic cost on extreme mass ratios.
//
// # Thread Safety
//
// A Simulation has exactly one owner and is NOT safe for concurrent use.
// Step is synchronous and bounded; drive it from a render loop at any
// cadence, or run independent simulations in parallel goroutines.
package engine
