// Package viz renders the collision simulation in the terminal.
//
// The package implements a live TUI on the Bubble Tea framework:
//
//   - [Model]: the live simulation view
//   - [Canvas]: Braille-based pixel canvas for block rendering
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	1/2   - Divide/multiply small mass by 10
//	3/4   - Divide/multiply large mass by 10
//	+/-   - Double/halve collisions per frame
//	[/]   - Lower/raise the denominator bound by 10x
//	T     - Cycle color themes
//	?     - Toggle help overlay
package viz
