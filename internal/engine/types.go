package engine

import (
	"github.com/san-kum/piblocks/internal/rational"
)

// Block is a point mass on the half-line right of the wall. Position is the
// distance from the wall; negative velocity means moving toward it.
type Block struct {
	Mass rational.Value
	Pos  rational.Value
	Vel  rational.Value
}

// EventKind distinguishes the two collision types.
type EventKind int

const (
	WallCollision EventKind = iota
	BlockCollision
)

func (k EventKind) String() string {
	switch k {
	case WallCollision:
		return "wall"
	case BlockCollision:
		return "block"
	default:
		return "unknown"
	}
}

// Event describes one applied collision: its sequence number (1-based,
// equal to the total count after the event), the exact elapsed time at
// which it occurred, and the post-event block states.
type Event struct {
	Seq    int
	Kind   EventKind
	Time   rational.Value
	Block1 Block
	Block2 Block
}

// Config holds the initial conditions and precision parameters for a
// simulation. Block one starts at rest at Pos1; block two starts at Pos2
// moving with velocity Vel2 (negative to approach).
type Config struct {
	Mass1 rational.Value
	Mass2 rational.Value
	Pos1  rational.Value
	Pos2  rational.Value
	Vel2  rational.Value

	// MaxDenominator bounds the denominators of positions and velocities.
	// Zero disables limiting and keeps the arithmetic fully exact.
	MaxDenominator int64

	// SimplifyEvery is the number of events between limiting passes.
	// Zero selects DefaultSimplifyEvery. Ignored when MaxDenominator is 0.
	SimplifyEvery int
}

// Defaults matching the classic demonstration: a unit mass at rest with a
// 10000x heavier block incoming at speed 5, yielding 3141 collisions.
const (
	DefaultMaxDenominator = 1_000_000_000
	DefaultSimplifyEvery  = 100
)

// DefaultConfig returns the classic scenario.
func DefaultConfig() Config {
	return Config{
		Mass1:          rational.FromInt(1),
		Mass2:          rational.FromInt(10000),
		Pos1:           rational.FromInt(150),
		Pos2:           rational.FromInt(600),
		Vel2:           rational.FromInt(-5),
		MaxDenominator: DefaultMaxDenominator,
		SimplifyEvery:  DefaultSimplifyEvery,
	}
}

// Result summarizes a RunToCompletion call. Complete is false when the step
// budget ran out before the terminal state; the counts still describe the
// work done so far.
type Result struct {
	Wall     int
	Block    int
	Total    int
	Steps    int
	Elapsed  rational.Value
	Complete bool
}

// Snapshot is a float view of the state for presentation layers.
type Snapshot struct {
	Time     float64 `json:"time"`
	X1       float64 `json:"x1"`
	V1       float64 `json:"v1"`
	M1       float64 `json:"m1"`
	X2       float64 `json:"x2"`
	V2       float64 `json:"v2"`
	M2       float64 `json:"m2"`
	Wall     int     `json:"wall"`
	Block    int     `json:"block"`
	Total    int     `json:"total"`
	Terminal bool    `json:"terminal"`
}
