package stream

import "github.com/san-kum/piblocks/internal/engine"

// Conn is the transport a subscriber speaks over. The websocket layer
// implements it; tests use in-memory fakes.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Commands delivered through the hub inbox.

// Join subscribes a connection to state broadcasts.
type Join struct {
	Conn Conn
}

// Leave unsubscribes a connection; issued on disconnect.
type Leave struct {
	Conn Conn
}

// Pause stops advancing the simulation; broadcasts continue.
type Pause struct{}

// Resume restarts advancement.
type Resume struct{}

// Reset reinitializes the simulation from its scenario.
type Reset struct{}

// SetSpeed changes how many collision events each tick may process.
type SetSpeed struct {
	EventsPerTick int
}

// Query requests a one-off state snapshot, for the REST surface.
type Query struct {
	Reply chan<- StateMsg
}

// ClientCommand is the JSON command format clients send over the socket.
type ClientCommand struct {
	Op    string `json:"op"`
	Value int    `json:"value,omitempty"`
}

// StateMsg is the broadcast state snapshot.
type StateMsg struct {
	Type          string          `json:"type"`
	Tick          uint64          `json:"tick"`
	Paused        bool            `json:"paused"`
	EventsPerTick int             `json:"eventsPerTick"`
	State         engine.Snapshot `json:"state"`
	Pi            float64         `json:"pi"`
	PiError       float64         `json:"piError"`
	Expected      int             `json:"expected"`
}
