package stream

import (
	"encoding/json"
	"time"

	"github.com/san-kum/piblocks/internal/analysis"
	"github.com/san-kum/piblocks/internal/config"
	"github.com/san-kum/piblocks/internal/engine"
)

const maxEventsPerTick = 100000

// Hub owns one simulation and fans its state out to subscribers. All
// mutation happens on the Run goroutine; everything else talks to it
// through the Inbox.
type Hub struct {
	Inbox chan any

	sim           *engine.Simulation
	tickHz        int
	eventsPerTick int
	paused        bool
	tick          uint64
	clients       map[Conn]struct{}
	quit          chan struct{}
}

// NewHub builds a hub around a fresh simulation of the given scenario.
func NewHub(scenario *config.Config, sc *config.ServeConfig) (*Hub, error) {
	ecfg, err := scenario.Engine()
	if err != nil {
		return nil, err
	}
	sim, err := engine.New(ecfg)
	if err != nil {
		return nil, err
	}

	tickHz := sc.TickHz
	if tickHz <= 0 {
		tickHz = 30
	}
	eventsPerTick := sc.EventsPerTick
	if eventsPerTick <= 0 {
		eventsPerTick = 1
	}

	return &Hub{
		Inbox:         make(chan any, 64),
		sim:           sim,
		tickHz:        tickHz,
		eventsPerTick: eventsPerTick,
		clients:       make(map[Conn]struct{}),
		quit:          make(chan struct{}),
	}, nil
}

func (h *Hub) Stop() {
	close(h.quit)
}

// Run drives the hub until Stop. Each tick advances the simulation by up
// to eventsPerTick collisions and broadcasts the resulting state.
func (h *Hub) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			for c := range h.clients {
				_ = c.Close()
			}
			return
		case cmd := <-h.Inbox:
			h.handleCommand(cmd)
		case <-ticker.C:
			h.tick++
			if !h.paused {
				h.advance()
			}
			h.broadcastState()
		}
	}
}

func (h *Hub) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		h.clients[c.Conn] = struct{}{}
		h.sendStateTo(c.Conn)
	case Leave:
		if _, ok := h.clients[c.Conn]; ok {
			_ = c.Conn.Close()
			delete(h.clients, c.Conn)
		}
	case Pause:
		h.paused = true
	case Resume:
		h.paused = false
	case Reset:
		h.sim.Reset()
	case SetSpeed:
		if c.EventsPerTick >= 1 && c.EventsPerTick <= maxEventsPerTick {
			h.eventsPerTick = c.EventsPerTick
		}
	case Query:
		c.Reply <- h.buildState()
	}
}

func (h *Hub) advance() {
	for i := 0; i < h.eventsPerTick; i++ {
		if _, ok := h.sim.Step(); !ok {
			return
		}
	}
}

func (h *Hub) broadcastState() {
	b, err := json.Marshal(h.buildState())
	if err != nil {
		return
	}

	var failed []Conn
	for c := range h.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		_ = c.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) sendStateTo(c Conn) {
	b, err := json.Marshal(h.buildState())
	if err != nil {
		return
	}
	_ = c.Send(b)
}

func (h *Hub) buildState() StateMsg {
	_, _, total := h.sim.Counts()
	ratio := h.sim.MassRatio()
	pi := analysis.PiEstimate(total, ratio)

	return StateMsg{
		Type:          "state",
		Tick:          h.tick,
		Paused:        h.paused,
		EventsPerTick: h.eventsPerTick,
		State:         h.sim.Snapshot(),
		Pi:            pi,
		PiError:       analysis.ErrorPercent(pi),
		Expected:      analysis.ExpectedCollisions(ratio),
	}
}
