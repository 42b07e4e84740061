package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/piblocks/internal/analysis"
	"github.com/san-kum/piblocks/internal/audio"
	"github.com/san-kum/piblocks/internal/engine"
	"github.com/san-kum/piblocks/internal/rational"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	minEventsPerFrame = 1
	maxEventsPerFrame = 100000

	minDenominator = 1_000
	maxDenominator = 1_000_000_000_000
)

type TickMsg time.Time

// Model is the live simulation view: the braille canvas on the left, a
// stats panel with the running pi estimate on the right.
type Model struct {
	sim            *engine.Simulation
	canvas         *Canvas
	clicker        *audio.Clicker
	fps            int
	running        bool
	eventsPerFrame int
	worldWidth     float64
	piHistory      []float64
	showHelp       bool
	err            error
}

// NewModel builds the live view around a fresh simulation. A nil clicker
// disables sound.
func NewModel(cfg engine.Config, fps int, clicker *audio.Clicker) (Model, error) {
	sim, err := engine.New(cfg)
	if err != nil {
		return Model{}, err
	}
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		sim:            sim,
		canvas:         NewCanvas(width, height),
		clicker:        clicker,
		fps:            fps,
		running:        true,
		eventsPerFrame: 64,
		piHistory:      make([]float64, 0, historyCapacity),
	}
	m.fitWorld()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.clicker != nil {
				m.clicker.Close()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.Reset()
			m.piHistory = m.piHistory[:0]
			m.err = nil
		case "1":
			m.scaleMass(true, false)
		case "2":
			m.scaleMass(true, true)
		case "3":
			m.scaleMass(false, false)
		case "4":
			m.scaleMass(false, true)
		case "+", "=":
			if m.eventsPerFrame*2 <= maxEventsPerFrame {
				m.eventsPerFrame *= 2
			}
		case "-", "_":
			if m.eventsPerFrame/2 >= minEventsPerFrame {
				m.eventsPerFrame /= 2
			}
		case "[":
			m.scaleDenominator(false)
		case "]":
			m.scaleDenominator(true)
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.sim.IsTerminal() {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the simulation by up to eventsPerFrame collisions and
// records the pi estimate once per frame.
func (m *Model) step() {
	sawWall, sawBlock := false, false
	for i := 0; i < m.eventsPerFrame; i++ {
		ev, ok := m.sim.Step()
		if !ok {
			break
		}
		switch ev.Kind {
		case engine.WallCollision:
			sawWall = true
		case engine.BlockCollision:
			sawBlock = true
		}
	}

	// One click per kind per frame; individual clicks would saturate the
	// mixer at high mass ratios.
	if m.clicker != nil {
		if sawWall {
			m.clicker.WallClick()
		}
		if sawBlock {
			m.clicker.BlockClick()
		}
	}

	_, _, total := m.sim.Counts()
	m.piHistory = append(m.piHistory, analysis.PiEstimate(total, m.sim.MassRatio()))
	if len(m.piHistory) > historyCapacity {
		m.piHistory = m.piHistory[1:]
	}
}

// scaleMass multiplies or divides one of the masses by 10 and restarts
// the run, since a mass change invalidates the collision count.
func (m *Model) scaleMass(small, up bool) {
	cfg := m.sim.Config()
	target := cfg.Mass1
	if !small {
		target = cfg.Mass2
	}

	ten := rational.FromInt(10)
	if up {
		target = target.Mul(ten)
	} else {
		v, err := target.Div(ten)
		if err != nil {
			return
		}
		target = v
		if target.Less(rational.One()) {
			target = rational.One()
		}
	}

	if small {
		cfg.Mass1 = target
	} else {
		cfg.Mass2 = target
	}

	sim, err := engine.New(cfg)
	if err != nil {
		m.err = err
		return
	}
	m.sim = sim
	m.piHistory = m.piHistory[:0]
	m.err = nil
	m.fitWorld()
}

// scaleDenominator raises or lowers the denominator bound by a factor of
// ten, clamped to a range where the count stays meaningful.
func (m *Model) scaleDenominator(up bool) {
	cur := m.sim.MaxDenominator()
	if cur == 0 {
		cur = engine.DefaultMaxDenominator
	}

	next := cur / 10
	if up {
		next = cur * 10
	}
	if next < minDenominator || next > maxDenominator {
		return
	}
	if err := m.sim.SetMaxDenominator(next); err != nil {
		m.err = err
	}
}

func (m *Model) fitWorld() {
	m.worldWidth = m.sim.Config().Pos2.Float64() * 1.25
	if m.worldWidth <= 0 {
		m.worldWidth = 1
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle().Render(m.canvas.String())
	statsView := statsStyle().Render(m.stats())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart the run          ║
║  1 / 2    - Small mass /10, x10      ║
║  3 / 4    - Large mass /10, x10      ║
║  + / -    - Collisions per frame     ║
║  [ / ]    - Denominator bound /10x10 ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// draw renders the wall, the floor, and both blocks on the canvas.
func (m *Model) draw() {
	m.canvas.Clear()

	cw, ch := width*2, height*4
	groundY := ch - 8
	wallX := 4

	m.canvas.DrawLine(wallX, 0, wallX, groundY)
	m.canvas.DrawLine(0, groundY, cw-1, groundY)

	snap := m.sim.Snapshot()
	scale := float64(cw-wallX-4) / m.worldWidth

	size1 := blockSize(snap.M1)
	size2 := blockSize(snap.M2)

	// Positions are block left edges measured from the wall.
	x1 := wallX + 1 + int(snap.X1*scale)
	x2 := wallX + 1 + int(snap.X2*scale)
	if x2 < x1+size1 {
		x2 = x1 + size1
	}

	m.canvas.FillRect(x1, groundY-size1, x1+size1, groundY-1)
	m.canvas.FillRect(x2, groundY-size2, x2+size2, groundY-1)
}

// blockSize maps mass to a side length, growing with the mass order of
// magnitude.
func blockSize(mass float64) int {
	if mass <= 0 {
		return 4
	}
	size := 6 + int(math.Log10(mass)*3)
	if size < 4 {
		size = 4
	}
	if size > 24 {
		size = 24
	}
	return size
}

// stats renders the right-hand panel.
func (m Model) stats() string {
	snap := m.sim.Snapshot()
	wall, block, total := m.sim.Counts()
	ratio := m.sim.MassRatio()
	pi := analysis.PiEstimate(total, ratio)

	var s strings.Builder
	s.WriteString(headerStyle().Render("BLOCK COLLISION PI") + "\n")

	status := goodStyle().Render("RUNNING")
	switch {
	case snap.Terminal:
		status = accentStyle().Render("DONE")
	case !m.running:
		status = warnStyle().Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	if len(m.piHistory) > 1 {
		chart := asciigraph.Plot(m.piHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("pi estimate"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}

	label, value := labelStyle(), valueStyle()
	row := func(k, v string) {
		s.WriteString(label.Render(k) + value.Render(v) + "\n")
	}

	row("Collisions", fmt.Sprintf("%d  (wall %d, block %d)", total, wall, block))
	row("Mass ratio", fmt.Sprintf("%.6g", ratio))
	row("sqrt(ratio)", fmt.Sprintf("%.6f", math.Sqrt(ratio)))
	s.WriteString(label.Render("Pi estimate") + accentStyle().Render(fmt.Sprintf("%.10f", pi)) + "\n")
	row("Pi", fmt.Sprintf("%.10f", math.Pi))
	row("Error", fmt.Sprintf("%.6f%%", analysis.ErrorPercent(pi)))
	row("Digits", fmt.Sprintf("%d", analysis.MatchedDigits(pi)))
	s.WriteString("\n")
	row("Block 1", fmt.Sprintf("m=%.6g x=%.3f v=%.4f", snap.M1, snap.X1, snap.V1))
	row("Block 2", fmt.Sprintf("m=%.6g x=%.3f v=%.4f", snap.M2, snap.X2, snap.V2))
	row("Time", fmt.Sprintf("%.3f", snap.Time))
	s.WriteString("\n")
	row("Max denom", fmt.Sprintf("%d", m.sim.MaxDenominator()))
	row("Events/frame", fmt.Sprintf("%d", m.eventsPerFrame))
	row("Energy drift", fmt.Sprintf("%.3e", m.sim.Energy().Sub(m.sim.InitialEnergy()).Float64()))

	if m.err != nil {
		s.WriteString("\n" + warnStyle().Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle().Render(
		"\n─────────────────────\nSP:Pause R:Restart Q:Quit\n1-4:Masses +-:Speed [ ]:Precision\nT:Theme ?:Help"))
	return s.String()
}
