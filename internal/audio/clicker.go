// Package audio synthesizes collision clicks for the live view.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	clickDuration = 30 * time.Millisecond
	clickAttack   = 2 * time.Millisecond
	clickRelease  = 15 * time.Millisecond

	wallFreq  = 880.0
	blockFreq = 440.0
)

// Clicker plays a short pitched click per collision: higher for the wall,
// lower for block-block. At large mass ratios the clicks merge into the
// characteristic accelerating rattle.
type Clicker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewClicker() *Clicker {
	return &Clicker{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer. Safe to call more
// than once.
func (c *Clicker) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences the mixer. The speaker itself has no close operation.
func (c *Clicker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// WallClick plays the wall-collision click.
func (c *Clicker) WallClick() { c.play(wallFreq) }

// BlockClick plays the block-collision click.
func (c *Clicker) BlockClick() { c.play(blockFreq) }

func (c *Clicker) play(freq float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(newClick(freq, sampleRate))
	speaker.Unlock()
}

// click is a sine burst with a linear attack/release envelope.
type click struct {
	freq     float64
	phase    float64
	position int
	total    int
	attack   int
	release  int
	rate     beep.SampleRate
}

func newClick(freq float64, rate beep.SampleRate) beep.Streamer {
	return &click{
		freq:    freq,
		total:   rate.N(clickDuration),
		attack:  rate.N(clickAttack),
		release: rate.N(clickRelease),
		rate:    rate,
	}
}

func (s *click) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, false
		}

		val := math.Sin(2 * math.Pi * s.phase)

		vol := 1.0
		if s.position < s.attack {
			vol = float64(s.position) / float64(s.attack)
		} else if left := s.total - s.position; left < s.release {
			vol = float64(left) / float64(s.release)
		}
		val *= vol * 0.4

		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *click) Err() error { return nil }
