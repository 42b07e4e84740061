package audio

import "testing"

func TestClickStreamLength(t *testing.T) {
	s := newClick(440, sampleRate)
	total := sampleRate.N(clickDuration)

	buf := make([][2]float64, 512)
	streamed := 0
	for {
		n, ok := s.Stream(buf)
		streamed += n
		if !ok {
			break
		}
	}
	if streamed != total {
		t.Errorf("streamed %d samples, want %d", streamed, total)
	}
}

func TestClickEnvelopeBounds(t *testing.T) {
	s := newClick(880, sampleRate)
	buf := make([][2]float64, sampleRate.N(clickDuration))
	s.Stream(buf)

	for i, sample := range buf {
		if sample[0] < -1 || sample[0] > 1 {
			t.Fatalf("sample %d out of range: %v", i, sample[0])
		}
	}
	// The attack ramp starts from silence.
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want 0", buf[0][0])
	}
}

func TestUninitializedClickerIsSilent(t *testing.T) {
	c := NewClicker()
	// Must not panic or touch the speaker before Initialize.
	c.WallClick()
	c.BlockClick()
	c.Close()
}
