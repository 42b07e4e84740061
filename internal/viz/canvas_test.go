package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] == 0x2800 {
		t.Error("expected pixel set")
	}
	c.Clear()
	if c.Grid[0][0] != 0x2800 {
		t.Error("expected empty cell after clear")
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(8, 0)
	c.Set(0, 8)
	if s := c.String(); strings.ContainsRune(s, '⠁') {
		t.Errorf("out-of-bounds set leaked into canvas: %q", s)
	}
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(2, 5, 0, 1) // reversed corners
	for y := 1; y <= 5; y++ {
		for x := 0; x <= 2; x++ {
			col, row := x/2, y/4
			if c.Grid[row][col] == 0x2800 {
				t.Fatalf("cell (%d,%d) empty inside filled rect", col, row)
			}
		}
	}
}
