package core

import (
	"testing"
	"time"
)

func TestFixedStepDropsExcess(t *testing.T) {
	fs := NewFixedStep(20 * time.Millisecond)
	if fs.Advance(10 * time.Millisecond) {
		t.Fatal("step fired before the period elapsed")
	}
	if !fs.Advance(55 * time.Millisecond) {
		t.Fatal("step did not fire after the period elapsed")
	}
	if fs.Pending() != 0 {
		t.Fatalf("pending=%v, expected excess to be dropped", fs.Pending())
	}
	if fs.Advance(0) {
		t.Fatal("dropped excess produced a catch-up step")
	}
}

func TestFixedStepDefaults(t *testing.T) {
	if got := NewFixedStep(0).Period(); got != time.Second/60 {
		t.Fatalf("period=%v, expected 1/60s", got)
	}
	if got := NewFixedStepTPS(50).Period(); got != 20*time.Millisecond {
		t.Fatalf("period=%v, expected 20ms", got)
	}
}

func TestNeighborsExcludeSelf(t *testing.T) {
	c := Coord{X: 4, Y: -2}
	seen := map[Coord]bool{}
	for _, n := range c.Neighbors() {
		if n == c {
			t.Fatal("neighbourhood contains the cell itself")
		}
		dx, dy := n.X-c.X, n.Y-c.Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Fatalf("neighbour %v is not adjacent to %v", n, c)
		}
		seen[n] = true
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 distinct neighbours, got %d", len(seen))
	}
}

func TestRectContains(t *testing.T) {
	r := RectFrom(Coord{X: -2, Y: -1}, Coord{X: 4, Y: 3})
	if !r.Contains(Coord{X: -2, Y: -1}) || !r.Contains(Coord{X: 1, Y: 1}) {
		t.Fatal("rectangle must contain its corners")
	}
	if r.Contains(Coord{X: 2, Y: 0}) || r.Contains(Coord{X: 0, Y: 2}) {
		t.Fatal("rectangle must be half-open")
	}
}

func TestSoupDeterministic(t *testing.T) {
	a := NewRNG(7).Soup(8, 8, 0.4)
	b := NewRNG(7).Soup(8, 8, 0.4)
	for y := range a {
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				t.Fatalf("soup differs at (%d,%d) for identical seeds", x, y)
			}
		}
	}
}
