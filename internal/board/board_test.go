package board

import (
	"slices"
	"testing"

	"sparse-life/internal/core"
)

func place(b *Board, pos core.Coord, alive bool) Handle {
	h := b.Spawn()
	b.Insert(pos, h)
	b.SetAlive(h, alive)
	return h
}

func TestInsertGetRoundTrip(t *testing.T) {
	b := New()
	h := place(b, core.Coord{X: 3, Y: -4}, true)

	got, ok := b.Get(core.Coord{X: 3, Y: -4})
	if !ok || got != h {
		t.Fatalf("Get returned (%d,%v), expected (%d,true)", got, ok, h)
	}
	pos, ok := b.Position(h)
	if !ok || pos != (core.Coord{X: 3, Y: -4}) {
		t.Fatalf("Position returned (%v,%v)", pos, ok)
	}
	if _, ok := b.Get(core.Coord{X: 0, Y: 0}); ok {
		t.Fatal("absent coordinate reported present")
	}
	if err := b.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestGrowthShiftsOriginExactly(t *testing.T) {
	b := NewWithBounds(core.Coord{X: 0, Y: 0}, core.Coord{X: 10, Y: 10})
	place(b, core.Coord{X: 2, Y: 2}, true)
	place(b, core.Coord{X: 9, Y: 9}, true)

	origin, extent := b.Bounds()
	place(b, core.Coord{X: origin.X - 5, Y: origin.Y}, true)

	gotOrigin, gotExtent := b.Bounds()
	if gotOrigin.X != origin.X-5 || gotOrigin.Y != origin.Y {
		t.Fatalf("origin=%v, expected x shifted by -5 from %v", gotOrigin, origin)
	}
	if gotExtent.X != extent.X+5 || gotExtent.Y != extent.Y {
		t.Fatalf("extent=%v, expected x grown by 5 from %v", gotExtent, extent)
	}
	for _, pos := range []core.Coord{{X: 2, Y: 2}, {X: 9, Y: 9}} {
		if !b.AliveAt(pos) {
			t.Fatalf("previously stored %v no longer retrievable", pos)
		}
	}
}

func TestGrowthHighSide(t *testing.T) {
	b := New()
	place(b, core.Coord{X: 0, Y: 0}, true)
	place(b, core.Coord{X: 4, Y: 7}, true)
	origin, extent := b.Bounds()
	if origin != (core.Coord{}) || extent != (core.Coord{X: 5, Y: 8}) {
		t.Fatalf("bounds=(%v,%v), expected ((0,0),(5,8))", origin, extent)
	}
}

func TestBoundsNeverShrink(t *testing.T) {
	b := New()
	coords := []core.Coord{{X: 0, Y: 0}, {X: -3, Y: 8}, {X: 12, Y: -6}, {X: 1, Y: 1}, {X: -20, Y: 0}}
	prev := b.Rect()
	for _, pos := range coords {
		place(b, pos, true)
		rect := b.Rect()
		if !rect.ContainsRect(prev) {
			t.Fatalf("bounds shrank from %v to %v", prev, rect)
		}
		for _, seen := range coords {
			if _, ok := b.Get(seen); ok && !rect.Contains(seen) {
				t.Fatalf("bounds %v exclude stored %v", rect, seen)
			}
		}
		prev = rect
		if pos.X%2 == 0 {
			b.Remove(pos)
			if !b.Rect().ContainsRect(prev) {
				t.Fatal("removal shrank the bounds")
			}
		}
	}
}

func TestRelocationClearsStaleCoordinate(t *testing.T) {
	b := New()
	h := place(b, core.Coord{X: 1, Y: 1}, true)

	if _, evicted := b.Insert(core.Coord{X: 5, Y: 5}, h); evicted {
		t.Fatal("relocating into an empty coordinate evicted something")
	}
	if _, ok := b.Get(core.Coord{X: 1, Y: 1}); ok {
		t.Fatal("stale coordinate still indexed after relocation")
	}
	if got, _ := b.Get(core.Coord{X: 5, Y: 5}); got != h {
		t.Fatalf("relocated handle=%d, expected %d", got, h)
	}
	if b.Population() != 1 {
		t.Fatalf("population=%d after relocation, expected 1", b.Population())
	}
	if err := b.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertSameCoordinateTwiceKeepsEntry(t *testing.T) {
	b := New()
	h := place(b, core.Coord{X: 2, Y: 2}, true)
	b.Insert(core.Coord{X: 2, Y: 2}, h)
	if got, ok := b.Get(core.Coord{X: 2, Y: 2}); !ok || got != h {
		t.Fatal("re-inserting at the same coordinate lost the entry")
	}
}

func TestInsertEvictsOccupant(t *testing.T) {
	b := New()
	first := place(b, core.Coord{X: 0, Y: 0}, true)
	second := place(b, core.Coord{X: 1, Y: 0}, false)

	got, evicted := b.Insert(core.Coord{X: 0, Y: 0}, second)
	if !evicted || got != first {
		t.Fatalf("Insert returned (%d,%v), expected (%d,true)", got, evicted, first)
	}
	if b.IsAlive(first) {
		t.Fatal("evicted record still reports alive")
	}
	if b.Population() != 0 {
		t.Fatalf("population=%d, expected 0", b.Population())
	}
	if err := b.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveByCoordinateAndHandle(t *testing.T) {
	b := New()
	h1 := place(b, core.Coord{X: 0, Y: 0}, true)
	h2 := place(b, core.Coord{X: 0, Y: 1}, true)

	if got, ok := b.Remove(core.Coord{X: 0, Y: 0}); !ok || got != h1 {
		t.Fatalf("Remove returned (%d,%v)", got, ok)
	}
	if _, ok := b.Remove(core.Coord{X: 0, Y: 0}); ok {
		t.Fatal("second Remove should report absence")
	}
	if pos, ok := b.RemoveHandle(h2); !ok || pos != (core.Coord{X: 0, Y: 1}) {
		t.Fatalf("RemoveHandle returned (%v,%v)", pos, ok)
	}
	if _, ok := b.RemoveHandle(h2); ok {
		t.Fatal("second RemoveHandle should report absence")
	}
	if b.Len() != 0 {
		t.Fatalf("len=%d, expected 0", b.Len())
	}
	if err := b.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveDropsLiveRecord(t *testing.T) {
	b := New()
	h1 := place(b, core.Coord{X: 1, Y: 1}, true)
	h2 := place(b, core.Coord{X: 2, Y: 1}, true)

	b.Remove(core.Coord{X: 1, Y: 1})
	if b.Population() != 1 {
		t.Fatalf("population=%d after Remove, expected 1", b.Population())
	}
	if b.IsAlive(h1) {
		t.Fatal("removed record still reports alive")
	}
	b.RemoveHandle(h2)
	if b.Population() != 0 {
		t.Fatalf("population=%d after RemoveHandle, expected 0", b.Population())
	}
	if got := b.AliveCoordinates(); len(got) != 0 {
		t.Fatalf("alive=%v after removals, expected none", got)
	}
	b.Destroy(h1)
	if b.Population() != 0 {
		t.Fatalf("population=%d after destroying a removed handle", b.Population())
	}
	if err := b.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestBijectionUnderMixedOperations(t *testing.T) {
	b := New()
	rng := core.NewRNG(11).Source()
	var handles []Handle
	for i := 0; i < 2000; i++ {
		pos := core.Coord{X: rng.IntN(30) - 15, Y: rng.IntN(30) - 15}
		switch rng.IntN(4) {
		case 0, 1:
			handles = append(handles, place(b, pos, rng.IntN(2) == 0))
		case 2:
			b.Remove(pos)
		case 3:
			if len(handles) > 0 {
				h := handles[rng.IntN(len(handles))]
				b.Insert(pos, h)
			}
		}
		if err := b.Verify(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	for _, pos := range b.TrackedCoordinates() {
		h, _ := b.Get(pos)
		back, ok := b.Position(h)
		if !ok || back != pos {
			t.Fatalf("backward[forward[%v]]=%v", pos, back)
		}
	}
}

func TestAliveCoordinatesSorted(t *testing.T) {
	b := New()
	place(b, core.Coord{X: 2, Y: 1}, true)
	place(b, core.Coord{X: -1, Y: 1}, true)
	place(b, core.Coord{X: 5, Y: -3}, true)
	place(b, core.Coord{X: 0, Y: 0}, false)

	want := []core.Coord{{X: 5, Y: -3}, {X: -1, Y: 1}, {X: 2, Y: 1}}
	if got := b.AliveCoordinates(); !slices.Equal(got, want) {
		t.Fatalf("alive=%v, expected %v", got, want)
	}
	if b.LiveNeighbors(core.Coord{X: 0, Y: 1}) != 1 {
		t.Fatalf("live neighbours of (0,1)=%d, expected 1", b.LiveNeighbors(core.Coord{X: 0, Y: 1}))
	}
}
