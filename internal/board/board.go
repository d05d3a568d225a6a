// Package board stores the live region of an unbounded lattice as a sparse
// index between coordinates and cell records.
//
// A Board is not safe for concurrent mutation. Any number of goroutines may
// read it at once provided nothing writes to it for the duration.
package board

import (
	"errors"
	"fmt"
	"slices"

	"sparse-life/internal/core"
)

// ErrInconsistent reports that the coordinate and handle indexes disagree.
// It is never produced by the public operations; seeing it means a bug.
var ErrInconsistent = errors.New("board: index inconsistent")

// Handle names one cell record. Handles are never reused.
type Handle uint64

type cell struct {
	alive bool
}

// Board maps lattice coordinates to cell records and tracks the rectangle
// covering every coordinate ever inserted.
type Board struct {
	forward  map[core.Coord]Handle
	backward map[Handle]core.Coord
	cells    map[Handle]*cell

	origin core.Coord
	extent core.Coord

	next Handle
	live int
}

// New returns an empty board whose rectangle starts at the origin with no
// extent.
func New() *Board {
	return NewWithBounds(core.Coord{}, core.Coord{})
}

// NewWithBounds returns an empty board whose rectangle starts at origin and
// spans extent. Negative extents are treated as zero.
func NewWithBounds(origin, extent core.Coord) *Board {
	if extent.X < 0 {
		extent.X = 0
	}
	if extent.Y < 0 {
		extent.Y = 0
	}
	return &Board{
		forward:  make(map[core.Coord]Handle),
		backward: make(map[Handle]core.Coord),
		cells:    make(map[Handle]*cell),
		origin:   origin,
		extent:   extent,
	}
}

// Spawn allocates a new dead cell record that is not yet placed.
func (b *Board) Spawn() Handle {
	b.next++
	h := b.next
	b.cells[h] = &cell{}
	return h
}

// Destroy releases a record, unlinking it first if it is still placed.
func (b *Board) Destroy(h Handle) {
	if _, placed := b.RemoveHandle(h); !placed {
		b.drop(h)
	}
}

// Insert places h at pos, growing the rectangle to cover pos. If h was
// already placed elsewhere its stale coordinate is cleared. If a different
// handle occupied pos it is evicted, its record destroyed, and it is
// returned.
func (b *Board) Insert(pos core.Coord, h Handle) (Handle, bool) {
	b.grow(pos)
	if _, ok := b.cells[h]; !ok {
		b.cells[h] = &cell{}
		if h > b.next {
			b.next = h
		}
	}

	if old, placed := b.backward[h]; placed && old != pos {
		delete(b.forward, old)
	}

	evicted, occupied := b.forward[pos]
	if occupied && evicted == h {
		occupied = false
	}
	if occupied {
		delete(b.backward, evicted)
		b.drop(evicted)
	}

	b.forward[pos] = h
	b.backward[h] = pos
	return evicted, occupied
}

// grow extends each axis of the rectangle independently by exactly the
// distance pos lies outside of it. The rectangle never shrinks.
func (b *Board) grow(pos core.Coord) {
	if pos.X < b.origin.X {
		b.extent.X += b.origin.X - pos.X
		b.origin.X = pos.X
	} else if pos.X >= b.origin.X+b.extent.X {
		b.extent.X = pos.X - b.origin.X + 1
	}
	if pos.Y < b.origin.Y {
		b.extent.Y += b.origin.Y - pos.Y
		b.origin.Y = pos.Y
	} else if pos.Y >= b.origin.Y+b.extent.Y {
		b.extent.Y = pos.Y - b.origin.Y + 1
	}
}

// Remove deletes the record at pos from both indexes and destroys it.
func (b *Board) Remove(pos core.Coord) (Handle, bool) {
	h, ok := b.forward[pos]
	if !ok {
		return 0, false
	}
	delete(b.forward, pos)
	delete(b.backward, h)
	b.drop(h)
	return h, true
}

// RemoveHandle deletes h from both indexes, destroys its record and returns
// the coordinate it occupied.
func (b *Board) RemoveHandle(h Handle) (core.Coord, bool) {
	pos, ok := b.backward[h]
	if !ok {
		return core.Coord{}, false
	}
	delete(b.backward, h)
	delete(b.forward, pos)
	b.drop(h)
	return pos, true
}

// drop releases the record of h, keeping the live count in step.
func (b *Board) drop(h Handle) {
	c, ok := b.cells[h]
	if !ok {
		return
	}
	if c.alive {
		b.live--
	}
	delete(b.cells, h)
}

// Get returns the handle placed at pos.
func (b *Board) Get(pos core.Coord) (Handle, bool) {
	h, ok := b.forward[pos]
	return h, ok
}

// Position returns the coordinate h is placed at.
func (b *Board) Position(h Handle) (core.Coord, bool) {
	pos, ok := b.backward[h]
	return pos, ok
}

// Bounds returns the origin and extent of the covering rectangle.
func (b *Board) Bounds() (origin, extent core.Coord) {
	return b.origin, b.extent
}

// Rect returns the covering rectangle in half-open form.
func (b *Board) Rect() core.Rect {
	return core.RectFrom(b.origin, b.extent)
}

// IsAlive reports whether the record h is alive. Unknown handles are dead.
func (b *Board) IsAlive(h Handle) bool {
	c, ok := b.cells[h]
	return ok && c.alive
}

// SetAlive updates the alive flag of h. It is a no-op for unknown handles.
func (b *Board) SetAlive(h Handle, alive bool) {
	c, ok := b.cells[h]
	if !ok || c.alive == alive {
		return
	}
	c.alive = alive
	if alive {
		b.live++
	} else {
		b.live--
	}
}

// AliveAt reports whether a live cell is placed at pos.
func (b *Board) AliveAt(pos core.Coord) bool {
	h, ok := b.forward[pos]
	return ok && b.IsAlive(h)
}

// LiveNeighbors counts the live cells in the Moore neighbourhood of pos.
func (b *Board) LiveNeighbors(pos core.Coord) int {
	n := 0
	for _, nb := range pos.Neighbors() {
		if b.AliveAt(nb) {
			n++
		}
	}
	return n
}

// Len returns the number of placed records, alive or dead.
func (b *Board) Len() int { return len(b.forward) }

// Population returns the number of live records.
func (b *Board) Population() int { return b.live }

// AliveCoordinates returns a row-major sorted snapshot of live coordinates.
func (b *Board) AliveCoordinates() []core.Coord {
	out := make([]core.Coord, 0, b.live)
	for pos, h := range b.forward {
		if b.IsAlive(h) {
			out = append(out, pos)
		}
	}
	slices.SortFunc(out, core.Coord.Compare)
	return out
}

// TrackedCoordinates returns a sorted snapshot of every placed coordinate.
func (b *Board) TrackedCoordinates() []core.Coord {
	out := make([]core.Coord, 0, len(b.forward))
	for pos := range b.forward {
		out = append(out, pos)
	}
	slices.SortFunc(out, core.Coord.Compare)
	return out
}

// Verify checks the index bijection, rectangle containment and live count.
func (b *Board) Verify() error {
	if len(b.forward) != len(b.backward) {
		return fmt.Errorf("%w: %d coordinates, %d handles", ErrInconsistent, len(b.forward), len(b.backward))
	}
	rect := b.Rect()
	for pos, h := range b.forward {
		back, ok := b.backward[h]
		if !ok || back != pos {
			return fmt.Errorf("%w: %v -> %d -> %v", ErrInconsistent, pos, h, back)
		}
		if _, ok := b.cells[h]; !ok {
			return fmt.Errorf("%w: handle %d at %v has no record", ErrInconsistent, h, pos)
		}
		if !rect.Contains(pos) {
			return fmt.Errorf("%w: %v outside bounds %v", ErrInconsistent, pos, rect)
		}
	}
	live := 0
	for _, c := range b.cells {
		if c.alive {
			live++
		}
	}
	if live != b.live {
		return fmt.Errorf("%w: live count %d, records say %d", ErrInconsistent, b.live, live)
	}
	return nil
}
