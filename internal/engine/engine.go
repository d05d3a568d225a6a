// Package engine advances a board by one generation in two phases: a
// read-only parallel classification of every cell that could change,
// followed by a single-writer commit of the results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sparse-life/internal/board"
	"sparse-life/internal/core"
	"sparse-life/internal/rules"
)

// ErrBusy is returned when Step is called while another Step is in flight.
var ErrBusy = errors.New("engine: generation already in progress")

// State is the engine's position within a generation.
type State int32

const (
	Idle State = iota
	Classifying
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Classifying:
		return "classifying"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Report summarises one committed generation.
type Report struct {
	Generation uint64
	Candidates int
	Births     int
	Deaths     int
	Pruned     int
	Population int
	Tracked    int

	Classify time.Duration
	Commit   time.Duration
}

// outcome is the pending result for one candidate. The buffer of outcomes is
// the only per-generation scratch state and is discarded after commit.
type outcome struct {
	pos    core.Coord
	handle board.Handle
	exists bool
	was    bool
	next   bool
}

// Engine computes successive generations under one rule.
type Engine struct {
	rule       rules.Rule
	cfg        Config
	state      atomic.Int32
	generation uint64

	candidates []core.Coord
	buf        []outcome

	// onCommit runs after every classification has finished and before the
	// first outcome is applied.
	onCommit func()
}

// New constructs an Engine. A nil rule falls back to Conway.
func New(rule rules.Rule, cfg Config) *Engine {
	if rule == nil {
		rule = rules.Conway{}
	}
	return &Engine{rule: rule, cfg: cfg.normalized()}
}

// Rule returns the active rule.
func (e *Engine) Rule() rules.Rule { return e.rule }

// SetRule swaps the rule used for subsequent generations. It returns ErrBusy
// if a generation is in flight.
func (e *Engine) SetRule(r rules.Rule) error {
	if r == nil {
		return nil
	}
	if e.State() != Idle {
		return ErrBusy
	}
	e.rule = r
	return nil
}

// State reports where the engine is within the current generation.
func (e *Engine) State() State { return State(e.state.Load()) }

// Generation returns the number of generations committed so far.
func (e *Engine) Generation() uint64 { return e.generation }

// Step advances b by one generation. The board must not be touched by anyone
// else until Step returns. If ctx is cancelled during classification the
// board is left unchanged; once commit has started it runs to completion.
func (e *Engine) Step(ctx context.Context, b *board.Board) (Report, error) {
	if !e.state.CompareAndSwap(int32(Idle), int32(Classifying)) {
		return Report{}, ErrBusy
	}
	defer e.state.Store(int32(Idle))

	start := time.Now()
	e.candidates = Candidates(b, e.candidates[:0])
	if err := e.classify(ctx, b); err != nil {
		return Report{}, err
	}
	classified := time.Now()

	e.state.Store(int32(Committing))
	if e.onCommit != nil {
		e.onCommit()
	}
	rep := e.commit(b)
	rep.Candidates = len(e.candidates)
	rep.Classify = classified.Sub(start)
	rep.Commit = time.Since(classified)

	e.generation++
	rep.Generation = e.generation

	if e.cfg.Verify {
		if err := b.Verify(); err != nil {
			return rep, fmt.Errorf("generation %d: %w", rep.Generation, err)
		}
	}
	return rep, nil
}

// Candidates appends every live coordinate and each of its Moore neighbours
// to dst, deduplicated and in row-major order. No coordinate outside this set
// can change state in the next generation.
func Candidates(b *board.Board, dst []core.Coord) []core.Coord {
	alive := b.AliveCoordinates()
	seen := make(map[core.Coord]struct{}, len(alive)*3)
	for _, pos := range alive {
		if _, ok := seen[pos]; !ok {
			seen[pos] = struct{}{}
			dst = append(dst, pos)
		}
		for _, nb := range pos.Neighbors() {
			if _, ok := seen[nb]; ok {
				continue
			}
			seen[nb] = struct{}{}
			dst = append(dst, nb)
		}
	}
	slices.SortFunc(dst, core.Coord.Compare)
	return dst
}

// classify fills e.buf with one outcome per candidate. Workers only read the
// board and each owns a disjoint slice of the buffer.
func (e *Engine) classify(ctx context.Context, b *board.Board) error {
	n := len(e.candidates)
	if cap(e.buf) < n {
		e.buf = make([]outcome, n)
	}
	e.buf = e.buf[:n]

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for lo := 0; lo < n; lo += e.cfg.ChunkSize {
		hi := min(lo+e.cfg.ChunkSize, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				e.buf[i] = e.classifyOne(b, e.candidates[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Engine) classifyOne(b *board.Board, pos core.Coord) outcome {
	o := outcome{pos: pos}
	o.handle, o.exists = b.Get(pos)
	o.was = o.exists && b.IsAlive(o.handle)
	o.next = e.rule.Next(o.was, b.LiveNeighbors(pos))
	return o
}

// commit applies the buffered outcomes, then drops every tracked dead cell
// that has no live neighbour left.
func (e *Engine) commit(b *board.Board) Report {
	var rep Report
	for _, o := range e.buf {
		switch {
		case o.next && o.exists:
			if !o.was {
				rep.Births++
			}
			b.SetAlive(o.handle, true)
		case o.next:
			h := b.Spawn()
			b.Insert(o.pos, h)
			b.SetAlive(h, true)
			rep.Births++
		case o.exists && o.was:
			b.SetAlive(o.handle, false)
			rep.Deaths++
		}
	}
	rep.Pruned = Prune(b)
	rep.Population = b.Population()
	rep.Tracked = b.Len()
	return rep
}

// Prune removes and destroys every dead record with no live neighbour. It
// returns the number of records dropped.
func Prune(b *board.Board) int {
	pruned := 0
	for _, pos := range b.TrackedCoordinates() {
		if b.AliveAt(pos) || b.LiveNeighbors(pos) > 0 {
			continue
		}
		b.Remove(pos)
		pruned++
	}
	return pruned
}
