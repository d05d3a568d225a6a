package engine

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"sparse-life/internal/board"
	"sparse-life/internal/core"
	"sparse-life/internal/rules"
)

func seed(coords ...core.Coord) *board.Board {
	b := board.New()
	for _, pos := range coords {
		h := b.Spawn()
		b.Insert(pos, h)
		b.SetAlive(h, true)
	}
	return b
}

func step(t *testing.T, e *Engine, b *board.Board) Report {
	t.Helper()
	rep, err := e.Step(context.Background(), b)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := b.Verify(); err != nil {
		t.Fatalf("after generation %d: %v", rep.Generation, err)
	}
	return rep
}

func sorted(coords ...core.Coord) []core.Coord {
	out := slices.Clone(coords)
	slices.SortFunc(out, core.Coord.Compare)
	return out
}

func TestIsolatedCellDiesAndIsPruned(t *testing.T) {
	b := seed(core.Coord{X: 7, Y: 7})
	e := New(rules.Conway{}, DefaultConfig())

	rep := step(t, e, b)
	if b.Population() != 0 {
		t.Fatalf("population=%d, expected 0", b.Population())
	}
	if rep.Deaths != 1 || rep.Births != 0 {
		t.Fatalf("births=%d deaths=%d, expected 0/1", rep.Births, rep.Deaths)
	}
	if b.Len() != 0 {
		t.Fatalf("%d records still tracked after the only cell died", b.Len())
	}
	if rep.Candidates != 9 {
		t.Fatalf("candidates=%d, expected 9", rep.Candidates)
	}
}

func TestBlockIsStable(t *testing.T) {
	block := sorted(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0}, core.Coord{X: 0, Y: 1}, core.Coord{X: 1, Y: 1})
	b := seed(block...)
	e := New(rules.Conway{}, DefaultConfig())
	for i := 0; i < 10; i++ {
		step(t, e, b)
		if got := b.AliveCoordinates(); !slices.Equal(got, block) {
			t.Fatalf("generation %d: block changed to %v", i+1, got)
		}
	}
}

func TestBlinkerOscillation(t *testing.T) {
	horizontal := sorted(core.Coord{X: -1, Y: 0}, core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0})
	vertical := sorted(core.Coord{X: 0, Y: -1}, core.Coord{X: 0, Y: 0}, core.Coord{X: 0, Y: 1})

	b := seed(horizontal...)
	e := New(rules.Conway{}, DefaultConfig())

	step(t, e, b)
	if got := b.AliveCoordinates(); !slices.Equal(got, vertical) {
		t.Fatalf("generation 1 = %v, expected %v", got, vertical)
	}
	step(t, e, b)
	if got := b.AliveCoordinates(); !slices.Equal(got, horizontal) {
		t.Fatalf("generation 2 = %v, expected %v", got, horizontal)
	}
	if e.Generation() != 2 {
		t.Fatalf("generation counter=%d, expected 2", e.Generation())
	}
}

func TestGliderTranslates(t *testing.T) {
	glider := []core.Coord{{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	b := seed(glider...)
	e := New(rules.Conway{}, DefaultConfig())
	for i := 0; i < 4; i++ {
		step(t, e, b)
	}
	want := make([]core.Coord, len(glider))
	for i, pos := range glider {
		want[i] = pos.Add(core.Coord{X: 1, Y: 1})
	}
	if got := b.AliveCoordinates(); !slices.Equal(got, sorted(want...)) {
		t.Fatalf("glider after 4 generations = %v, expected %v", got, sorted(want...))
	}
}

func TestDeterministicAcrossWorkerCounts(t *testing.T) {
	soup := core.NewRNG(2024).Soup(40, 40, 0.35)
	var coords []core.Coord
	for y, row := range soup {
		for x, alive := range row {
			if alive {
				coords = append(coords, core.Coord{X: x - 20, Y: y - 20})
			}
		}
	}

	configs := []Config{
		{Workers: 1, ChunkSize: 100000},
		{Workers: 4, ChunkSize: 7},
		{Workers: 16, ChunkSize: 1},
	}
	var reference [][]core.Coord
	for ci, cfg := range configs {
		b := seed(coords...)
		e := New(rules.Conway{}, cfg)
		for gen := 0; gen < 25; gen++ {
			step(t, e, b)
			got := b.AliveCoordinates()
			if ci == 0 {
				reference = append(reference, got)
				continue
			}
			if !slices.Equal(got, reference[gen]) {
				t.Fatalf("config %+v diverged at generation %d", cfg, gen+1)
			}
		}
	}
}

// naive computes the next alive set by brute force over a padded window.
func naive(alive map[core.Coord]bool, window core.Rect, rule rules.Rule) map[core.Coord]bool {
	next := map[core.Coord]bool{}
	for y := window.Min.Y; y < window.Max.Y; y++ {
		for x := window.Min.X; x < window.Max.X; x++ {
			pos := core.Coord{X: x, Y: y}
			n := 0
			for _, nb := range pos.Neighbors() {
				if alive[nb] {
					n++
				}
			}
			if rule.Next(alive[pos], n) {
				next[pos] = true
			}
		}
	}
	return next
}

func TestCandidateSetIsSufficient(t *testing.T) {
	rng := core.NewRNG(5).Source()
	for trial := 0; trial < 20; trial++ {
		alive := map[core.Coord]bool{}
		var coords []core.Coord
		for i := 0; i < 60; i++ {
			pos := core.Coord{X: rng.IntN(16) - 8, Y: rng.IntN(16) - 8}
			if !alive[pos] {
				alive[pos] = true
				coords = append(coords, pos)
			}
		}
		b := seed(coords...)

		candidates := map[core.Coord]bool{}
		for _, pos := range Candidates(b, nil) {
			candidates[pos] = true
		}

		window := core.Rect{Min: core.Coord{X: -12, Y: -12}, Max: core.Coord{X: 12, Y: 12}}
		want := naive(alive, window, rules.Conway{})
		for y := window.Min.Y; y < window.Max.Y; y++ {
			for x := window.Min.X; x < window.Max.X; x++ {
				pos := core.Coord{X: x, Y: y}
				if alive[pos] != want[pos] && !candidates[pos] {
					t.Fatalf("trial %d: %v changes state but is not a candidate", trial, pos)
				}
			}
		}

		step(t, New(rules.Conway{}, DefaultConfig()), b)
		for y := window.Min.Y; y < window.Max.Y; y++ {
			for x := window.Min.X; x < window.Max.X; x++ {
				pos := core.Coord{X: x, Y: y}
				if b.AliveAt(pos) != want[pos] {
					t.Fatalf("trial %d: %v alive=%v, brute force says %v", trial, pos, b.AliveAt(pos), want[pos])
				}
			}
		}
	}
}

func TestCancelledStepLeavesBoardUntouched(t *testing.T) {
	b := seed(core.Coord{X: -1, Y: 0}, core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0})
	before := b.AliveCoordinates()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(rules.Conway{}, DefaultConfig())
	if _, err := e.Step(ctx, b); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, expected context.Canceled", err)
	}
	if got := b.AliveCoordinates(); !slices.Equal(got, before) {
		t.Fatalf("cancelled step mutated the board: %v", got)
	}
	if e.State() != Idle || e.Generation() != 0 {
		t.Fatalf("state=%v generation=%d after cancelled step", e.State(), e.Generation())
	}
}

// gateRule blocks classification until released so tests can observe an
// in-flight generation.
type gateRule struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gateRule) Name() string { return "gate" }

func (g *gateRule) Next(alive bool, neighbors int) bool {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return rules.Conway{}.Next(alive, neighbors)
}

func TestOverlappingStepIsRejected(t *testing.T) {
	gate := &gateRule{entered: make(chan struct{}), release: make(chan struct{})}
	b := seed(core.Coord{X: 0, Y: 0})
	e := New(gate, Config{Workers: 1, ChunkSize: 1})

	done := make(chan error, 1)
	go func() {
		_, err := e.Step(context.Background(), b)
		done <- err
	}()
	<-gate.entered

	if e.State() != Classifying {
		t.Fatalf("state=%v while classifying", e.State())
	}
	if _, err := e.Step(context.Background(), b); !errors.Is(err, ErrBusy) {
		t.Fatalf("err=%v, expected ErrBusy", err)
	}
	if err := e.SetRule(rules.Conway{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("SetRule err=%v, expected ErrBusy", err)
	}
	close(gate.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if e.State() != Idle {
		t.Fatalf("state=%v after step returned", e.State())
	}
}

// countingRule records how many candidates were classified.
type countingRule struct {
	calls atomic.Int64
}

func (c *countingRule) Name() string { return "counting" }

func (c *countingRule) Next(alive bool, neighbors int) bool {
	c.calls.Add(1)
	return rules.Conway{}.Next(alive, neighbors)
}

func TestCommitStartsAfterEveryCandidateIsClassified(t *testing.T) {
	rule := &countingRule{}
	b := seed(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0}, core.Coord{X: 2, Y: 0})
	want := len(Candidates(b, nil))
	e := New(rule, Config{Workers: 4, ChunkSize: 2})

	hooked := false
	e.onCommit = func() {
		hooked = true
		if e.State() != Committing {
			t.Errorf("state=%v at commit, expected committing", e.State())
		}
		if got := rule.calls.Load(); got != int64(want) {
			t.Errorf("commit began after %d of %d classifications", got, want)
		}
		if alive := b.AliveCoordinates(); len(alive) != 3 {
			t.Errorf("board changed before commit: %v", alive)
		}
		if _, err := e.Step(context.Background(), b); !errors.Is(err, ErrBusy) {
			t.Errorf("nested Step err=%v, expected ErrBusy", err)
		}
		if err := e.SetRule(rules.Conway{}); !errors.Is(err, ErrBusy) {
			t.Errorf("SetRule during commit err=%v, expected ErrBusy", err)
		}
	}

	rep := step(t, e, b)
	if !hooked {
		t.Fatal("commit hook never ran")
	}
	if rep.Candidates != want {
		t.Fatalf("report candidates=%d, expected %d", rep.Candidates, want)
	}
	if e.State() != Idle {
		t.Fatalf("state=%v after step returned", e.State())
	}
	vertical := sorted(core.Coord{X: 1, Y: -1}, core.Coord{X: 1, Y: 0}, core.Coord{X: 1, Y: 1})
	if got := b.AliveCoordinates(); !slices.Equal(got, vertical) {
		t.Fatalf("alive=%v, expected %v", got, vertical)
	}
}

func TestPruneKeepsDeadCellsNextToLife(t *testing.T) {
	b := seed(core.Coord{X: 0, Y: 0})
	near := b.Spawn()
	b.Insert(core.Coord{X: 1, Y: 0}, near)
	far := b.Spawn()
	b.Insert(core.Coord{X: 5, Y: 5}, far)

	if got := Prune(b); got != 1 {
		t.Fatalf("pruned=%d, expected 1", got)
	}
	if _, ok := b.Get(core.Coord{X: 1, Y: 0}); !ok {
		t.Fatal("dead cell adjacent to life was pruned")
	}
	if _, ok := b.Get(core.Coord{X: 5, Y: 5}); ok {
		t.Fatal("isolated dead cell survived pruning")
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{"workers": "3", "chunk": "64", "verify": "true"})
	if c.Workers != 3 || c.ChunkSize != 64 || !c.Verify {
		t.Fatalf("FromMap produced %+v", c)
	}
	d := FromMap(map[string]string{"workers": "-2"})
	if d.Workers != DefaultConfig().Workers {
		t.Fatalf("invalid worker count accepted: %+v", d)
	}
}
