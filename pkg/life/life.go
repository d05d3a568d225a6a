// Package life is the entry point for collaborators of the simulation: it
// owns the sparse board, the transition engine and the playback controller,
// and exposes the lookups a renderer or input layer needs.
package life

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/apex/log"

	"sparse-life/internal/board"
	"sparse-life/internal/core"
	"sparse-life/internal/engine"
	"sparse-life/internal/pattern"
	"sparse-life/internal/playback"
	"sparse-life/internal/rules"
)

// Handle identifies one cell record.
type Handle = board.Handle

// Coord is a lattice coordinate.
type Coord = core.Coord

// Simulation runs a Life-like automaton on an unbounded lattice.
type Simulation struct {
	cfg    Config
	engine *engine.Engine
	ctl    *playback.Controller
	log    *log.Entry
}

// New builds a Simulation. It fails only for an unknown rule.
func New(cfg Config, logger log.Interface) (*Simulation, error) {
	if logger == nil {
		logger = log.Log
	}
	rule, err := rules.Lookup(cfg.Rule)
	if err != nil {
		return nil, err
	}
	b := board.NewWithBounds(core.Coord{}, core.Coord{X: cfg.Width, Y: cfg.Height})
	e := engine.New(rule, cfg.Engine)
	s := &Simulation{
		cfg:    cfg,
		engine: e,
		ctl:    playback.New(b, e, cfg.Playback, logger),
		log:    logger.WithField("rule", rule.Name()),
	}
	return s, nil
}

// Name identifies the simulation and its rule.
func (s *Simulation) Name() string { return "life/" + s.engine.Rule().Name() }

// Seed places m centred at center. Only live entries create cell records.
func (s *Simulation) Seed(m pattern.Matrix, center Coord) error {
	v, err := pattern.NewMatrix(m.Cells)
	if err != nil {
		return err
	}
	coords := v.Placement(center)
	err = s.ctl.Edit(func(b *board.Board) {
		for _, pos := range coords {
			h, ok := b.Get(pos)
			if !ok {
				h = b.Spawn()
				b.Insert(pos, h)
			}
			b.SetAlive(h, true)
		}
	})
	if err != nil {
		return err
	}
	s.log.WithFields(log.Fields{
		"rows":  v.Rows,
		"cols":  v.Cols,
		"alive": len(coords),
		"x":     center.X,
		"y":     center.Y,
	}).Info("pattern seeded")
	return nil
}

// SeedCentered places m at the centre of the initial board rectangle.
func (s *Simulation) SeedCentered(m pattern.Matrix) error {
	return s.Seed(m, s.Bounds().Center())
}

// SeedRandom fills the initial board rectangle with a random soup.
func (s *Simulation) SeedRandom(seed int64, density float64) error {
	rows := core.NewRNG(seed).Soup(s.cfg.Height, s.cfg.Width, density)
	m, err := pattern.NewMatrix(rows)
	if err != nil {
		return err
	}
	return s.SeedCentered(m)
}

// Clear removes every cell record. It is refused while Playing.
func (s *Simulation) Clear() error {
	return s.ctl.Edit(func(b *board.Board) {
		for _, pos := range b.TrackedCoordinates() {
			b.Remove(pos)
		}
	})
}

// AliveCoordinates returns a snapshot of every live coordinate.
func (s *Simulation) AliveCoordinates() []Coord {
	var out []Coord
	s.ctl.View(func(b *board.Board) { out = b.AliveCoordinates() })
	return out
}

// TrackedCoordinates returns a snapshot of every coordinate with a record.
func (s *Simulation) TrackedCoordinates() []Coord {
	var out []Coord
	s.ctl.View(func(b *board.Board) { out = b.TrackedCoordinates() })
	return out
}

// Lookup returns the record placed at pos.
func (s *Simulation) Lookup(pos Coord) (Handle, bool) {
	var (
		h  Handle
		ok bool
	)
	s.ctl.View(func(b *board.Board) { h, ok = b.Get(pos) })
	return h, ok
}

// IsAlive reports whether the record h is alive.
func (s *Simulation) IsAlive(h Handle) bool {
	var alive bool
	s.ctl.View(func(b *board.Board) { alive = b.IsAlive(h) })
	return alive
}

// AliveAt reports whether a live cell occupies pos.
func (s *Simulation) AliveAt(pos Coord) bool {
	var alive bool
	s.ctl.View(func(b *board.Board) { alive = b.AliveAt(pos) })
	return alive
}

// Bounds returns the rectangle covering every coordinate ever inserted.
func (s *Simulation) Bounds() core.Rect {
	var r core.Rect
	s.ctl.View(func(b *board.Board) { r = b.Rect() })
	return r
}

// Population returns the number of live cells.
func (s *Simulation) Population() int {
	var n int
	s.ctl.View(func(b *board.Board) { n = b.Population() })
	return n
}

// Mode returns the playback state.
func (s *Simulation) Mode() playback.Mode { return s.ctl.Mode() }

// Toggle flips between Paused and Playing, subject to debouncing.
func (s *Simulation) Toggle() bool { return s.ctl.Toggle() }

// Advance feeds elapsed time into the playback timer.
func (s *Simulation) Advance(ctx context.Context, dt time.Duration) (bool, error) {
	return s.ctl.Advance(ctx, dt)
}

// StepOnce runs one generation while Paused.
func (s *Simulation) StepOnce(ctx context.Context) error { return s.ctl.StepOnce(ctx) }

// ToggleCell flips the cell at pos while Paused.
func (s *Simulation) ToggleCell(pos Coord) (bool, bool) { return s.ctl.ToggleCell(pos) }

// Generation returns the number of committed generations.
func (s *Simulation) Generation() uint64 { return s.ctl.LastReport().Generation }

// LastReport returns the summary of the last committed generation.
func (s *Simulation) LastReport() engine.Report { return s.ctl.LastReport() }

// RuleString returns the active rule in a form suitable for an RLE header.
func (s *Simulation) RuleString() string {
	switch r := s.engine.Rule().(type) {
	case rules.Conway:
		return "B3/S23"
	case fmt.Stringer:
		return r.String()
	default:
		return r.Name()
	}
}

// ExportRLE renders the live cells as an RLE document.
func (s *Simulation) ExportRLE() string {
	return pattern.EncodeRLE(s.AliveCoordinates(), s.RuleString())
}

// Parameters reports the values shown on the HUD.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	rep := s.ctl.LastReport()
	bounds := s.Bounds()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				textParam("rule", "Rule", s.RuleString()),
				textParam("mode", "Mode", s.Mode().String()),
				intParam("period_ms", "Tick period (ms)", int(s.ctl.Period()/time.Millisecond)),
			},
		},
		{
			Name: "Generation",
			Params: []core.Parameter{
				intParam("generation", "Generation", int(rep.Generation)),
				intParam("population", "Population", s.Population()),
				intParam("births", "Births", rep.Births),
				intParam("deaths", "Deaths", rep.Deaths),
				intParam("candidates", "Candidates", rep.Candidates),
			},
		},
		{
			Name: "Board",
			Params: []core.Parameter{
				textParam("bounds", "Bounds", fmt.Sprintf("%d,%d %dx%d", bounds.Min.X, bounds.Min.Y, bounds.W(), bounds.H())),
			},
		},
	}}
}

// ParameterControls lists the values the HUD may adjust.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "period_ms", Label: "Tick period (ms)", Step: 10, Min: 10, Max: 2000, HasMin: true, HasMax: true},
	}
}

// SetIntParameter applies a HUD adjustment.
func (s *Simulation) SetIntParameter(key string, value int) bool {
	switch key {
	case "period_ms":
		if value <= 0 {
			return false
		}
		s.ctl.SetPeriod(time.Duration(value) * time.Millisecond)
		return true
	default:
		return false
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func textParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeText, Value: value}
}
