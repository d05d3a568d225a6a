// Package playback gates generation ticks behind a Paused/Playing switch and
// a fixed-interval timer, and serializes external board edits against them.
package playback

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/apex/log"

	"sparse-life/internal/board"
	"sparse-life/internal/core"
	"sparse-life/internal/engine"
)

// ErrPlaying is returned for board edits attempted while Playing.
var ErrPlaying = errors.New("playback: board is locked while playing")

// Mode is the playback state.
type Mode int

const (
	Paused Mode = iota
	Playing
)

func (m Mode) String() string {
	if m == Playing {
		return "playing"
	}
	return "paused"
}

// Config holds the timing knobs.
type Config struct {
	// Period is the interval between generations while Playing.
	Period time.Duration
	// Debounce is how long a toggle locks out further toggles.
	Debounce time.Duration
	// Playing starts the controller in the Playing mode.
	Playing bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Period: 20 * time.Millisecond, Debounce: 200 * time.Millisecond}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["period"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.Period = parsed
		}
	}
	if v, ok := cfg["debounce"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			c.Debounce = parsed
		}
	}
	if v, ok := cfg["playing"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Playing = parsed
		}
	}
	return c
}

// Stepper advances a board by one generation.
type Stepper interface {
	Step(ctx context.Context, b *board.Board) (engine.Report, error)
}

// Controller owns the board on behalf of the simulation. Every access to the
// board goes through it so ticks and edits never overlap.
type Controller struct {
	mu sync.Mutex

	board   *board.Board
	stepper Stepper
	timer   *core.FixedStep
	log     log.Interface

	mode     Mode
	debounce time.Duration
	cooldown time.Duration
	last     engine.Report
}

// New constructs a Controller for b. A nil logger uses the apex default.
func New(b *board.Board, stepper Stepper, cfg Config, logger log.Interface) *Controller {
	if logger == nil {
		logger = log.Log
	}
	c := &Controller{
		board:    b,
		stepper:  stepper,
		timer:    core.NewFixedStep(cfg.Period),
		log:      logger,
		debounce: cfg.Debounce,
	}
	if cfg.Playing {
		c.mode = Playing
	}
	return c
}

// Mode returns the current playback state.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Period returns the interval between generations.
func (c *Controller) Period() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.Period()
}

// SetPeriod changes the interval between generations.
func (c *Controller) SetPeriod(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.SetPeriod(d)
	c.log.WithField("period", c.timer.Period()).Debug("tick period changed")
}

// Toggle flips between Paused and Playing. A toggle arriving within the
// debounce window of the previous one is ignored and reported as false. A
// toggle issued during a tick takes effect once that tick has committed.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cooldown > 0 {
		return false
	}
	c.cooldown = c.debounce
	if c.mode == Playing {
		c.mode = Paused
	} else {
		c.mode = Playing
		c.timer.Reset()
	}
	c.log.WithField("mode", c.mode).Info("playback toggled")
	return true
}

// Advance feeds dt of elapsed time into the controller. While Playing, once
// a full period has accumulated exactly one generation runs and any excess
// time is dropped. It reports whether a generation ran.
func (c *Controller) Advance(ctx context.Context, dt time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cooldown > 0 {
		c.cooldown = max(c.cooldown-dt, 0)
	}
	if c.mode != Playing || !c.timer.Advance(dt) {
		return false, nil
	}
	return true, c.tick(ctx)
}

// StepOnce runs a single generation while Paused.
func (c *Controller) StepOnce(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Paused {
		return ErrPlaying
	}
	return c.tick(ctx)
}

func (c *Controller) tick(ctx context.Context) error {
	rep, err := c.stepper.Step(ctx, c.board)
	if err != nil {
		c.log.WithError(err).Error("generation failed")
		return err
	}
	c.last = rep
	c.log.WithFields(log.Fields{
		"generation": rep.Generation,
		"population": rep.Population,
		"births":     rep.Births,
		"deaths":     rep.Deaths,
		"candidates": rep.Candidates,
		"pruned":     rep.Pruned,
	}).Debug("generation committed")
	return nil
}

// LastReport returns the report of the most recent generation.
func (c *Controller) LastReport() engine.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Edit runs fn with write access to the board. It is refused while Playing.
func (c *Controller) Edit(fn func(b *board.Board)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Paused {
		return ErrPlaying
	}
	fn(c.board)
	return nil
}

// View runs fn with read access to the board. fn must not mutate it.
func (c *Controller) View(fn func(b *board.Board)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.board)
}

// ToggleCell flips the cell at pos while Paused and reports its new state.
// The second result is false when the edit was refused.
func (c *Controller) ToggleCell(pos core.Coord) (alive bool, ok bool) {
	err := c.Edit(func(b *board.Board) {
		h, exists := b.Get(pos)
		if !exists {
			h = b.Spawn()
			b.Insert(pos, h)
		}
		alive = !b.IsAlive(h)
		b.SetAlive(h, alive)
	})
	if err != nil {
		return false, false
	}
	c.log.WithFields(log.Fields{"x": pos.X, "y": pos.Y, "alive": alive}).Debug("cell toggled")
	return alive, true
}
