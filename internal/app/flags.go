package app

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"sparse-life/internal/rules"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Pattern  string
	Rule     string
	Scale    int
	Width    int
	Height   int
	TPS      int
	Period   time.Duration
	Debounce time.Duration
	Workers  int
	Seed     int64
	Density  float64
	Play     bool
	Verify   bool
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rule:     "conway",
		Scale:    4,
		Width:    200,
		Height:   150,
		TPS:      60,
		Period:   20 * time.Millisecond,
		Debounce: 200 * time.Millisecond,
		Seed:     42,
		Density:  0.25,
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "seed pattern file (.cells, .board or .rle); random soup when empty")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule name ("+strings.Join(rules.Names(), ", ")+") or B/S notation")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.Width, "w", c.Width, "viewport width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "viewport height in cells")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.DurationVar(&c.Period, "period", c.Period, "interval between generations while playing")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "minimum interval between play/pause toggles")
	fs.IntVar(&c.Workers, "workers", c.Workers, "classification workers (0 = one per CPU)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random soup")
	fs.Float64Var(&c.Density, "density", c.Density, "live-cell density of the random soup")
	fs.BoolVar(&c.Play, "play", c.Play, "start playing instead of paused")
	fs.BoolVar(&c.Verify, "verify", c.Verify, "check board consistency after every generation")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// SimMap renders the simulation-facing settings in the key/value form
// accepted by life.FromMap.
func (c *Config) SimMap() map[string]string {
	m := map[string]string{
		"rule":     c.Rule,
		"w":        strconv.Itoa(c.Width),
		"h":        strconv.Itoa(c.Height),
		"period":   c.Period.String(),
		"debounce": c.Debounce.String(),
		"playing":  strconv.FormatBool(c.Play),
		"verify":   strconv.FormatBool(c.Verify),
	}
	if c.Workers > 0 {
		m["workers"] = strconv.Itoa(c.Workers)
	}
	return m
}

// WindowTitle returns the window caption for a simulation named name.
func WindowTitle(name string) string {
	return "sparse-life - " + name
}
