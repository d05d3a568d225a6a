package life

import (
	"strconv"

	"sparse-life/internal/engine"
	"sparse-life/internal/playback"
)

// Config assembles the settings of every subsystem.
type Config struct {
	Rule     string
	Width    int
	Height   int
	Engine   engine.Config
	Playback playback.Config
}

// DefaultConfig returns the standard configuration. Width and Height size the
// initial board rectangle, which grows as cells appear outside it.
func DefaultConfig() Config {
	return Config{
		Rule:     "conway",
		Width:    256,
		Height:   256,
		Engine:   engine.DefaultConfig(),
		Playback: playback.DefaultConfig(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rule"]; ok && v != "" {
		c.Rule = v
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	c.Engine = engine.FromMap(cfg)
	c.Playback = playback.FromMap(cfg)
	return c
}
