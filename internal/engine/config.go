package engine

import (
	"runtime"
	"strconv"
)

// Config controls how a generation is split across workers.
type Config struct {
	// Workers bounds the number of classification goroutines.
	Workers int
	// ChunkSize is the number of candidates handed to one goroutine.
	ChunkSize int
	// Verify runs the board consistency check after every commit.
	Verify bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU(), ChunkSize: 256}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["chunk"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ChunkSize = parsed
		}
	}
	if v, ok := cfg["verify"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Verify = parsed
		}
	}
	return c
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 256
	}
	return c
}
