package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Soup fills a rows x cols matrix with live cells at the given density.
func (r *RNG) Soup(rows, cols int, density float64) [][]bool {
	out := make([][]bool, rows)
	for y := range out {
		out[y] = make([]bool, cols)
		for x := range out[y] {
			out[y][x] = r.Chance(density)
		}
	}
	return out
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
