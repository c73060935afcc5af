// Package noise provides the coherent noise used to mask light textures.
package noise

import (
	perlin "github.com/aquilax/go-perlin"
)

const (
	defaultAlpha  = 2
	defaultBeta   = 2
	defaultOctave = 3
)

// Perlin samples 2D Perlin noise mapped into [0, 1]. The same seed and
// inputs always give the same value.
type Perlin struct {
	gen  *perlin.Perlin
	seed int64
}

// NewPerlin creates a generator for seed
func NewPerlin(seed int64) *Perlin {
	return &Perlin{gen: perlin.NewPerlin(defaultAlpha, defaultBeta, defaultOctave, seed), seed: seed}
}

// Seed returns the seed the generator was built with
func (p *Perlin) Seed() int64 { return p.seed }

// Perlin returns the noise value at (x, y) in [0, 1]
func (p *Perlin) Perlin(x, y float64) float64 {
	v := (p.gen.Noise2D(x, y) + 1) / 2
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
