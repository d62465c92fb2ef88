// Package rng provides the injected random source used by the simulation.
package rng

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the randomness the simulation consumes. Every function that
// needs noise takes one explicitly so runs replay exactly from a seed.
type Sampler interface {
	// Uniform returns a value in [lo, hi).
	Uniform(lo, hi float64) float64
	// Normal returns a Gaussian sample with the given mean and standard deviation.
	Normal(mean, std float64) float64
}

// Rand is a seeded Sampler backed by a PCG generator.
type Rand struct {
	src *rand.PCG
}

// New creates a Sampler seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Uniform returns a value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: r.src}.Rand()
}

// Normal returns a Gaussian sample. A zero std returns mean exactly.
func (r *Rand) Normal(mean, std float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: std, Src: r.src}.Rand()
}

