// Package rng provides the explicit random source used for property
// randomization.
//
// There is no package-level generator. Every operation that needs
// randomness takes a *Source, so a session's reproducibility depends only
// on its seed and the order in which it issues randomizing operations.
//
// A Source is not safe for concurrent use. Interleaving draws from
// several goroutines would silently break reproducibility.
package rng

import (
	"math/rand/v2"
	"time"
)

// streamSalt separates the PCG stream from the seed so that nearby seeds
// do not produce correlated sequences.
const streamSalt = 0x9e3779b97f4a7c15

// Source is a seeded pseudo-random generator that remembers its seed.
type Source struct {
	seed uint64
	pcg  *rand.PCG
	r    *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed uint64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed resets the generator to the start of the sequence for v.
func (s *Source) Seed(v uint64) {
	s.seed = v
	s.pcg = rand.NewPCG(v, v^streamSalt)
	s.r = rand.New(s.pcg)
}

// SeedFromTime derives a seed from the wall clock, applies it, and
// returns it so the caller can record and later reproduce the session.
func (s *Source) SeedFromTime() uint64 {
	v := uint64(time.Now().UnixNano())
	s.Seed(v)
	return v
}

// Current returns the seed the generator was last reset with.
func (s *Source) Current() uint64 {
	return s.seed
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Uint64N returns a value in [0, n). It panics if n == 0.
func (s *Source) Uint64N(n uint64) uint64 {
	return s.r.Uint64N(n)
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	return s.r.IntN(n)
}
