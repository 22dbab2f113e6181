// Package rng wraps a seeded pseudo-random generator so every randomized
// heuristic (jitter, burst sizes, waits) can be replayed from a seed.
//
// A Source is not safe for concurrent use; each engagement owns its own.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is the distribution surface the heuristics draw from.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// New returns a PCG-backed source. Seed 0 seeds from the clock.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Int returns a uniform integer in [lo, hi]. Swapped bounds are tolerated.
func Int(s Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.IntN(hi-lo+1)
}

// Offset returns a uniform integer in [-r, r).
func Offset(s Source, r int) int {
	if r <= 0 {
		return 0
	}
	return s.IntN(2*r) - r
}

// Range returns a uniform float in [lo, hi).
func Range(s Source, lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Millis returns a duration of [lo, hi] milliseconds.
func Millis(s Source, lo, hi int) time.Duration {
	return time.Duration(Int(s, lo, hi)) * time.Millisecond
}
