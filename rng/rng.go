// Package rng provides deterministic, per-worker random sources for the
// simulation's stochastic steps: thermal force sampling, division angle
// jitter, and EPS secretion gating/placement. Grounded on the teacher's
// rand.New(rand.NewSource(seed)) pattern (systems/particle_resource.go,
// systems/noise.go), generalised from one-off seeded sources per system
// into one pool indexed by worker id so a fixed root seed reproduces an
// identical run for the same worker count and partitioning (spec §5, §9).
// A different worker count assigns particles to different streams and so
// gives a different run.
package rng

import "math/rand"

// Pool hands out one *rand.Rand per worker slot, each seeded
// deterministically from a single root seed so that reruns with the same
// seed and the same worker count are reproducible.
type Pool struct {
	sources []*rand.Rand
}

// NewPool builds a pool with n independent sources derived from seed.
// Derivation uses splitmix64-style mixing so nearby seeds don't produce
// correlated streams across workers.
func NewPool(seed int64, n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{sources: make([]*rand.Rand, n)}
	s := uint64(seed)
	for i := range p.sources {
		s += 0x9E3779B97F4A7C15
		z := s
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		p.sources[i] = rand.New(rand.NewSource(int64(z)))
	}
	return p
}

// For returns the source owned by worker index w. Callers must not share
// a single worker's source across goroutines; index by the same
// partitioning used to divide the tick's work.
func (p *Pool) For(w int) *rand.Rand {
	return p.sources[w%len(p.sources)]
}

// Len reports the number of independent sources in the pool.
func (p *Pool) Len() int { return len(p.sources) }

// Uniform draws a float32 uniformly from [lo, hi).
func Uniform(r *rand.Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// Bernoulli reports true with probability p (clamped to [0,1]).
func Bernoulli(r *rand.Rand, p float32) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float32() < p
}
