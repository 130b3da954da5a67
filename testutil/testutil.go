package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64n returns a pseudo-random number in [0, n). It panics if n is 0.
func (r *RNG) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("testutil: invalid argument to Uint64n")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uint64n(n)
}

func (r *RNG) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 {
		return r.rand.Uint64() & (n - 1)
	}
	// Rejection sampling keeps the distribution uniform for any bound.
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		if v := r.rand.Uint64(); v < limit {
			return v % n
		}
	}
}

// between returns a value in the closed range [lo, hi].
func (r *RNG) between(lo, hi uint64) uint64 {
	if hi-lo == math.MaxUint64 {
		return r.rand.Uint64()
	}
	return lo + r.uint64n(hi-lo+1)
}

// DistinctValues returns count distinct values in [minVal, maxVal], in
// generation order. It panics if the range holds fewer than count values.
// Locks only once per call.
func (r *RNG) DistinctValues(count int, minVal, maxVal uint64) []uint64 {
	if maxVal < minVal || maxVal-minVal < uint64(count-1) {
		panic("testutil: range too small for distinct values")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uint64]struct{}, count)
	out := make([]uint64, 0, count)
	for len(out) < count {
		v := r.between(minVal, maxVal)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Disjoint returns count distinct values in [minVal, maxVal] that do not
// occur in exclude.
func (r *RNG) Disjoint(count int, minVal, maxVal uint64, exclude []uint64) []uint64 {
	skip := make(map[uint64]struct{}, len(exclude))
	for _, v := range exclude {
		skip[v] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint64, 0, count)
	for attempts := 0; len(out) < count; attempts++ {
		if attempts > 1_000_000 {
			panic("testutil: could not find enough disjoint values")
		}
		v := r.between(minVal, maxVal)
		if _, ok := skip[v]; ok {
			continue
		}
		skip[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
