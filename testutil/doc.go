// Package testutil provides testing utilities for packedset.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG with helpers for generating
// distinct small integers inside a value domain.
//
//	rng := testutil.NewRNG(42)
//	vals := rng.DistinctValues(5, 0, 1022)        // members
//	miss := rng.Disjoint(5, 0, 1022, vals)        // guaranteed misses
package testutil
