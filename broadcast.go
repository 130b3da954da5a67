package packedset

import (
	"math"
	"math/bits"
)

// Broadcast replicates the low bitWidth bits of value into every lane of a
// word. The fill doubles the number of populated lanes on each step, so a
// word of n lanes takes ceil(log2(n)) shift-or steps.
//
// Bits above the last whole lane are zero. A bitWidth outside [1, 64]
// yields 0.
func Broadcast(value uint64, bitWidth int) uint64 {
	if checkBits(bitWidth) != "" {
		return 0
	}
	lanes := WordBits / bitWidth

	w := value & laneMaskFor(bitWidth)
	for filled := 1; filled < lanes; filled *= 2 {
		w |= w << (filled * bitWidth)
	}
	return w & laneMaskFor(lanes*bitWidth)
}

// laneMaskFor returns n low bits set, for n in [1, 64].
func laneMaskFor(n int) uint64 {
	if n >= WordBits {
		return math.MaxUint64
	}
	return uint64(1)<<n - 1
}

// Broadcast replicates v into every lane of the layout. It computes the same
// word as the package-level Broadcast with a single multiply by the
// precomputed lowest-bit pattern.
func (l Layout) Broadcast(v uint64) uint64 {
	return (v & l.laneMask) * l.ones
}

// Get extracts lane i of w.
func (l Layout) Get(w uint64, i int) uint64 {
	return (w >> (i * l.bits)) & l.laneMask
}

// Put returns w with lane i replaced by v. Neighbouring lanes are untouched.
func (l Layout) Put(w uint64, i int, v uint64) uint64 {
	shift := i * l.bits
	return (w &^ (l.laneMask << shift)) | ((v & l.laneMask) << shift)
}

// MatchMask returns a word with the highest bit of every lane equal to v set.
//
// The lanes of w ^ Broadcast(v) are zero exactly where w holds v. Adding the
// low-bits mask to the low bits of each lane sets the lane's high bit iff any
// low bit was set, and the sum never carries out of its lane, so the result
// is exact per lane rather than only for the lowest match.
func (l Layout) MatchMask(w, v uint64) uint64 {
	return l.match(w, l.Broadcast(v))
}

// match is MatchMask against an already broadcast pattern.
func (l Layout) match(w, pattern uint64) uint64 {
	x := w ^ pattern
	nonzero := (((x & l.low) + l.low) | x) & l.high
	return ^nonzero & l.high
}

// Contains reports whether any lane of w equals v.
func (l Layout) Contains(w, v uint64) bool {
	return l.MatchMask(w, v) != 0
}

// Find returns the index of the lowest lane of w equal to v, or -1.
func (l Layout) Find(w, v uint64) int {
	m := l.MatchMask(w, v)
	if m == 0 {
		return -1
	}
	return bits.TrailingZeros64(m) / l.bits
}

// FindEmpty returns the index of the lowest sentinel lane of w, or -1.
func (l Layout) FindEmpty(w uint64) int {
	return l.Find(w, l.laneMask)
}

// CountEq returns how many lanes of w equal v.
func (l Layout) CountEq(w, v uint64) int {
	return bits.OnesCount64(l.MatchMask(w, v))
}

// Occupied returns the highest bit of every non-sentinel lane of w.
func (l Layout) Occupied(w uint64) uint64 {
	return l.high &^ l.MatchMask(w, l.laneMask)
}
