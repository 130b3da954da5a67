package packedset

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	// WordBits is the number of bits in a storage word.
	WordBits = 64

	// MaxWords bounds the inline storage of a Set.
	// 16 words hold 64 lanes at 14 bits and 1024 lanes at 1 bit.
	MaxWords = 16
)

// Layout is the validated storage shape of a packed set: the lane width,
// how many lanes fit in a word, how many words the capacity needs, and the
// per-lane masks the SWAR primitives work with.
//
// Lanes never straddle a word. A word holds floor(64/b) lanes and the
// remaining 64 mod b high bits stay zero.
type Layout struct {
	capacity int
	bits     int
	lanes    int
	words    int

	laneMask  uint64 // one lane, all ones
	lanesMask uint64 // every lane, all ones
	ones      uint64 // lowest bit of every lane
	high      uint64 // highest bit of every lane
	low       uint64 // every lane without its highest bit
}

// NewLayout validates a (capacity, bit width) pair.
//
// It fails with ErrConfig when bits is 0 or above 64, when capacity is not
// positive, or when the capacity needs more than MaxWords words.
func NewLayout(capacity, bitWidth int) (Layout, error) {
	if reason := checkBits(bitWidth); reason != "" {
		return Layout{}, configError(capacity, bitWidth, reason)
	}
	if capacity <= 0 {
		return Layout{}, configError(capacity, bitWidth, "capacity must be positive")
	}

	lanes := WordBits / bitWidth
	words := (capacity + lanes - 1) / lanes
	if words > MaxWords {
		return Layout{}, configError(capacity, bitWidth,
			fmt.Sprintf("needs %d words, at most %d supported", words, MaxWords))
	}

	laneMask := uint64(math.MaxUint64)
	if bitWidth < WordBits {
		laneMask = uint64(1)<<bitWidth - 1
	}

	l := Layout{
		capacity: capacity,
		bits:     bitWidth,
		lanes:    lanes,
		words:    words,
		laneMask: laneMask,
	}
	l.ones = Broadcast(1, bitWidth)
	l.lanesMask = Broadcast(laneMask, bitWidth)
	l.high = l.ones << (bitWidth - 1)
	l.low = l.lanesMask &^ l.high

	return l, nil
}

// Capacity returns the maximum number of live elements.
func (l Layout) Capacity() int { return l.capacity }

// Bits returns the lane width.
func (l Layout) Bits() int { return l.bits }

// Lanes returns the number of lanes per word.
func (l Layout) Lanes() int { return l.lanes }

// Words returns the number of words backing the capacity.
func (l Layout) Words() int { return l.words }

// Sentinel returns the reserved empty-lane value, 2^b - 1.
func (l Layout) Sentinel() uint64 { return l.laneMask }

// MaxValue returns the largest storable value, 2^b - 2.
// The zero Layout has no domain and reports 0.
func (l Layout) MaxValue() uint64 {
	if l.laneMask == 0 {
		return 0
	}
	return l.laneMask - 1
}

// Empty returns a word with every lane set to the sentinel.
func (l Layout) Empty() uint64 { return l.lanesMask }

// Efficiency returns the packing efficiency of the lane width.
func (l Layout) Efficiency() float64 {
	return float64(l.lanes*l.bits) / WordBits
}

// String returns a compact description of the layout.
func (l Layout) String() string {
	return fmt.Sprintf("layout(capacity=%d bits=%d lanes=%d words=%d)", l.capacity, l.bits, l.lanes, l.words)
}

// LanesPerWord returns floor(64 / b).
func LanesPerWord(bitWidth int) (int, error) {
	if reason := checkBits(bitWidth); reason != "" {
		return 0, configError(0, bitWidth, reason)
	}
	return WordBits / bitWidth, nil
}

func checkBits(bitWidth int) string {
	switch {
	case bitWidth <= 0:
		return "bit width must be positive"
	case bitWidth > WordBits:
		return "bit width exceeds word size"
	default:
		return ""
	}
}

// WordsNeeded returns ceil(capacity / LanesPerWord(b)).
func WordsNeeded(capacity, bitWidth int) (int, error) {
	lanes, err := LanesPerWord(bitWidth)
	if err != nil {
		return 0, err
	}
	if capacity < 0 {
		return 0, configError(capacity, bitWidth, "capacity must not be negative")
	}
	return (capacity + lanes - 1) / lanes, nil
}

// BitOffset returns the bit offset of a lane within its word.
// The caller guarantees lane < LanesPerWord(b).
func BitOffset(lane, bitWidth int) int {
	return lane * bitWidth
}

// PackingEfficiency returns the fraction of a word covered by lanes.
// It is a reporting metric and has no effect on correctness.
func PackingEfficiency(bitWidth int) (float64, error) {
	lanes, err := LanesPerWord(bitWidth)
	if err != nil {
		return 0, err
	}
	return float64(lanes*bitWidth) / WordBits, nil
}

// BitsFor returns the smallest lane width whose domain [0, 2^b - 2]
// covers maxValue. The extra value is the empty sentinel.
//
// math.MaxUint64 cannot be covered and yields 65, which NewLayout rejects.
func BitsFor(maxValue uint64) int {
	if maxValue == math.MaxUint64 {
		return WordBits + 1
	}
	return bits.Len64(maxValue + 1)
}
