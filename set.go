package packedset

import (
	"iter"
	"math/bits"
	"strconv"
	"strings"
	"unsafe"

	"github.com/hupe1980/packedset/internal/simd"
)

// Set is a fixed-capacity set of small unsigned integers packed into lanes
// of 64-bit words.
//
// Every lane holds either a value in [0, 2^b - 2] or the empty sentinel
// 2^b - 1. Lane order carries no meaning. Storage is an inline array, so a
// Set is a value type: assigning it copies the words.
//
// A Set is not safe for concurrent use. Insert, Contains and Erase never
// allocate.
//
// The zero Set has capacity 0; use New.
type Set struct {
	layout Layout
	size   int
	words  [MaxWords]uint64
}

// New returns an empty set holding up to capacity values of bitWidth bits.
func New(capacity, bitWidth int) (Set, error) {
	l, err := NewLayout(capacity, bitWidth)
	if err != nil {
		return Set{}, err
	}
	return newSet(l), nil
}

// NewForMax returns an empty set whose lane width is the smallest one that
// can store maxValue.
func NewForMax(capacity int, maxValue uint64) (Set, error) {
	return New(capacity, BitsFor(maxValue))
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(capacity, bitWidth int) Set {
	s, err := New(capacity, bitWidth)
	if err != nil {
		panic(err)
	}
	return s
}

func newSet(l Layout) Set {
	s := Set{layout: l}
	s.Clear()
	return s
}

// Layout returns the storage shape of the set.
func (s *Set) Layout() Layout { return s.layout }

// Len returns the number of values in the set.
func (s *Set) Len() int { return s.size }

// Cap returns the maximum number of values the set can hold.
func (s *Set) Cap() int { return s.layout.capacity }

// setHeaderBytes is the size of a Set without its word array.
const setHeaderBytes = int(unsafe.Sizeof(Set{})) - MaxWords*8

// Footprint returns the bytes the set needs for its layout: the header plus
// 8 bytes per word in use. The unused tail of the inline array is not
// counted.
func (s *Set) Footprint() int {
	return setHeaderBytes + s.layout.words*8
}

// Contains reports whether v is in the set.
//
// It fails with ErrDomain when v is above MaxValue, which includes the
// sentinel.
func (s *Set) Contains(v uint64) (bool, error) {
	if err := s.checkValue(v); err != nil {
		return false, err
	}
	_, _, ok := s.find(v)
	return ok, nil
}

// Insert adds v to the set, placing it in the lowest empty lane (word 0
// first). It returns false without error when v is already present, and
// false with ErrCapacity when the set is full.
func (s *Set) Insert(v uint64) (bool, error) {
	if err := s.checkValue(v); err != nil {
		return false, err
	}
	if _, _, ok := s.find(v); ok {
		return false, nil
	}
	if s.size >= s.layout.capacity {
		return false, &CapacityError{Capacity: s.layout.capacity}
	}

	empty := s.layout.lanesMask
	for i := 0; i < s.layout.words; i++ {
		m := s.layout.match(s.words[i], empty)
		if m == 0 {
			continue
		}
		lane := bits.TrailingZeros64(m) / s.layout.bits
		s.words[i] = s.layout.Put(s.words[i], lane, v)
		s.size++
		return true, nil
	}

	// Unreachable while size tracks the occupied lanes.
	return false, &CapacityError{Capacity: s.layout.capacity}
}

// Erase removes v from the set. Erasing an absent value returns false
// without error.
func (s *Set) Erase(v uint64) (bool, error) {
	if err := s.checkValue(v); err != nil {
		return false, err
	}
	word, lane, ok := s.find(v)
	if !ok {
		return false, nil
	}
	s.words[word] = s.layout.Put(s.words[word], lane, s.layout.laneMask)
	s.size--
	return true, nil
}

// Clear removes every value.
func (s *Set) Clear() {
	for i := 0; i < s.layout.words; i++ {
		s.words[i] = s.layout.lanesMask
	}
	s.size = 0
}

// Equal reports whether both sets have the same layout and bit-identical
// storage.
func (s *Set) Equal(other *Set) bool {
	if s.layout != other.layout || s.size != other.size {
		return false
	}
	return s.words == other.words
}

// Words returns a copy of the backing words.
func (s *Set) Words() []uint64 {
	out := make([]uint64, s.layout.words)
	copy(out, s.words[:s.layout.words])
	return out
}

// All returns an iterator over the values in lane order.
func (s *Set) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for i := 0; i < s.layout.words; i++ {
			w := s.words[i]
			for m := s.layout.Occupied(w); m != 0; m &= m - 1 {
				lane := bits.TrailingZeros64(m) / s.layout.bits
				if !yield(s.layout.Get(w, lane)) {
					return
				}
			}
		}
	}
}

// Values returns the values in lane order.
func (s *Set) Values() []uint64 {
	out := make([]uint64, 0, s.size)
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// Min returns the smallest value, or false if the set is empty.
func (s *Set) Min() (uint64, bool) {
	var (
		m  uint64
		ok bool
	)
	for v := range s.All() {
		if !ok || v < m {
			m, ok = v, true
		}
	}
	return m, ok
}

// Max returns the largest value, or false if the set is empty.
func (s *Set) Max() (uint64, bool) {
	var (
		m  uint64
		ok bool
	)
	for v := range s.All() {
		if !ok || v > m {
			m, ok = v, true
		}
	}
	return m, ok
}

// String returns the values in lane order, e.g. "{3 7}".
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for v := range s.All() {
		if !first {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(v, 10))
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}

func (s *Set) checkValue(v uint64) error {
	if s.layout.laneMask == 0 || v >= s.layout.laneMask {
		return &DomainError{Value: v, Max: s.layout.MaxValue()}
	}
	return nil
}

// find locates v. The pattern is broadcast once and compared against each
// word; at most one word produces a non-zero match mask.
func (s *Set) find(v uint64) (word, lane int, ok bool) {
	pattern := s.layout.Broadcast(v)
	for i := 0; i < s.layout.words; i++ {
		if m := s.layout.match(s.words[i], pattern); m != 0 {
			return i, bits.TrailingZeros64(m) / s.layout.bits, true
		}
	}
	return 0, 0, false
}

// scanLen counts occupied lanes from the storage alone.
func (s *Set) scanLen() int {
	var occupied [MaxWords]uint64
	for i := 0; i < s.layout.words; i++ {
		occupied[i] = s.layout.Occupied(s.words[i])
	}
	return simd.PopcountWords(occupied[:s.layout.words])
}
