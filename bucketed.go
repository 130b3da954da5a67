package packedset

import (
	"fmt"
	"math/bits"
	"unsafe"
)

const (
	// BucketedMaxValue is the largest value a BucketedSet stores.
	BucketedMaxValue = 1<<bucketValueBits - 1

	// MaxBuckets bounds the inline storage of each BucketedSet half.
	MaxBuckets = 16

	bucketValueBits = 11
	bucketLaneBits  = 11
	bucketLanes     = 3
	bucketDataMask  = 0x3FF // 10 data bits per lane
	bucketCountBits = 33

	bucketOnes = 1 | 1<<bucketLaneBits | 1<<(2*bucketLaneBits)
	bucketHigh = bucketOnes << (bucketLaneBits - 1) // guard bit of each lane
	bucketLow  = bucketOnes * bucketDataMask
	bucketData = 1<<(bucketLanes*bucketLaneBits) - 1
)

// bucketCountMasks selects the guard bits of the occupied lanes.
var bucketCountMasks = [bucketLanes + 1]uint64{
	0,
	1 << 10,
	1<<10 | 1<<21,
	1<<10 | 1<<21 | 1<<32,
}

// BucketedSet is a fixed-capacity set of 11-bit values that trades the
// sentinel for an explicit lane count.
//
// Values are routed by their top bit into a low or a high half. Each half is
// an array of buckets; a bucket word holds three 11-bit lanes (10 data bits
// and a zero guard bit) and the number of occupied lanes in bits 33-34:
//
//	[unused:29][count:2][G][val2:10][G][val1:10][G][val0:10]
//
// Occupied lanes are always the lowest ones, so erase moves the last lane
// into the hole. Because emptiness comes from the count, 0 is a legal value.
//
// Capacity applies to each half independently.
type BucketedSet struct {
	capacity int
	buckets  int
	size     [2]int
	halves   [2][MaxBuckets]uint64
}

// NewBucketed returns an empty BucketedSet that holds up to capacity values
// in each half.
func NewBucketed(capacity int) (BucketedSet, error) {
	if capacity <= 0 {
		return BucketedSet{}, configError(capacity, bucketValueBits, "capacity must be positive")
	}
	buckets := (capacity + bucketLanes - 1) / bucketLanes
	if buckets > MaxBuckets {
		return BucketedSet{}, configError(capacity, bucketValueBits,
			fmt.Sprintf("needs %d buckets per half, at most %d supported", buckets, MaxBuckets))
	}
	return BucketedSet{capacity: capacity, buckets: buckets}, nil
}

// Len returns the number of values in both halves.
func (s *BucketedSet) Len() int { return s.size[0] + s.size[1] }

// Cap returns the capacity of each half.
func (s *BucketedSet) Cap() int { return s.capacity }

const bucketedHeaderBytes = int(unsafe.Sizeof(BucketedSet{})) - 2*MaxBuckets*8

// Footprint returns the header size plus 8 bytes per bucket of both halves.
func (s *BucketedSet) Footprint() int {
	return bucketedHeaderBytes + 2*s.buckets*8
}

// Contains reports whether v is in the set.
func (s *BucketedSet) Contains(v uint64) (bool, error) {
	if v > BucketedMaxValue {
		return false, &DomainError{Value: v, Max: BucketedMaxValue}
	}
	half, lo := split(v)
	_, _, ok := s.find(half, lo)
	return ok, nil
}

// Insert adds v. It returns false without error when v is present and
// false with ErrCapacity when v's half is full.
func (s *BucketedSet) Insert(v uint64) (bool, error) {
	if v > BucketedMaxValue {
		return false, &DomainError{Value: v, Max: BucketedMaxValue}
	}
	half, lo := split(v)
	if _, _, ok := s.find(half, lo); ok {
		return false, nil
	}
	if s.size[half] >= s.capacity {
		return false, &CapacityError{Capacity: s.capacity}
	}

	buckets := s.halves[half][:s.buckets]
	for i, b := range buckets {
		cnt := bucketCount(b)
		if cnt < bucketLanes {
			buckets[i] = setBucketCount(setBucketLane(b, cnt, lo), cnt+1)
			s.size[half]++
			return true, nil
		}
	}
	return false, &CapacityError{Capacity: s.capacity}
}

// Erase removes v. Erasing an absent value returns false without error.
func (s *BucketedSet) Erase(v uint64) (bool, error) {
	if v > BucketedMaxValue {
		return false, &DomainError{Value: v, Max: BucketedMaxValue}
	}
	half, lo := split(v)
	idx, lane, ok := s.find(half, lo)
	if !ok {
		return false, nil
	}

	b := s.halves[half][idx]
	last := bucketCount(b) - 1
	b = setBucketLane(b, lane, bucketLane(b, last))
	b = setBucketLane(b, last, 0)
	s.halves[half][idx] = setBucketCount(b, last)
	s.size[half]--
	return true, nil
}

// Clear removes every value.
func (s *BucketedSet) Clear() {
	s.halves = [2][MaxBuckets]uint64{}
	s.size = [2]int{}
}

func split(v uint64) (half int, lo uint64) {
	return int(v >> (bucketValueBits - 1)), v & bucketDataMask
}

func (s *BucketedSet) find(half int, lo uint64) (bucket, lane int, ok bool) {
	pattern := lo * bucketOnes
	for i, b := range s.halves[half][:s.buckets] {
		if m := bucketMatch(b, pattern); m != 0 {
			return i, bits.TrailingZeros64(m) / bucketLaneBits, true
		}
	}
	return 0, 0, false
}

// bucketMatch returns the guard bit of every occupied lane equal to the
// broadcast pattern. Guard bits are zero in both operands, so adding the
// data mask sets a guard bit iff its lane differs.
func bucketMatch(b, pattern uint64) uint64 {
	x := (b & bucketData) ^ pattern
	nonzero := ((x & bucketLow) + bucketLow) & bucketHigh
	return ^nonzero & bucketCountMasks[bucketCount(b)]
}

func bucketCount(b uint64) int {
	return int(b >> bucketCountBits)
}

func setBucketCount(b uint64, cnt int) uint64 {
	return b&^(3<<bucketCountBits) | uint64(cnt)<<bucketCountBits
}

func bucketLane(b uint64, lane int) uint64 {
	return (b >> (lane * bucketLaneBits)) & bucketDataMask
}

func setBucketLane(b uint64, lane int, lo uint64) uint64 {
	shift := lane * bucketLaneBits
	return b&^(bucketDataMask<<shift) | lo<<shift
}
