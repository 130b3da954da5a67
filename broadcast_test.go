package packedset

import (
	"fmt"
	"math"
	"testing"

	"github.com/hupe1980/packedset/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLayout(t testing.TB, capacity, bits int) Layout {
	t.Helper()
	l, err := NewLayout(capacity, bits)
	require.NoError(t, err)
	return l
}

func TestBroadcast(t *testing.T) {
	t.Run("KnownWords", func(t *testing.T) {
		assert.Equal(t, uint64(0xABABABABABABABAB), Broadcast(0xAB, 8))
		assert.Equal(t, uint64(0x0FFFFFFFFFFFFFFF), Broadcast(0x1F, 5))
		assert.Equal(t, uint64(math.MaxUint64), Broadcast(1, 1))
		assert.Equal(t, uint64(42), Broadcast(42, 64))
		assert.Equal(t, uint64(0), Broadcast(0, 11))
	})

	t.Run("TruncatesValue", func(t *testing.T) {
		assert.Equal(t, Broadcast(0x3, 4), Broadcast(0xF3, 4))
	})

	t.Run("InvalidWidth", func(t *testing.T) {
		assert.Equal(t, uint64(0), Broadcast(7, 0))
		assert.Equal(t, uint64(0), Broadcast(7, 65))
	})

	for b := 1; b <= 64; b++ {
		t.Run(fmt.Sprintf("N%d", b), func(t *testing.T) {
			l := mustLayout(t, 1, b)
			v := uint64(3) & l.laneMask

			w := Broadcast(v, b)
			for i := 0; i < l.Lanes(); i++ {
				assert.Equal(t, v, l.Get(w, i), "lane=%d", i)
			}

			used := l.Lanes() * b
			if used < WordBits {
				assert.Zero(t, w>>used, "bits above the last lane must stay clear")
			}
		})
	}
}

func TestLayoutBroadcastMatchesDoubling(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for b := 1; b <= 64; b++ {
		l := mustLayout(t, 1, b)
		values := []uint64{0, 1, l.MaxValue(), l.Sentinel(), rng.Uint64n(l.Sentinel())}
		for _, v := range values {
			assert.Equal(t, Broadcast(v, b), l.Broadcast(v), "bits=%d value=%d", b, v)
		}
	}
}

func TestGetPut(t *testing.T) {
	for _, b := range []int{5, 6, 8, 11, 14} {
		t.Run(fmt.Sprintf("RoundTripN%d", b), func(t *testing.T) {
			l := mustLayout(t, 1, b)
			var w uint64
			for i := 0; i < l.Lanes(); i++ {
				w = l.Put(w, i, uint64(i+1)&l.laneMask)
			}
			for i := 0; i < l.Lanes(); i++ {
				assert.Equal(t, uint64(i+1)&l.laneMask, l.Get(w, i), "lane=%d", i)
			}
		})
	}

	for _, b := range []int{5, 14} {
		t.Run(fmt.Sprintf("NoClobberN%d", b), func(t *testing.T) {
			l := mustLayout(t, 1, b)
			w := l.Put(l.Broadcast(1), 0, l.laneMask)

			assert.Equal(t, l.laneMask, l.Get(w, 0))
			for i := 1; i < l.Lanes(); i++ {
				assert.Equal(t, uint64(1), l.Get(w, i), "lane=%d", i)
			}
		})
	}
}

func TestMatchMask(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		l := mustLayout(t, 8, 8)
		var w uint64
		for i, v := range []uint64{3, 5, 3, 7, 3, 0, 0, 0} {
			w = l.Put(w, i, v)
		}

		assert.Equal(t, 3, l.CountEq(w, 3))
		assert.Equal(t, 1, l.CountEq(w, 5))
		assert.Equal(t, 3, l.CountEq(w, 0))
		assert.Equal(t, 0, l.CountEq(w, 9))
		assert.Equal(t, 0, l.Find(w, 3))
		assert.Equal(t, 1, l.Find(w, 5))
		assert.Equal(t, 5, l.Find(w, 0))
		assert.Equal(t, -1, l.Find(w, 9))
		assert.True(t, l.Contains(w, 7))
		assert.False(t, l.Contains(w, 8))
	})

	t.Run("AdjacentMatches", func(t *testing.T) {
		// A match directly below a lane holding 1 is where the borrowing
		// zero-byte test reports a false positive.
		l := mustLayout(t, 8, 8)
		var w uint64
		for i, v := range []uint64{0, 1, 0, 1, 1, 1, 1, 1} {
			w = l.Put(w, i, v)
		}
		assert.Equal(t, 2, l.CountEq(w, 0))
	})

	t.Run("FindEmptyAndOccupied", func(t *testing.T) {
		l := mustLayout(t, 16, 4)
		w := l.Empty()
		assert.Equal(t, 0, l.FindEmpty(w))
		assert.Zero(t, l.Occupied(w))

		w = l.Put(w, 0, 5)
		w = l.Put(w, 1, 10)
		assert.Equal(t, 2, l.FindEmpty(w))
		assert.Equal(t, uint64(0x88), l.Occupied(w))

		full := l.Broadcast(9)
		assert.Equal(t, -1, l.FindEmpty(full))
		assert.Equal(t, l.high, l.Occupied(full))
	})

	t.Run("RandomWordsAgreeWithLaneScan", func(t *testing.T) {
		rng := testutil.NewRNG(42)

		for b := 1; b <= 64; b++ {
			l := mustLayout(t, 1, b)
			// A small alphabet forces repeated values and matches.
			alphabet := []uint64{0, 1, l.MaxValue(), l.Sentinel(), rng.Uint64n(l.Sentinel())}

			for round := 0; round < 50; round++ {
				var w uint64
				for i := 0; i < l.Lanes(); i++ {
					w = l.Put(w, i, alphabet[rng.Intn(len(alphabet))])
				}

				for _, v := range alphabet {
					count, first := 0, -1
					for i := 0; i < l.Lanes(); i++ {
						if l.Get(w, i) == v {
							if first < 0 {
								first = i
							}
							count++
						}
					}
					require.Equal(t, count, l.CountEq(w, v), "bits=%d word=%#x value=%d", b, w, v)
					require.Equal(t, first, l.Find(w, v), "bits=%d word=%#x value=%d", b, w, v)
				}
			}
		}
	})
}
