package bench

import (
	"testing"

	"github.com/hupe1980/packedset"
	"github.com/hupe1980/packedset/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainers(t *testing.T) {
	for _, f := range Factories() {
		t.Run(f.Name, func(t *testing.T) {
			c, err := f.New(ComparisonSize, ComparisonBits)
			require.NoError(t, err)
			assert.Equal(t, f.Name, c.Name())

			w := NewWorkload(DefaultSeed)
			for _, v := range w.Hits {
				assert.True(t, c.Insert(v), "insert %d", v)
			}
			assert.False(t, c.Insert(w.Hits[0]), "duplicate insert")
			assert.False(t, c.Insert(w.Misses[0]), "insert into full container")

			for _, v := range w.Hits {
				assert.True(t, c.Contains(v), "contains %d", v)
			}
			for _, v := range w.Misses {
				assert.False(t, c.Contains(v), "contains miss %d", v)
			}

			assert.True(t, c.Erase(w.Hits[2]))
			assert.False(t, c.Erase(w.Hits[2]))
			assert.False(t, c.Contains(w.Hits[2]))
			assert.True(t, c.Insert(w.Misses[0]))

			c.Reset()
			for _, v := range w.Hits {
				assert.False(t, c.Contains(v))
			}
			assert.True(t, c.Insert(w.Hits[0]))
		})
	}
}

func TestContainersAgainstModel(t *testing.T) {
	const size = 8
	maxValue := uint64(1)<<ComparisonBits - 2

	for _, f := range Factories() {
		t.Run(f.Name, func(t *testing.T) {
			c, err := f.New(size, ComparisonBits)
			require.NoError(t, err)

			rng := testutil.NewRNG(5)
			pool := rng.DistinctValues(20, 0, maxValue)
			model := map[uint64]bool{}

			for step := 0; step < 2000; step++ {
				v := pool[rng.Intn(len(pool))]
				switch rng.Intn(3) {
				case 0:
					want := !model[v] && len(model) < size
					require.Equal(t, want, c.Insert(v), "step %d insert %d", step, v)
					if want {
						model[v] = true
					}
				case 1:
					require.Equal(t, model[v], c.Erase(v), "step %d erase %d", step, v)
					delete(model, v)
				default:
					require.Equal(t, model[v], c.Contains(v), "step %d contains %d", step, v)
				}
			}
		})
	}
}

func TestFootprint(t *testing.T) {
	w := NewWorkload(DefaultSeed)
	filled := func(t *testing.T, name string) Container {
		t.Helper()
		f, ok := FactoryByName(name)
		require.True(t, ok, name)
		c, err := f.New(ComparisonSize, ComparisonBits)
		require.NoError(t, err)
		for _, v := range w.Hits {
			require.True(t, c.Insert(v))
		}
		return c
	}

	t.Run("PackedSetCountsWordsInUse", func(t *testing.T) {
		c := filled(t, "PackedSet")
		s := packedset.MustNew(ComparisonSize, ComparisonBits)
		assert.Equal(t, s.Footprint(), c.Footprint())

		// One word plus the header; the same header for a larger set.
		header := c.Footprint() - 8*s.Layout().Words()
		assert.Positive(t, header)
		big := packedset.MustNew(64, 14)
		assert.Equal(t, header+8*16, big.Footprint())

		c.Reset()
		assert.Equal(t, s.Footprint(), c.Footprint(), "fixed storage does not shrink")
	})

	t.Run("MapIsLarger", func(t *testing.T) {
		assert.Greater(t, filled(t, "Map").Footprint(), filled(t, "PackedSet").Footprint())
	})

	t.Run("Array", func(t *testing.T) {
		assert.Equal(t, 16+8*ComparisonSize, filled(t, "Array").Footprint())
	})

	for _, f := range Factories() {
		t.Run("Positive"+f.Name, func(t *testing.T) {
			assert.Positive(t, filled(t, f.Name).Footprint())
		})
	}
}

func TestMapFootprint(t *testing.T) {
	group := mapGroupBytes
	assert.Equal(t, mapHeaderBytes+group, mapFootprint(0))
	assert.Equal(t, mapHeaderBytes+group, mapFootprint(7))
	assert.Equal(t, mapHeaderBytes+2*group, mapFootprint(8))
	assert.Equal(t, mapHeaderBytes+4*group, mapFootprint(20))
}

func TestFactoryErrors(t *testing.T) {
	_, err := NewBucketed(5, 8)
	assert.ErrorIs(t, err, packedset.ErrConfig)

	_, err = NewPackedSet(5, 0)
	assert.ErrorIs(t, err, packedset.ErrConfig)

	_, err = NewArray(MaxArraySize+1, 11)
	assert.ErrorIs(t, err, packedset.ErrConfig)

	_, err = NewBitset(5, 40)
	assert.ErrorIs(t, err, packedset.ErrConfig)

	f, ok := FactoryByName("BTree")
	require.True(t, ok)
	assert.Equal(t, "BTree", f.Name)

	_, ok = FactoryByName("StdSet")
	assert.False(t, ok)
}
