package packedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensity(t *testing.T) {
	rows, err := Density(5, 14)
	require.NoError(t, err)
	require.Len(t, rows, 10)

	wantLanes := []int{12, 10, 9, 8, 7, 6, 5, 5, 4, 4}
	wantWasted := []int{4, 4, 1, 0, 1, 4, 9, 4, 12, 8}
	for i, row := range rows {
		assert.Equal(t, 5+i, row.Bits)
		assert.Equal(t, wantLanes[i], row.Lanes, "bits=%d", row.Bits)
		assert.Equal(t, wantWasted[i], row.WastedBits, "bits=%d", row.Bits)
		assert.Equal(t, WordBits, row.BitsUsed+row.WastedBits)

		eff, err := PackingEfficiency(row.Bits)
		require.NoError(t, err)
		assert.InDelta(t, eff, row.Efficiency, 1e-12)
	}
}

func TestDensity_Invalid(t *testing.T) {
	_, err := Density(9, 5)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Density(0, 4)
	assert.ErrorIs(t, err, ErrConfig)
}
