package packedset

import "fmt"

// DensityRow describes how well one lane width packs into a word.
type DensityRow struct {
	Bits       int     `json:"bits"`
	Lanes      int     `json:"lanes"`
	BitsUsed   int     `json:"bits_used"`
	WastedBits int     `json:"wasted_bits"`
	Efficiency float64 `json:"efficiency"`
}

// Density returns one row per lane width in [minBits, maxBits].
// It depends on the widths alone, not on any live set.
func Density(minBits, maxBits int) ([]DensityRow, error) {
	if minBits > maxBits {
		return nil, fmt.Errorf("%w: empty bit range [%d, %d]", ErrConfig, minBits, maxBits)
	}

	rows := make([]DensityRow, 0, maxBits-minBits+1)
	for b := minBits; b <= maxBits; b++ {
		lanes, err := LanesPerWord(b)
		if err != nil {
			return nil, err
		}
		used := lanes * b
		rows = append(rows, DensityRow{
			Bits:       b,
			Lanes:      lanes,
			BitsUsed:   used,
			WastedBits: WordBits - used,
			Efficiency: float64(used) / WordBits,
		})
	}
	return rows, nil
}
