package simd

import "math/bits"

// kernelPopcountWords relies on math/bits, which the compiler lowers to
// POPCNT (x86-64) or CNT (ARM64) where the CPU has them.
var kernelPopcountWords = popcountWordsGeneric

// PopcountWords counts all set bits across words.
func PopcountWords(words []uint64) int {
	return kernelPopcountWords(words)
}

func popcountWordsGeneric(words []uint64) int {
	count := 0
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i])
		count += bits.OnesCount64(words[i+1])
		count += bits.OnesCount64(words[i+2])
		count += bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}
