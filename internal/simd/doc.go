// Package simd provides word-slice kernels and CPU capability detection.
//
// # Supported Platforms
//
//   - x86-64: POPCNT, BMI1/BMI2
//   - ARM64: NEON
//
// The kernels are written against math/bits; the detected ISA is reported
// alongside benchmark results so runs on different machines can be told
// apart. Set PACKEDSET_ISA to pin the reported level (it is ignored when the
// CPU lacks the requested features).
package simd
