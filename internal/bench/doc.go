// Package bench runs the packed set against baseline containers and
// collects the timings in a document that package report renders.
//
// Two suites are declared in a static table:
//
//   - comparison: Insert, Contains, ContainsMiss and Erase on every
//     Container at a fixed bit width and element count. Names look like
//     "Insert_PackedSet/5" where the suffix is the element count.
//   - word: the lane primitives on a single word for bit widths 5..14.
//     Names look like "Find_PackedWord/11" where the suffix is the width.
//
// Every record carries the bit width as N and, where it applies, the
// element count as size.
package bench
