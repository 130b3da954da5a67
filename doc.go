// Package packedset provides a fixed-capacity set of small unsigned integers
// packed into fixed-width lanes of 64-bit words.
//
// Membership and mutation work on whole words at a time ("SIMD within a
// register"): a query value is broadcast into every lane, XORed against the
// stored word, and a carry-isolated add turns each all-zero lane into a set
// high bit. One word compare answers "is v in any of these lanes" without a
// per-lane loop.
//
// # Layout
//
// A lane is b bits wide. A word holds floor(64/b) lanes; lanes never cross a
// word boundary. The value 2^b - 1 marks an empty lane, so the value domain
// is [0, 2^b - 2]:
//
//	b    lanes  wasted bits  domain
//	5    12     4            [0, 30]
//	8    8      0            [0, 254]
//	11   5      9            [0, 2046]
//	14   4      8            [0, 16382]
//
// # Quick Start
//
//	s, err := packedset.New(15, 4) // 15 values of 4 bits, one word
//	if err != nil {
//	    return err
//	}
//	s.Insert(3)
//	s.Insert(7)
//	ok, _ := s.Contains(3) // true
//	s.Erase(3)
//	fmt.Println(s.Len())   // 1
//
// # Errors
//
//   - ErrConfig: the (capacity, bit width) pair cannot be laid out.
//   - ErrDomain: the value is above 2^b - 2 (the sentinel included).
//   - ErrCapacity: Insert on a full set. A full set is a normal state;
//     Erase frees a lane and the insert can be retried.
//
// Erasing or looking up an absent value is not an error.
//
// # Concurrency
//
// Sets are single-owner values with no internal locking. Wrap them in a
// mutex if they are shared.
//
// BucketedSet is an alternative layout for 11-bit values that keeps a lane
// count per word instead of reserving a sentinel value.
package packedset
