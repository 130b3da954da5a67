package packedset_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/packedset"
)

// Example demonstrates the basic set lifecycle.
func Example() {
	s, err := packedset.New(15, 4) // 15 values of 4 bits in one word
	if err != nil {
		log.Fatal(err)
	}

	for _, v := range []uint64{3, 7, 3} {
		if _, err := s.Insert(v); err != nil {
			log.Fatal(err)
		}
	}

	ok, _ := s.Contains(3)
	fmt.Println(ok, s.Len(), &s)

	if _, err := s.Erase(3); err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.Len(), &s)

	// Output:
	// true 2 {3 7}
	// 1 {7}
}

// ExampleSet_Insert shows how a full set and an out-of-domain value surface.
func ExampleSet_Insert() {
	s := packedset.MustNew(2, 5)

	_, _ = s.Insert(1)
	_, _ = s.Insert(2)

	_, err := s.Insert(3)
	fmt.Println(errors.Is(err, packedset.ErrCapacity))

	_, err = s.Insert(31) // the sentinel for 5-bit lanes
	fmt.Println(err)

	// Output:
	// true
	// value 31 outside domain [0, 30]
}

// ExampleNewLayout prints the storage shape for 11-bit lanes.
func ExampleNewLayout() {
	l, err := packedset.NewLayout(5, 11)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(l)
	fmt.Printf("sentinel=%d max=%d efficiency=%.4f\n", l.Sentinel(), l.MaxValue(), l.Efficiency())

	// Output:
	// layout(capacity=5 bits=11 lanes=5 words=1)
	// sentinel=2047 max=2046 efficiency=0.8594
}

// ExampleBroadcast replicates a value into every 8-bit lane.
func ExampleBroadcast() {
	fmt.Printf("%#x\n", packedset.Broadcast(0xAB, 8))
	fmt.Printf("%#x\n", packedset.Broadcast(1, 5))

	// Output:
	// 0xabababababababab
	// 0x84210842108421
}

// ExampleDensity lists how densely a few lane widths pack.
func ExampleDensity() {
	rows, err := packedset.Density(5, 8)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range rows {
		fmt.Printf("b=%d lanes=%d wasted=%d\n", r.Bits, r.Lanes, r.WastedBits)
	}

	// Output:
	// b=5 lanes=12 wasted=4
	// b=6 lanes=10 wasted=4
	// b=7 lanes=9 wasted=1
	// b=8 lanes=8 wasted=0
}
