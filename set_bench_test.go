package packedset

import (
	"fmt"
	"testing"

	"github.com/hupe1980/packedset/testutil"
)

var benchSink uint64

func BenchmarkBroadcast(b *testing.B) {
	for bits := 5; bits <= 14; bits++ {
		b.Run(fmt.Sprintf("N%d", bits), func(b *testing.B) {
			var acc uint64
			for b.Loop() {
				acc += Broadcast(acc&7, bits)
			}
			benchSink = acc
		})
	}
}

func BenchmarkSetContains(b *testing.B) {
	for _, bits := range []int{5, 8, 11, 14} {
		l := mustLayout(b, 16, bits)
		rng := testutil.NewRNG(1)
		vals := rng.DistinctValues(16, 0, l.MaxValue())

		s := MustNew(16, bits)
		for _, v := range vals[:8] {
			if _, err := s.Insert(v); err != nil {
				b.Fatal(err)
			}
		}

		b.Run(fmt.Sprintf("HitN%d", bits), func(b *testing.B) {
			i := 0
			for b.Loop() {
				ok, _ := s.Contains(vals[i&7])
				if ok {
					benchSink++
				}
				i++
			}
		})
		b.Run(fmt.Sprintf("MissN%d", bits), func(b *testing.B) {
			i := 0
			for b.Loop() {
				ok, _ := s.Contains(vals[8+i&7])
				if ok {
					benchSink++
				}
				i++
			}
		})
	}
}

func BenchmarkSetInsertErase(b *testing.B) {
	for _, bits := range []int{5, 11} {
		b.Run(fmt.Sprintf("N%d", bits), func(b *testing.B) {
			b.ReportAllocs()
			s := MustNew(5, bits)
			for b.Loop() {
				for v := uint64(0); v < 5; v++ {
					_, _ = s.Insert(v)
				}
				for v := uint64(0); v < 5; v++ {
					_, _ = s.Erase(v)
				}
			}
		})
	}
}

func BenchmarkBucketedContains(b *testing.B) {
	s, err := NewBucketed(5)
	if err != nil {
		b.Fatal(err)
	}
	for _, v := range []uint64{3, 500, 1024, 1500, 2047} {
		if _, err := s.Insert(v); err != nil {
			b.Fatal(err)
		}
	}

	i := uint64(0)
	for b.Loop() {
		ok, _ := s.Contains(i & BucketedMaxValue)
		if ok {
			benchSink++
		}
		i++
	}
}
