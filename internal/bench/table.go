package bench

import (
	"fmt"
	"testing"

	"github.com/hupe1980/packedset"
	"github.com/hupe1980/packedset/testutil"
)

// Suite groups table entries.
type Suite string

const (
	// SuiteComparison runs every Container through the same operations.
	SuiteComparison Suite = "comparison"
	// SuiteWord measures the single-word primitives per bit width.
	SuiteWord Suite = "word"
)

const (
	// ComparisonBits is the lane width of the comparison suite.
	ComparisonBits = 11
	// ComparisonSize is the element count of the comparison suite.
	ComparisonSize = 5

	// MinWordBits and MaxWordBits bound the word suite.
	MinWordBits = 5
	MaxWordBits = 14

	// wordSetCapacity is the set capacity of SetInsert and SetContains.
	wordSetCapacity = 64

	// DefaultSeed generates the default workload.
	DefaultSeed = 42

	// WordContainer is the container tag of the word suite.
	WordContainer = "PackedWord"

	// BytesMetric is the custom metric the Memory operation reports.
	BytesMetric = "bytes"
)

// ComparisonOps are the operations of the comparison suite.
var ComparisonOps = []string{"Insert", "Contains", "ContainsMiss", "Erase", "Memory"}

// WordOps are the operations of the word suite.
var WordOps = []string{"Broadcast", "Extract", "ContainsHit", "ContainsMiss", "Find", "SetInsert", "SetContains"}

// Entry is one benchmark of the table.
type Entry struct {
	Name      string
	Suite     Suite
	Container string
	Bits      int
	// Size is the element count, or 0 where it does not apply.
	Size int
	Fn   func(b *testing.B)
}

// Workload is the input data of the comparison suite.
type Workload struct {
	Hits   []uint64
	Misses []uint64
}

// NewWorkload draws ComparisonSize distinct hits and as many misses that
// never collide with them, all in the packed domain of ComparisonBits.
func NewWorkload(seed int64) Workload {
	maxValue := uint64(1)<<ComparisonBits - 2
	rng := testutil.NewRNG(seed)
	hits := rng.DistinctValues(ComparisonSize, 1, maxValue)
	return Workload{
		Hits:   hits,
		Misses: rng.Disjoint(ComparisonSize, 1, maxValue, hits),
	}
}

var sink uint64

func keep(ok bool) {
	if ok {
		sink++
	}
}

// Table returns every benchmark, comparison suite first.
func Table(w Workload) []Entry {
	var entries []Entry

	for _, op := range ComparisonOps {
		for _, f := range Factories() {
			entries = append(entries, Entry{
				Name:      fmt.Sprintf("%s_%s/%d", op, f.Name, ComparisonSize),
				Suite:     SuiteComparison,
				Container: f.Name,
				Bits:      ComparisonBits,
				Size:      ComparisonSize,
				Fn:        comparisonBench(op, f, w),
			})
		}
	}

	for _, op := range WordOps {
		for bits := MinWordBits; bits <= MaxWordBits; bits++ {
			e := Entry{
				Name:      fmt.Sprintf("%s_%s/%d", op, WordContainer, bits),
				Suite:     SuiteWord,
				Container: WordContainer,
				Bits:      bits,
				Fn:        wordBench(op, bits),
			}
			if op == "SetInsert" || op == "SetContains" {
				e.Size = wordSetSize(bits)
			}
			entries = append(entries, e)
		}
	}
	return entries
}

func comparisonBench(op string, f Factory, w Workload) func(b *testing.B) {
	return func(b *testing.B) {
		c, err := f.New(ComparisonSize, ComparisonBits)
		if err != nil {
			b.Fatal(err)
		}
		fill := func() {
			c.Reset()
			for _, v := range w.Hits {
				c.Insert(v)
			}
		}

		b.ReportAllocs()
		switch op {
		case "Insert":
			for b.Loop() {
				fill()
			}
		case "Contains":
			fill()
			i := 0
			for b.Loop() {
				keep(c.Contains(w.Hits[i%len(w.Hits)]))
				i++
			}
		case "ContainsMiss":
			fill()
			i := 0
			for b.Loop() {
				keep(c.Contains(w.Misses[i%len(w.Misses)]))
				i++
			}
		case "Erase":
			// A fill followed by erasing every value; subtract Insert for
			// the erase share.
			for b.Loop() {
				fill()
				for _, v := range w.Hits {
					keep(c.Erase(v))
				}
			}
		case "Memory":
			// Builds a filled container per iteration; Bytes/op is what the
			// allocator saw, the bytes metric is the retained footprint.
			for b.Loop() {
				m, err := f.New(ComparisonSize, ComparisonBits)
				if err != nil {
					b.Fatal(err)
				}
				for _, v := range w.Hits {
					m.Insert(v)
				}
				c = m
			}
			b.ReportMetric(float64(c.Footprint()), BytesMetric)
		default:
			b.Fatalf("unknown operation %q", op)
		}
	}
}

func wordSetSize(bits int) int {
	return int(min(uint64(1)<<bits-2, wordSetCapacity))
}

// fullWord fills every lane with a random legal value in [1, MaxValue].
func fullWord(l packedset.Layout, rng *testutil.RNG) uint64 {
	var w uint64
	for i := 0; i < l.Lanes(); i++ {
		w = l.Put(w, i, 1+rng.Uint64n(l.MaxValue()))
	}
	return w
}

func wordBench(op string, bits int) func(b *testing.B) {
	return func(b *testing.B) {
		l, err := packedset.NewLayout(1, bits)
		if err != nil {
			b.Fatal(err)
		}
		rng := testutil.NewRNG(DefaultSeed)

		switch op {
		case "Broadcast":
			v := uint64(7)
			for b.Loop() {
				sink += packedset.Broadcast(v, bits)
			}
		case "Extract":
			w := fullWord(l, rng)
			lane := 0
			for b.Loop() {
				sink += l.Get(w, lane)
				lane = (lane + 1) % l.Lanes()
			}
		case "ContainsHit":
			w := fullWord(l, rng)
			target := l.Get(w, l.Lanes()/2)
			for b.Loop() {
				keep(l.Contains(w, target))
			}
		case "ContainsMiss":
			w := l.Broadcast(1)
			for b.Loop() {
				keep(l.Contains(w, l.MaxValue()))
			}
		case "Find":
			w := fullWord(l, rng)
			target := l.Get(w, l.Lanes()-1)
			for b.Loop() {
				sink += uint64(l.Find(w, target))
			}
		case "SetInsert":
			n := uint64(wordSetSize(bits))
			s := packedset.MustNew(wordSetCapacity, bits)
			for b.Loop() {
				s.Clear()
				for v := uint64(1); v <= n; v++ {
					ok, _ := s.Insert(v)
					keep(ok)
				}
			}
		case "SetContains":
			n := uint64(wordSetSize(bits))
			s := packedset.MustNew(wordSetCapacity, bits)
			for v := uint64(1); v <= n; v++ {
				if _, err := s.Insert(v); err != nil {
					b.Fatal(err)
				}
			}
			target := n / 2
			for b.Loop() {
				ok, _ := s.Contains(target)
				keep(ok)
			}
		default:
			b.Fatalf("unknown operation %q", op)
		}
	}
}
