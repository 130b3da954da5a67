package bench

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hupe1980/packedset/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trivialEntries() []Entry {
	return []Entry{
		{Name: "Noop_Fast/3", Suite: SuiteComparison, Container: "Fast", Bits: 11, Size: 3, Fn: func(b *testing.B) {
			for b.Loop() {
				sink++
			}
		}},
		{Name: "Alloc_PackedWord/7", Suite: SuiteWord, Bits: 7, Fn: func(b *testing.B) {
			var keepAlive []byte
			for b.Loop() {
				keepAlive = make([]byte, 64)
			}
			sink += uint64(len(keepAlive))
		}},
	}
}

func TestRunner(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := NewRunner(
		WithEntries(trivialEntries()),
		WithBenchTime(time.Millisecond),
		WithLogger(logger),
		WithSeed(7),
	)
	require.NoError(t, err)

	doc, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Records, 2)

	rec := doc.Records[0]
	assert.Equal(t, "Noop_Fast/3", rec.Name)
	assert.Equal(t, TimeUnit, rec.TimeUnit)
	assert.Positive(t, rec.Iterations)
	assert.GreaterOrEqual(t, rec.RealTime, 0.0)
	require.NotNil(t, rec.N)
	require.NotNil(t, rec.Size)
	assert.Equal(t, 11, *rec.N)
	assert.Equal(t, 3, *rec.Size)

	word := doc.Records[1]
	require.NotNil(t, word.N)
	assert.Equal(t, 7, *word.N)
	assert.Nil(t, word.Size)

	assert.Equal(t, int64(7), doc.Context.Seed)
	assert.NotEmpty(t, doc.Context.GoVersion)
	assert.NotEmpty(t, doc.Context.ISA)
	assert.Equal(t, "1ms", doc.Context.BenchTime)

	assert.Nil(t, rec.Bytes)
	assert.Contains(t, buf.String(), "container=Fast")
	assert.Contains(t, buf.String(), "benchmark completed")
	assert.Contains(t, buf.String(), "benchmark run completed")
}

func TestRunnerFilter(t *testing.T) {
	r, err := NewRunner(WithFilter(`^Find_PackedWord/(5|6)$`))
	require.NoError(t, err)

	var names []string
	for _, e := range r.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Find_PackedWord/5", "Find_PackedWord/6"}, names)

	_, err = NewRunner(WithFilter("nothing-matches"))
	assert.ErrorIs(t, err, ErrNoEntries)

	_, err = NewRunner(WithFilter("("))
	assert.Error(t, err)
}

func TestRunnerSkipsFailedBenchmarks(t *testing.T) {
	entries := append(trivialEntries(), Entry{Name: "Broken_X", Fn: func(b *testing.B) {
		b.Skip("not supported")
	}})
	r, err := NewRunner(WithEntries(entries), WithBenchTime(time.Millisecond))
	require.NoError(t, err)

	doc, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Records, 2)
}

func TestRunnerCanceled(t *testing.T) {
	r, err := NewRunner(WithEntries(trivialEntries()), WithBenchTime(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, doc.Records)
}

func TestRunnerMemoryFootprint(t *testing.T) {
	r, err := NewRunner(
		WithFilter(`^Memory_(PackedSet|Map)/5$`),
		WithBenchTime(time.Millisecond),
	)
	require.NoError(t, err)

	doc, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Records, 2)

	footprints := map[string]int64{}
	for _, rec := range doc.Records {
		require.NotNil(t, rec.Bytes, rec.Name)
		footprints[rec.Name] = *rec.Bytes
	}

	c, err := NewPackedSet(ComparisonSize, ComparisonBits)
	require.NoError(t, err)
	assert.Equal(t, int64(c.Footprint()), footprints["Memory_PackedSet/5"])
	assert.Greater(t, footprints["Memory_Map/5"], footprints["Memory_PackedSet/5"])
}
