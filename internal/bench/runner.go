package bench

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/packedset/internal/logging"
	"github.com/hupe1980/packedset/internal/simd"
)

// ErrNoEntries is returned when the filter matches nothing.
var ErrNoEntries = errors.New("bench: filter matched no benchmarks")

// TimeUnit is the unit of Record.RealTime.
const TimeUnit = "ns"

// Record is one benchmark result.
type Record struct {
	Name        string  `json:"name"`
	RealTime    float64 `json:"real_time"`
	TimeUnit    string  `json:"time_unit"`
	Iterations  int     `json:"iterations"`
	N           *int    `json:"N,omitempty"`
	Size        *int    `json:"size,omitempty"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
	// Bytes is the footprint of a filled container, set by Memory entries.
	Bytes *int64 `json:"bytes,omitempty"`
}

// Context describes the machine and toolchain of a run.
type Context struct {
	Date        time.Time `json:"date"`
	GoVersion   string    `json:"go_version"`
	GOOS        string    `json:"goos"`
	GOARCH      string    `json:"goarch"`
	NumCPU      int       `json:"num_cpus"`
	ISA         string    `json:"isa"`
	CPUFeatures []string  `json:"cpu_features,omitempty"`
	Seed        int64     `json:"seed"`
	BenchTime   string    `json:"bench_time,omitempty"`
}

// Document is a complete run.
type Document struct {
	Context Context  `json:"context"`
	Records []Record `json:"benchmarks"`
}

// Option configures a Runner.
type Option func(*options)

type options struct {
	logger    *logging.Logger
	filter    string
	benchTime time.Duration
	seed      int64
	entries   []Entry
	now       func() time.Time
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFilter keeps the entries whose name matches the regular expression.
func WithFilter(expr string) Option {
	return func(o *options) {
		o.filter = expr
	}
}

// WithBenchTime sets the target run time of each benchmark. Zero keeps the
// testing package default.
func WithBenchTime(d time.Duration) Option {
	return func(o *options) {
		o.benchTime = d
	}
}

// WithSeed sets the workload seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithEntries replaces the benchmark table.
func WithEntries(entries []Entry) Option {
	return func(o *options) {
		o.entries = entries
	}
}

// Runner executes table entries with testing.Benchmark.
type Runner struct {
	opts    options
	entries []Entry
}

// NewRunner builds a runner. It fails on an invalid filter.
func NewRunner(optFns ...Option) (*Runner, error) {
	opts := options{
		logger: logging.NoopLogger(),
		seed:   DefaultSeed,
		now:    time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	entries := opts.entries
	if entries == nil {
		entries = Table(NewWorkload(opts.seed))
	}

	if opts.filter != "" {
		re, err := regexp.Compile(opts.filter)
		if err != nil {
			return nil, fmt.Errorf("bench: invalid filter: %w", err)
		}
		var kept []Entry
		for _, e := range entries {
			if re.MatchString(e.Name) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return &Runner{opts: opts, entries: entries}, nil
}

// Entries returns the entries the runner will execute.
func (r *Runner) Entries() []Entry { return r.entries }

var initBenchFlags sync.Once

// setBenchTime sets -test.benchtime, which testing.Benchmark reads.
func setBenchTime(d time.Duration) error {
	initBenchFlags.Do(testing.Init)
	return flag.Set("test.benchtime", d.String())
}

// Run executes every entry in order. It stops between entries when ctx is
// done and returns the records collected so far with ctx's error.
func (r *Runner) Run(ctx context.Context) (*Document, error) {
	if r.opts.benchTime > 0 {
		if err := setBenchTime(r.opts.benchTime); err != nil {
			return nil, fmt.Errorf("bench: set bench time: %w", err)
		}
	}

	doc := &Document{Context: r.runContext()}
	start := r.opts.now()
	skipped := 0

	for _, e := range r.entries {
		if err := ctx.Err(); err != nil {
			return doc, err
		}

		log := r.opts.logger.WithSuite(string(e.Suite))
		if e.Container != "" {
			log = log.WithContainer(e.Container)
		}
		res := testing.Benchmark(e.Fn)
		if res.N == 0 {
			skipped++
			log.LogRun(ctx, e.Name, 0, 0, errors.New("benchmark produced no iterations"))
			continue
		}

		rec := newRecord(e, res)
		log.LogRun(ctx, e.Name, rec.Iterations, rec.RealTime, nil)
		doc.Records = append(doc.Records, rec)
	}

	r.opts.logger.LogSuite(ctx, len(r.entries), skipped, r.opts.now().Sub(start))
	return doc, nil
}

func newRecord(e Entry, res testing.BenchmarkResult) Record {
	rec := Record{
		Name:        e.Name,
		RealTime:    float64(res.T.Nanoseconds()) / float64(res.N),
		TimeUnit:    TimeUnit,
		Iterations:  res.N,
		BytesPerOp:  res.AllocedBytesPerOp(),
		AllocsPerOp: res.AllocsPerOp(),
	}
	if e.Bits > 0 {
		n := e.Bits
		rec.N = &n
	}
	if e.Size > 0 {
		size := e.Size
		rec.Size = &size
	}
	if v, ok := res.Extra[BytesMetric]; ok {
		n := int64(v)
		rec.Bytes = &n
	}
	return rec
}

func (r *Runner) runContext() Context {
	c := Context{
		Date:        r.opts.now().UTC(),
		GoVersion:   runtime.Version(),
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		ISA:         simd.ActiveISA().String(),
		CPUFeatures: simd.Features(),
		Seed:        r.opts.seed,
	}
	if r.opts.benchTime > 0 {
		c.BenchTime = r.opts.benchTime.String()
	}
	return c
}
