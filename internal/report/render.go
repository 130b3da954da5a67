package report

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hupe1980/packedset"
	"github.com/hupe1980/packedset/internal/bench"
)

// Option configures rendering.
type Option func(*options)

type options struct {
	color bool
}

// WithColor forces colored output on or off. By default color follows
// whether stdout is a terminal.
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = enabled
	}
}

func newOptions(optFns []Option) options {
	o := options{color: !color.NoColor}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

func (o options) paint(attr color.Attribute) func(a ...any) string {
	c := color.New(attr)
	if o.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

// FormatLatency renders nanoseconds with an SI prefix, e.g. "3.25 ns".
func FormatLatency(ns float64) string {
	if math.IsNaN(ns) || ns < 0 {
		return "?"
	}
	if ns == 0 {
		return "0 s"
	}
	return humanize.SIWithDigits(ns*1e-9, 2, "s")
}

func metaInt(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func metaBytes(v *int64) string {
	if v == nil {
		return "?"
	}
	return humanize.Bytes(uint64(max(*v, 0)))
}

// RenderComparison writes one table per operation of the comparison suite.
// The fastest container of each operation is highlighted. Operations that
// report a footprint get a Bytes column.
func RenderComparison(w io.Writer, records []bench.Record, optFns ...Option) error {
	o := newOptions(optFns)
	green := o.paint(color.FgGreen)
	bold := o.paint(color.Bold)

	g := Group(records, IsComparison)
	if len(g.Ops) == 0 {
		_, err := fmt.Fprintln(w, "no comparison benchmarks")
		return err
	}

	for i, op := range g.Ops {
		points := g.ByOp[op]
		first := points[0].Record
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s (N=%s, size=%s)\n", bold(op), metaInt(first.N), metaInt(first.Size)); err != nil {
			return err
		}

		fastest := math.Inf(1)
		for _, p := range points {
			fastest = min(fastest, p.Record.RealTime)
		}

		header := []string{"Container", "Time/op", "Relative", "Allocs/op", "Bytes/op"}
		footprint := slices.ContainsFunc(points, func(p Point) bool { return p.Record.Bytes != nil })
		if footprint {
			header = append(header, "Bytes")
		}

		t := newTable(w, header)
		for _, p := range points {
			name, latency := p.Container, FormatLatency(p.Record.RealTime)
			rel := "?"
			if fastest > 0 {
				rel = fmt.Sprintf("%.2fx", p.Record.RealTime/fastest)
			}
			if p.Record.RealTime == fastest {
				name, latency = green(name), green(latency)
			}
			row := []string{
				name,
				latency,
				rel,
				humanize.Comma(p.Record.AllocsPerOp),
				humanize.Bytes(uint64(max(p.Record.BytesPerOp, 0))),
			}
			if footprint {
				row = append(row, metaBytes(p.Record.Bytes))
			}
			t.Append(row)
		}
		t.Render()
	}
	return nil
}

// RenderThroughput writes the word suite as operation rows by bit width
// columns. The fastest width of each operation is highlighted.
func RenderThroughput(w io.Writer, records []bench.Record, optFns ...Option) error {
	o := newOptions(optFns)
	green := o.paint(color.FgGreen)

	g := Group(records, IsWord)
	if len(g.Ops) == 0 {
		_, err := fmt.Fprintln(w, "no word benchmarks")
		return err
	}

	widths := g.Params()
	header := []string{"Operation"}
	for _, b := range widths {
		header = append(header, "N="+strconv.Itoa(b))
	}

	if _, err := fmt.Fprintln(w, "Word operation latency by bit width"); err != nil {
		return err
	}
	t := newTable(w, header)
	for _, op := range g.Ops {
		byWidth := map[int]float64{}
		fastest := math.Inf(1)
		for _, p := range g.ByOp[op] {
			byWidth[p.Param] = p.Record.RealTime
			fastest = min(fastest, p.Record.RealTime)
		}
		row := []string{op}
		for _, b := range widths {
			ns, ok := byWidth[b]
			switch {
			case !ok:
				row = append(row, "?")
			case ns == fastest:
				row = append(row, green(FormatLatency(ns)))
			default:
				row = append(row, FormatLatency(ns))
			}
		}
		t.Append(row)
	}
	t.Render()
	return nil
}

// RenderDensity writes the packing density table with a bar per width.
func RenderDensity(w io.Writer, rows []packedset.DensityRow, optFns ...Option) error {
	o := newOptions(optFns)
	yellow := o.paint(color.FgYellow)

	if _, err := fmt.Fprintln(w, "Packing density of b-bit lanes in a 64-bit word"); err != nil {
		return err
	}
	t := newTable(w, []string{"N", "Lanes", "Used", "Wasted", "Efficiency", ""})
	for _, r := range rows {
		wasted := strconv.Itoa(r.WastedBits)
		if r.WastedBits > 0 {
			wasted = yellow(wasted)
		}
		t.Append([]string{
			strconv.Itoa(r.Bits),
			strconv.Itoa(r.Lanes),
			strconv.Itoa(r.BitsUsed),
			wasted,
			fmt.Sprintf("%.1f%%", r.Efficiency*100),
			strings.Repeat("#", int(math.Round(r.Efficiency*20))),
		})
	}
	t.Render()
	return nil
}

// RenderSkipped lists record names that did not parse.
func RenderSkipped(w io.Writer, records []bench.Record) error {
	g := Group(records, nil)
	for _, name := range g.Skipped {
		if _, err := fmt.Fprintf(w, "skipped %q: name does not match Op_Container[/param]\n", name); err != nil {
			return err
		}
	}
	return nil
}
