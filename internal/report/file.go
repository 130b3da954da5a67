package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/packedset"
	"github.com/hupe1980/packedset/codec"
	"github.com/hupe1980/packedset/internal/bench"
	"github.com/hupe1980/packedset/internal/compress"
)

// Encode serializes doc with c and compresses it by the extension of name
// (".zst", ".lz4", or none).
func Encode(doc *bench.Document, name string, c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	var (
		data []byte
		err  error
	)
	if ind, ok := c.(codec.Indenter); ok {
		data, err = ind.MarshalIndent(doc)
	} else {
		data, err = c.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("report: encode %s: %w", name, err)
	}
	return compress.Encode(data, compress.TypeForName(name))
}

// Decode reverses Encode.
func Decode(data []byte, name string, c codec.Codec) (*bench.Document, error) {
	if c == nil {
		c = codec.Default
	}
	raw, err := compress.Decode(data, compress.TypeForName(name))
	if err != nil {
		return nil, fmt.Errorf("report: decompress %s: %w", name, err)
	}
	var doc bench.Document
	if err := c.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", name, err)
	}
	return &doc, nil
}

// Load reads a document file.
func Load(path string) (*bench.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path, nil)
}

// Save writes a document file.
func Save(path string, doc *bench.Document) error {
	data, err := Encode(doc, path, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Artifact file names written by WriteArtifacts.
const (
	ComparisonFile = "comparison.txt"
	ThroughputFile = "throughput.txt"
	DensityFile    = "density.txt"
)

// WriteArtifacts renders the comparison, throughput and density tables into
// dir concurrently and returns the written paths. The density table covers
// widths minBits..maxBits and does not depend on doc.
func WriteArtifacts(ctx context.Context, dir string, doc *bench.Document, minBits, maxBits int, optFns ...Option) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	rows, err := packedset.Density(minBits, maxBits)
	if err != nil {
		return nil, err
	}

	renderers := []struct {
		file   string
		render func(io.Writer) error
	}{
		{ComparisonFile, func(w io.Writer) error { return RenderComparison(w, doc.Records, optFns...) }},
		{ThroughputFile, func(w io.Writer) error { return RenderThroughput(w, doc.Records, optFns...) }},
		{DensityFile, func(w io.Writer) error { return RenderDensity(w, rows, optFns...) }},
	}

	paths := make([]string, len(renderers))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range renderers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := r.render(&buf); err != nil {
				return fmt.Errorf("report: render %s: %w", r.file, err)
			}
			path := filepath.Join(dir, r.file)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
