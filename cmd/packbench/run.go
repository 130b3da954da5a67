package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/hupe1980/packedset"
	"github.com/hupe1980/packedset/codec"
	"github.com/hupe1980/packedset/internal/bench"
	"github.com/hupe1980/packedset/internal/logging"
	"github.com/hupe1980/packedset/internal/report"
	"github.com/hupe1980/packedset/resultstore"
	"github.com/hupe1980/packedset/resultstore/minio"
	"github.com/hupe1980/packedset/resultstore/s3"
)

// run parses args and dispatches to the selected command.
func run(ctx context.Context, app *kingpin.Application, args []string) error {
	pb := RegisterCommands(app)
	cmd, err := app.Parse(args)
	if err != nil {
		return err
	}

	if *pb.NoColor {
		color.NoColor = true
	}
	logger := newLogger(os.Stderr, *pb.LogFormat, *pb.Debug)

	creds := pb.minioOptions()
	switch cmd {
	case pb.RunCmd.FullCommand():
		return runBench(ctx, pb.RunCmd, creds, logger, os.Stdout)
	case pb.ReportCmd.FullCommand():
		return runReport(ctx, pb.ReportCmd, creds, logger, os.Stdout)
	case pb.RunsCmd.FullCommand():
		return runRuns(ctx, pb.RunsCmd, creds, os.Stdout)
	case pb.DensityCmd.FullCommand():
		return runDensity(pb.DensityCmd, os.Stdout)
	}
	return fmt.Errorf("unsupported command: %v", cmd)
}

func newLogger(w io.Writer, format string, debug bool) *logging.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return logging.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return logging.NewLogger(slog.NewTextHandler(w, opts))
}

// minioOptions collects the credentials for minio:// locations.
func (a Application) minioOptions() minio.Options {
	return minio.Options{
		AccessKey: *a.MinioAccessKey,
		SecretKey: *a.MinioSecretKey,
		Secure:    *a.MinioSecure,
	}
}

func runBench(ctx context.Context, cmd RunCmd, creds minio.Options, logger *logging.Logger, out io.Writer) error {
	c, ok := codec.ByName(*cmd.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", *cmd.Codec)
	}

	r, err := bench.NewRunner(
		bench.WithLogger(logger),
		bench.WithFilter(*cmd.Filter),
		bench.WithBenchTime(*cmd.BenchTime),
		bench.WithSeed(*cmd.Seed),
	)
	if err != nil {
		return err
	}
	logger.Info("running benchmarks", "count", len(r.Entries()))

	doc, err := r.Run(ctx)
	if err != nil {
		return err
	}

	data, err := report.Encode(doc, *cmd.Out, c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*cmd.Out, data, 0o644); err != nil {
		return err
	}
	logger.LogArtifact(ctx, *cmd.Out, nil)

	if *cmd.Upload != "" {
		store, loc, err := openStore(ctx, *cmd.Upload, creds)
		if err != nil {
			return err
		}
		if err := upload(ctx, store, loc, logger, filepath.Base(*cmd.Out), data, doc.Context.Date); err != nil {
			return err
		}
	}

	if err := report.RenderComparison(out, doc.Records); err != nil {
		return err
	}
	return report.RenderSkipped(out, doc.Records)
}

const (
	// runsPrefix holds one directory per uploaded run.
	runsPrefix = "runs"
	// latestPrefix holds the most recent upload of each results file.
	latestPrefix = "latest"
	// runStamp names a run directory.
	runStamp = "20060102T150405Z"
)

// upload writes the results twice: under a run timestamp and as latest.
func upload(ctx context.Context, store resultstore.Store, loc resultstore.Location, logger *logging.Logger, name string, data []byte, date time.Time) error {
	names := []string{
		path.Join(runsPrefix, date.UTC().Format(runStamp), name),
		path.Join(latestPrefix, name),
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, n := range names {
		g.Go(func() error {
			err := store.Put(ctx, n, data)
			logger.LogUpload(ctx, loc.String()+"/"+n, len(data), err)
			return err
		})
	}
	return g.Wait()
}

// openStore parses raw and connects to the store it names.
func openStore(ctx context.Context, raw string, creds minio.Options) (resultstore.Store, resultstore.Location, error) {
	loc, err := resultstore.ParseLocation(raw)
	if err != nil {
		return nil, resultstore.Location{}, err
	}

	var store resultstore.Store
	switch loc.Scheme {
	case "file":
		store = resultstore.NewLocalStore(loc.Path)
	case "s3":
		store, err = s3.NewFromEnv(ctx, loc.Bucket, loc.Prefix)
	case "minio":
		store, err = minio.Dial(loc.Endpoint, loc.Bucket, loc.Prefix, creds)
	default:
		err = fmt.Errorf("unsupported location %s", loc)
	}
	if err != nil {
		return nil, resultstore.Location{}, err
	}
	return store, loc, nil
}

// loadDocument reads the results from the local file, or from the latest
// (or selected) run of an upload location.
func loadDocument(ctx context.Context, cmd ReportCmd, creds minio.Options, logger *logging.Logger) (*bench.Document, error) {
	if *cmd.From == "" {
		return report.Load(*cmd.File)
	}

	store, loc, err := openStore(ctx, *cmd.From, creds)
	if err != nil {
		return nil, err
	}

	name := path.Join(latestPrefix, path.Base(*cmd.File))
	if *cmd.Run != "" {
		name = path.Join(runsPrefix, *cmd.Run, path.Base(*cmd.File))
	}
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", loc, name, err)
	}
	logger.Debug("fetched results", "location", loc.String(), "name", name, "bytes", len(data))
	return report.Decode(data, name, nil)
}

func runReport(ctx context.Context, cmd ReportCmd, creds minio.Options, logger *logging.Logger, out io.Writer) error {
	doc, err := loadDocument(ctx, cmd, creds, logger)
	if err != nil {
		return err
	}

	paths, err := report.WriteArtifacts(ctx, *cmd.OutDir, doc, bench.MinWordBits, bench.MaxWordBits)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.LogArtifact(ctx, p, nil)
	}

	if err := report.RenderComparison(out, doc.Records); err != nil {
		return err
	}
	return report.RenderSkipped(out, doc.Records)
}

// runRuns prints every uploaded run object, oldest first.
func runRuns(ctx context.Context, cmd RunsCmd, creds minio.Options, out io.Writer) error {
	store, _, err := openStore(ctx, *cmd.Location, creds)
	if err != nil {
		return err
	}
	names, err := store.List(ctx, runsPrefix+"/")
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

func runDensity(cmd DensityCmd, out io.Writer) error {
	rows, err := packedset.Density(*cmd.Min, *cmd.Max)
	if err != nil {
		return err
	}
	if *cmd.Format == "json" {
		data, err := codec.GoJSON{}.MarshalIndent(rows)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return report.RenderDensity(out, rows)
}
