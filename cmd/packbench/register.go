package main

import (
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/hupe1980/packedset/codec"
)

// RegisterCommands registers all packbench flags, arguments and subcommands
func RegisterCommands(app *kingpin.Application) Application {
	pb := Application{
		Application: app,
	}

	pb.Debug = app.Flag("debug", "Enable debug logging.").Envar("PACKBENCH_DEBUG").Bool()
	pb.LogFormat = app.Flag("log-format", "Log format: text or json.").Default("text").Envar("PACKBENCH_LOG_FORMAT").Enum("text", "json")
	pb.NoColor = app.Flag("no-color", "Disable colored output.").Envar("PACKBENCH_NO_COLOR").Bool()
	pb.MinioAccessKey = app.Flag("minio-access-key", "Access key for minio:// locations.").Envar("PACKBENCH_MINIO_ACCESS_KEY").String()
	pb.MinioSecretKey = app.Flag("minio-secret-key", "Secret key for minio:// locations.").Envar("PACKBENCH_MINIO_SECRET_KEY").String()
	pb.MinioSecure = app.Flag("minio-secure", "Use TLS for minio:// locations.").Envar("PACKBENCH_MINIO_SECURE").Bool()

	pb.RunCmd.CmdClause = app.Command("run", "Run the benchmark table and write a results file.")
	pb.RunCmd.Filter = pb.RunCmd.Flag("filter", "Regular expression selecting benchmarks by name.").Envar("PACKBENCH_FILTER").String()
	pb.RunCmd.BenchTime = pb.RunCmd.Flag("benchtime", "Target run time of each benchmark.").Default("1s").Envar("PACKBENCH_BENCHTIME").Duration()
	pb.RunCmd.Seed = pb.RunCmd.Flag("seed", "Seed of the comparison workload.").Default("42").Envar("PACKBENCH_SEED").Int64()
	pb.RunCmd.Out = pb.RunCmd.Flag("out", "Results file. A .zst or .lz4 extension compresses it.").Short('o').Default("results.json.zst").Envar("PACKBENCH_OUT").String()
	pb.RunCmd.Codec = pb.RunCmd.Flag("codec", "Results encoding.").Default("go-json").Envar("PACKBENCH_CODEC").Enum(codec.Names()...)
	pb.RunCmd.Upload = pb.RunCmd.Flag("upload", "Upload location: file://dir, s3://bucket/prefix or minio://endpoint/bucket/prefix.").Envar("PACKBENCH_UPLOAD").String()

	pb.ReportCmd.CmdClause = app.Command("report", "Render comparison, throughput and density tables from a results file.")
	pb.ReportCmd.File = pb.ReportCmd.Arg("file", "Results file written by run. With --from, the uploaded file name.").Default("results.json.zst").String()
	pb.ReportCmd.From = pb.ReportCmd.Flag("from", "Fetch the results from an upload location instead of the local file.").Envar("PACKBENCH_FROM").String()
	pb.ReportCmd.Run = pb.ReportCmd.Flag("run", "Timestamp of an uploaded run to fetch with --from; the latest run by default.").String()
	pb.ReportCmd.OutDir = pb.ReportCmd.Flag("out-dir", "Directory for the rendered tables.").Default("report").Envar("PACKBENCH_OUT_DIR").String()

	pb.RunsCmd.CmdClause = app.Command("runs", "List the runs uploaded to a location.")
	pb.RunsCmd.Location = pb.RunsCmd.Arg("location", "Upload location: file://dir, s3://bucket/prefix or minio://endpoint/bucket/prefix.").Required().String()

	pb.DensityCmd.CmdClause = app.Command("density", "Print the packing density of b-bit lanes in a 64-bit word.")
	pb.DensityCmd.Min = pb.DensityCmd.Flag("min", "Smallest bit width.").Default("5").Int()
	pb.DensityCmd.Max = pb.DensityCmd.Flag("max", "Largest bit width.").Default("14").Int()
	pb.DensityCmd.Format = pb.DensityCmd.Flag("format", "Output format: text or json.").Default("text").Enum("text", "json")

	return pb
}
