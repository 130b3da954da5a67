package main

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

// Application represents the command-line "packbench" application and
// contains definitions of all its flags, arguments and subcommands
type Application struct {
	*kingpin.Application
	// Debug enables debug logging
	Debug *bool
	// LogFormat is the log output format: text or json
	LogFormat *string
	// NoColor disables colored tables
	NoColor *bool
	// MinioAccessKey is the access key for minio:// locations
	MinioAccessKey *string
	// MinioSecretKey is the secret key for minio:// locations
	MinioSecretKey *string
	// MinioSecure enables TLS for minio:// locations
	MinioSecure *bool
	// RunCmd runs the benchmark table
	RunCmd RunCmd
	// ReportCmd renders a results file
	ReportCmd ReportCmd
	// RunsCmd lists uploaded runs
	RunsCmd RunsCmd
	// DensityCmd prints the packing density table
	DensityCmd DensityCmd
}

// RunCmd runs the benchmark table and writes a results file
type RunCmd struct {
	*kingpin.CmdClause
	// Filter is a regular expression selecting benchmarks by name
	Filter *string
	// BenchTime is the target run time of each benchmark
	BenchTime *time.Duration
	// Seed seeds the comparison workload
	Seed *int64
	// Out is the results file; the extension selects compression
	Out *string
	// Codec is the results encoding
	Codec *string
	// Upload is an optional upload location
	Upload *string
}

// ReportCmd renders tables from a results file
type ReportCmd struct {
	*kingpin.CmdClause
	// File is the results file, or the object name with From
	File *string
	// From is an optional location to fetch the results from
	From *string
	// Run selects an uploaded run by timestamp instead of the latest one
	Run *string
	// OutDir receives the rendered tables
	OutDir *string
}

// RunsCmd lists the runs uploaded to a location
type RunsCmd struct {
	*kingpin.CmdClause
	// Location is the upload location
	Location *string
}

// DensityCmd prints the packing density for a range of bit widths
type DensityCmd struct {
	*kingpin.CmdClause
	// Min is the smallest bit width
	Min *int
	// Max is the largest bit width
	Max *int
	// Format is the output format: text or json
	Format *string
}
