// Package logging wraps log/slog with the field names used by packbench.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with benchmark-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// ParseLevel maps a CLI level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WithSuite adds a suite field to the logger.
func (l *Logger) WithSuite(suite string) *Logger {
	return &Logger{
		Logger: l.Logger.With("suite", suite),
	}
}

// WithContainer adds a container field to the logger.
func (l *Logger) WithContainer(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", name),
	}
}

// LogRun logs one finished benchmark.
func (l *Logger) LogRun(ctx context.Context, name string, iterations int, nsPerOp float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "benchmark failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "benchmark completed",
			"name", name,
			"iterations", iterations,
			"ns_per_op", nsPerOp,
		)
	}
}

// LogSuite logs the end of a run.
func (l *Logger) LogSuite(ctx context.Context, total, skipped int, elapsed time.Duration) {
	l.InfoContext(ctx, "benchmark run completed",
		"total", total,
		"skipped", skipped,
		"elapsed", elapsed,
	)
}

// LogUpload logs a result upload.
func (l *Logger) LogUpload(ctx context.Context, target string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upload failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "results uploaded",
			"target", target,
			"bytes", size,
		)
	}
}

// LogArtifact logs a written report artifact.
func (l *Logger) LogArtifact(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "artifact failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "artifact written",
			"path", path,
		)
	}
}
