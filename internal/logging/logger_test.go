package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLogRun(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufferLogger(slog.LevelDebug)

	l.WithSuite("word").LogRun(ctx, "Find_PackedWord/5", 1000, 1.25, nil)
	l.WithContainer("Map").LogRun(ctx, "Insert_Map/5", 0, 0, errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "benchmark completed", lines[0]["msg"])
	assert.Equal(t, "word", lines[0]["suite"])
	assert.Equal(t, "Find_PackedWord/5", lines[0]["name"])
	assert.InDelta(t, 1000, lines[0]["iterations"], 0)

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "Map", lines[1]["container"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLevelsFilter(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufferLogger(slog.LevelInfo)

	l.LogRun(ctx, "Insert_Map/5", 10, 1, nil) // debug
	l.LogSuite(ctx, 3, 1, time.Second)
	l.LogUpload(ctx, "s3://bucket/results.json", 42, nil)
	l.LogArtifact(ctx, "out/comparison.txt", errors.New("disk full"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "benchmark run completed", lines[0]["msg"])
	assert.Equal(t, "results uploaded", lines[1]["msg"])
	assert.Equal(t, "artifact failed", lines[2]["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogRun(context.Background(), "x", 1, 1, errors.New("ignored"))
}
