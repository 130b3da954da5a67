package resultstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "runs/b.json", []byte("b")))
	require.NoError(t, s.Put(ctx, "runs/a.json.zst", []byte("a")))
	require.NoError(t, s.Put(ctx, "latest.json", []byte("v1")))
	require.NoError(t, s.Put(ctx, "latest.json", []byte("v2")))

	data, err := s.Get(ctx, "latest.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	names, err := s.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/a.json.zst", "runs/b.json"}, names)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	testStore(t, NewLocalStore(root))

	entries, err := os.ReadDir(filepath.Join(root, "runs"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")

	names, err := NewLocalStore(filepath.Join(root, "absent")).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLocalStore(root).Put(ctx, "x", nil), context.Canceled)

	t.Run("RejectsNamesOutsideRoot", func(t *testing.T) {
		s := NewLocalStore(filepath.Join(root, "nested"))
		for _, name := range []string{"../escape.json", "runs/../../escape.json", "/etc/escape.json", ""} {
			assert.ErrorIs(t, s.Put(context.Background(), name, []byte("x")), fs.ErrInvalid, name)
			_, err := s.Get(context.Background(), name)
			assert.ErrorIs(t, err, fs.ErrInvalid, name)
		}
		_, err := os.Stat(filepath.Join(root, "escape.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want Location
	}{
		{"file:///var/results", Location{Scheme: "file", Path: "/var/results"}},
		{"s3://bench-results", Location{Scheme: "s3", Bucket: "bench-results"}},
		{"s3://bench-results/nightly/amd64", Location{Scheme: "s3", Bucket: "bench-results", Prefix: "nightly/amd64"}},
		{"minio://localhost:9000/results", Location{Scheme: "minio", Endpoint: "localhost:9000", Bucket: "results"}},
		{"minio://localhost:9000/results/ci/", Location{Scheme: "minio", Endpoint: "localhost:9000", Bucket: "results", Prefix: "ci"}},
	}
	for _, tt := range tests {
		got, err := ParseLocation(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	for _, bad := range []string{"gs://bucket", "s3:///prefix", "minio://host", "file://", "::"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}

	loc, err := ParseLocation("minio://localhost:9000/results/ci")
	require.NoError(t, err)
	assert.Equal(t, "minio://localhost:9000/results/ci", loc.String())
}
