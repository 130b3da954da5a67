package resultstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations return an error that satisfies `errors.Is(err, ErrNotFound)`.
var ErrNotFound = os.ErrNotExist

// Store reads and writes whole result objects.
type Store interface {
	// Put writes an object, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Get reads an object.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the sorted names that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Location is a parsed upload target.
//
//	file:///var/results
//	s3://bucket/prefix
//	minio://endpoint/bucket/prefix
type Location struct {
	Scheme   string
	Endpoint string
	Bucket   string
	Prefix   string
	// Path is the directory of a file location.
	Path string
}

// ParseLocation parses an upload URL.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("resultstore: invalid location %q: %w", raw, err)
	}

	loc := Location{Scheme: u.Scheme}
	rest := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "file":
		loc.Path = u.Host + u.Path
		if loc.Path == "" {
			return Location{}, fmt.Errorf("resultstore: %q has no path", raw)
		}
	case "s3":
		loc.Bucket, loc.Prefix = u.Host, rest
		if loc.Bucket == "" {
			return Location{}, fmt.Errorf("resultstore: %q has no bucket", raw)
		}
	case "minio":
		loc.Endpoint = u.Host
		loc.Bucket, loc.Prefix, _ = strings.Cut(rest, "/")
		if loc.Endpoint == "" || loc.Bucket == "" {
			return Location{}, fmt.Errorf("resultstore: %q needs minio://endpoint/bucket[/prefix]", raw)
		}
	default:
		return Location{}, fmt.Errorf("resultstore: unsupported scheme %q", u.Scheme)
	}
	return loc, nil
}

func (l Location) String() string {
	switch l.Scheme {
	case "file":
		return "file://" + l.Path
	case "minio":
		return "minio://" + joinNonEmpty(l.Endpoint, l.Bucket, l.Prefix)
	default:
		return l.Scheme + "://" + joinNonEmpty(l.Bucket, l.Prefix)
	}
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
