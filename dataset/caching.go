package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
)

// Caching wraps a Source with a download-once local cache. The first Open
// of a name downloads the payload into the cache directory; later opens,
// including across process restarts, read the cached file. Concurrent
// opens of the same name share a single download via singleflight.
//
// Cache entries are keyed by name only, so Caching is meant for immutable,
// versioned dataset names (a snapshot's keys, not a mutable "latest").
type Caching struct {
	inner Source
	dir   string

	group singleflight.Group
}

// NewCaching creates a caching source storing downloads under dir.
func NewCaching(inner Source, dir string) *Caching {
	return &Caching{
		inner: inner,
		dir:   dir,
	}
}

// Open returns the cached payload, downloading it first when absent.
func (c *Caching) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path := filepath.Join(c.dir, filepath.FromSlash(name))

	if f, err := os.Open(path); err == nil {
		return f, nil
	}

	_, err, _ := c.group.Do(name, func() (any, error) {
		return nil, c.download(ctx, name, path)
	})
	if err != nil {
		return nil, err
	}

	return os.Open(path)
}

// download pulls the payload from the inner source into the cache file.
// The write goes through a temp file and a rename, so a crashed download
// never leaves a half-written cache entry behind.
func (c *Caching) download(ctx context.Context, name, dst string) error {
	rc, err := c.inner.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dst)
}
