package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/neogo/internal/mmap"
)

// Local reads datasets from files under a root directory. Files are
// memory-mapped, which keeps repeated loads of the large dataset payloads
// cheap; a plain file read is the fallback when mapping fails.
type Local struct {
	root string
}

// NewLocal creates a Local source rooted at the given directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Open opens a dataset file for reading.
func (s *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.root, filepath.FromSlash(name))

	m, err := mmap.Open(path)
	if err == nil {
		return &mappedReader{Reader: bytes.NewReader(m.Bytes()), m: m}, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Mapping can fail on exotic filesystems; fall back to plain reads.
	return os.Open(path)
}

type mappedReader struct {
	*bytes.Reader
	m *mmap.Mapping
}

func (r *mappedReader) Close() error {
	return r.m.Close()
}
