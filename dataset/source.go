package dataset

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a dataset does not exist.
//
// Implementations return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Source is an abstraction for reading immutable dataset payloads by name.
type Source interface {
	// Open opens a dataset for reading. The caller closes the returned
	// reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
