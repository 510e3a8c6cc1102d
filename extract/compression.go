package extract

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// OpenDecompressed wraps r with the decompressor implied by the dataset
// name's extension: .gz, .zst or .lz4. Any other name passes through
// unchanged. Closing the returned reader releases the decompressor only;
// the caller still owns r.
func OpenDecompressed(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip reader for %s: %w", name, err)
		}
		return zr, nil

	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd reader for %s: %w", name, err)
		}
		return zr.IOReadCloser(), nil

	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil

	default:
		return io.NopCloser(r), nil
	}
}

// DataExt returns the dataset's own extension with any compression suffix
// stripped: "cad.json.zst" yields ".json". Used to pick a loader for a
// dataset regardless of how it is compressed.
func DataExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".gz", ".zst", ".lz4":
		return strings.ToLower(path.Ext(strings.TrimSuffix(name, path.Ext(name))))
	default:
		return ext
	}
}
