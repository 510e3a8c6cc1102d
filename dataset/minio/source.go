package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/neogo/dataset"
	"github.com/minio/minio-go/v7"
)

// Source reads dataset objects from a MinIO or S3-compatible bucket.
type Source struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewSource creates a new MinIO dataset source.
// rootPrefix is prepended to all names (e.g. "neodata/").
func NewSource(client *minio.Client, bucket, rootPrefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open streams the named object. GetObject defers the actual request until
// the first read, so Stat forces it here and a missing key surfaces as
// dataset.ErrNotFound instead of a late read error.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", s.bucket, s.key(name), err)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, fmt.Errorf("%w: %s", dataset.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to stat %s/%s: %w", s.bucket, s.key(name), err)
	}

	return obj, nil
}
