package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/neogo"
	"github.com/hupe1980/neogo/dataset"
	minioset "github.com/hupe1980/neogo/dataset/minio"
	s3set "github.com/hupe1980/neogo/dataset/s3"
)

// openDB resolves the configured dataset URI and loads the database.
//
// For s3:// URIs the latest published snapshot is resolved through the
// catalog and its versioned keys are opened; a bucket without snapshots
// falls back to the plain file names under the prefix. minio:// URIs and
// local paths open the configured file names directly.
func openDB(ctx context.Context, optFns ...neogo.Option) (*neogo.Neogo, error) {
	neoName, cadName := cfg.NEOFile, cfg.CADFile

	var src dataset.Source

	switch {
	case strings.HasPrefix(cfg.DatasetURI, "s3://"):
		cat, err := newCatalog(ctx)
		if err != nil {
			return nil, err
		}

		snap, err := cat.Latest(ctx)
		if err != nil && !errors.Is(err, dataset.ErrNotFound) {
			return nil, err
		}
		if snap != nil {
			neoName, cadName = snap.NEOKey, snap.CADKey
		}
		src = cat.Source()

	case strings.HasPrefix(cfg.DatasetURI, "minio://"):
		bucket, prefix, err := splitBucketURI(cfg.DatasetURI, "minio://")
		if err != nil {
			return nil, err
		}

		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		src = minioset.NewSource(client, bucket, prefix)

	default:
		src = dataset.NewLocal(cfg.DatasetURI)
	}

	if cfg.CacheDir != "" {
		src = dataset.NewCaching(src, cfg.CacheDir)
	}

	optFns = append(optFns, neogo.WithLogger(logger))

	return neogo.Open(ctx, src, neoName, cadName, optFns...)
}

// newCatalog builds the snapshot catalog for the configured s3:// URI.
func newCatalog(ctx context.Context) (*s3set.Catalog, error) {
	bucket, prefix, err := splitBucketURI(cfg.DatasetURI, "s3://")
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	ddbClient := dynamodb.NewFromConfig(awsCfg)

	return s3set.NewCatalog(client, ddbClient, bucket, prefix, cfg.CatalogTable), nil
}

func splitBucketURI(uri, scheme string) (bucket, prefix string, err error) {
	bucket, prefix, _ = strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid dataset URI %q: missing bucket", uri)
	}
	return bucket, prefix, nil
}
