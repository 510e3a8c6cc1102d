// Package s3 provides an Amazon S3 implementation of the dataset.Source
// interface plus a DynamoDB-backed snapshot catalog for publishing
// versioned datasets.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := awss3.NewFromConfig(cfg)
//
//	src := s3.NewSource(client, "my-bucket", "neodata/")
//	rc, err := src.Open(ctx, "v000003-6b1f4a22/neos.csv.zst")
//
// # Publishing
//
// The Catalog keeps dataset payloads under versioned keys and records the
// current version in a DynamoDB table via conditional writes, so concurrent
// publishers cannot clobber each other:
//
//	cat := s3.NewCatalog(client, ddbClient, "my-bucket", "neodata/", "neogo-snapshots")
//	snap, err := cat.Publish(ctx, neosReader, approachesReader)
//
// # Features
//
//   - Streaming GetObject reads, no local buffering
//   - zstd-compressed uploads through the s3 manager uploader
//   - Atomic snapshot commits (attribute_not_exists conditional puts)
//   - Configurable prefix for multi-tenant isolation
package s3
