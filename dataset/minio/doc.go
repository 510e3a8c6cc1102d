// Package minio provides a dataset.Source implementation using the MinIO
// client.
//
// MinIO is a high-performance, S3-compatible object storage system. This
// package uses the official MinIO Go client library, so it works with MinIO
// itself and with other S3-compatible systems like Ceph, SeaweedFS, and
// Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src := minioset.NewSource(client, "neo-data", "snapshots/")
//	rc, err := src.Open(ctx, "v000003-6b1f4a22/neos.csv.zst")
package minio
