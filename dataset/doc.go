// Package dataset abstracts where the NEO dataset payloads live.
//
// A Source hands out read streams for named payloads (the NEO inventory
// CSV and the close-approach JSON), wherever they are stored:
//
//   - Local: files under a root directory, memory-mapped where the
//     platform supports it
//   - Memory: an in-memory map, for tests and fixtures
//   - s3.Source: an S3 bucket/prefix
//   - minio.Source: MinIO and other S3-compatible stores
//
// Caching wraps any Source with a download-once local cache, so remote
// datasets are fetched a single time per name even under concurrent opens.
//
// Sources hand out raw payload bytes; pair Open with
// extract.OpenDecompressed when a dataset name carries a compression
// suffix.
package dataset
