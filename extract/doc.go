// Package extract parses the two NEO datasets into model values: the NEO
// inventory CSV (designation, name, diameter, hazard flag per row) and the
// NASA close-approach table JSON (a columnar {"fields": ..., "data": ...}
// document). Both loaders read from any io.Reader, so they consume shipped
// files, cached downloads and freshly fetched payloads identically;
// OpenDecompressed adds transparent gzip/zstd/lz4 decompression keyed on
// the dataset name.
//
// Loaded values are unlinked: approaches carry their NEO designation but a
// nil NEO pointer. Linking is the database's job.
package extract
