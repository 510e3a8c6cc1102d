// Package mmap provides read-only memory-mapped file access.
//
// Dataset files are large and immutable once written, so mapping them gives
// zero-copy reads without pulling the whole payload through an io buffer.
//
// Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch Bytes() after Close returns.
//
//   - Unix (Linux, macOS, BSD): mmap(2) via golang.org/x/sys
//   - Windows: CreateFileMapping/MapViewOfFile
package mmap
