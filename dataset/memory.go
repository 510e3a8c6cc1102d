package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-memory Source for tests and fixtures. Thread-safe for
// concurrent reads and writes.
type Memory struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		payloads: make(map[string][]byte),
	}
}

// Put stores a payload under the given name.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	m.payloads[name] = copied
}

// Open opens a stored payload for reading.
func (m *Memory) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.payloads[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}
