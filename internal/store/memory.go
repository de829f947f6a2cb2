package store

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned when no value is stored under a key.
	ErrNotFound = errors.New("no value stored for key")
)

// Backend is a minimal key/value store. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryBackend is a concurrency-safe in-memory Backend. Values do not survive
// a restart.
type MemoryBackend struct {
	mu sync.RWMutex

	// key: storage key, value: raw bytes
	data map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string][]byte),
	}
}

// Put stores a copy of value under key, replacing any previous value.
func (s *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = cp
	return nil
}

// Get returns a copy of the value stored under key.
func (s *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (s *MemoryBackend) Close() error {
	return nil
}
