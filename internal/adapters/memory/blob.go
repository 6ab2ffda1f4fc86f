package memory

import (
	"context"
	"sync"

	"github.com/stagelink/stagelink/pkg/domain"
)

// Store implements ports.BlobStore in memory.
// Safe for concurrent use. Intended for tests and single-process demos.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory blob store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Put stores a copy of data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	// Copy on write so the caller can't mutate stored bytes by reference.
	blob := make([]byte, len(data))
	copy(blob, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = blob
	return nil
}

// Get returns a copy of the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}

	ret := make([]byte, len(blob))
	copy(ret, blob)
	return ret, nil
}

// Len reports the number of stored blobs. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
