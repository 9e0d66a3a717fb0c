// Package memory provides an in-memory blob store implementation.
//
// Intended for tests and single-process development setups; contents are
// lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/docrep/docrep/pkg/blob"
)

// Store is an in-memory implementation of blob.Store.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool
}

// New creates a new in-memory blob store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Put stores a copy of data under the handle.
func (s *Store) Put(ctx context.Context, handle string, data []byte) error {
	if err := blob.ValidateHandle(handle); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	s.blobs[handle] = buf
	return nil
}

// Get returns a copy of the blob.
func (s *Store) Get(ctx context.Context, handle string) ([]byte, error) {
	if err := blob.ValidateHandle(handle); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	data, ok := s.blobs[handle]
	if !ok {
		return nil, blob.ErrNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, handle string) error {
	if err := blob.ValidateHandle(handle); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	delete(s.blobs, handle)
	return nil
}

// Close marks the store as closed and drops all blobs.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.blobs = nil
	return nil
}

// HealthCheck reports whether the store is open.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blob.ErrStoreClosed
	}
	return nil
}
