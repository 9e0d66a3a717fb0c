// Package badger provides a BadgerDB-backed blob store implementation.
//
// Suitable for single-node deployments that want durable blob storage in a
// single embedded database file alongside the metadata database.
package badger

import (
	"context"
	"errors"
	"sync"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/docrep/docrep/pkg/blob"
)

// keyPrefix namespaces blob keys so the database can be shared with other
// value types in the future.
const keyPrefix = "blob/"

// Store is a BadgerDB-backed implementation of blob.Store.
type Store struct {
	mu     sync.RWMutex
	db     *badger.DB
	closed bool
}

// Config holds configuration for the Badger blob store.
type Config struct {
	// Path is the directory for the Badger database.
	// Ignored when InMemory is set.
	Path string

	// InMemory runs the database without persistence. Used by tests.
	InMemory bool
}

// New opens a Badger database at the configured path.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, errors.New("path is required")
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func key(handle string) []byte {
	return []byte(keyPrefix + handle)
}

// Put writes a blob in a single update transaction.
func (s *Store) Put(ctx context.Context, handle string, data []byte) error {
	if err := blob.ValidateHandle(handle); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(handle), data)
	})
}

// Get reads a complete blob.
func (s *Store) Get(ctx context.Context, handle string) ([]byte, error) {
	if err := blob.ValidateHandle(handle); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(handle))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return blob.ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes a blob. Missing handles are not an error.
func (s *Store) Delete(ctx context.Context, handle string) error {
	if err := blob.ValidateHandle(handle); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(handle))
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// HealthCheck verifies the database accepts reads.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	return s.db.View(func(txn *badger.Txn) error { return nil })
}
