// Package fs provides a filesystem-backed blob store implementation.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/docrep/docrep/pkg/blob"
)

// Store is a filesystem-backed implementation of blob.Store.
// Blobs are stored as files fanned out under a two-character prefix
// directory: <base>/<handle[:2]>/<handle>.
type Store struct {
	mu       sync.RWMutex
	basePath string
	closed   bool
}

// Config holds configuration for the filesystem blob store.
type Config struct {
	// BasePath is the root directory for blob storage.
	BasePath string

	// DirMode is the permission mode for created directories.
	// Default: 0755
	DirMode os.FileMode

	// FileMode is the permission mode for created files.
	// Default: 0644
	FileMode os.FileMode
}

// New creates a new filesystem blob store, creating the base directory if
// it doesn't exist.
func New(cfg Config) (*Store, error) {
	if cfg.BasePath == "" {
		return nil, errors.New("base path is required")
	}
	if cfg.DirMode == 0 {
		cfg.DirMode = 0755
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0644
	}

	if err := os.MkdirAll(cfg.BasePath, cfg.DirMode); err != nil {
		return nil, err
	}

	info, err := os.Stat(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("base path is not a directory")
	}

	return &Store{basePath: cfg.BasePath}, nil
}

// NewWithPath creates a new filesystem blob store with default permissions.
func NewWithPath(basePath string) (*Store, error) {
	return New(Config{BasePath: basePath})
}

func (s *Store) blobPath(handle string) string {
	return filepath.Join(s.basePath, handle[:2], handle)
}

// Put writes a blob to the filesystem.
func (s *Store) Put(ctx context.Context, handle string, data []byte) error {
	if err := blob.ValidateHandle(handle); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	path := s.blobPath(handle)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write to a temporary file first, then rename for atomicity.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Get reads a complete blob from the filesystem.
func (s *Store) Get(ctx context.Context, handle string) ([]byte, error) {
	if err := blob.ValidateHandle(handle); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	data, err := os.ReadFile(s.blobPath(handle))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, blob.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a blob from the filesystem.
func (s *Store) Delete(ctx context.Context, handle string) error {
	if err := blob.ValidateHandle(handle); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	err := os.Remove(s.blobPath(handle))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// HealthCheck verifies the base directory is still accessible.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blob.ErrStoreClosed
	}

	info, err := os.Stat(s.basePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("base path is not a directory")
	}
	return nil
}
