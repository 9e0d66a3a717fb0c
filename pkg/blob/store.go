// Package blob provides the ciphertext blob store interface.
//
// Blobs are immutable encrypted document payloads keyed by their file handle
// (the hex SHA-256 of the plaintext). A blob is written once at upload time
// and deleted when its document is deleted; it is never mutated in place.
package blob

import (
	"context"
	"encoding/hex"
	"errors"
)

// Common errors returned by Store implementations.
var (
	// ErrNotFound is returned when a requested blob doesn't exist.
	ErrNotFound = errors.New("blob not found")

	// ErrStoreClosed is returned when operations are attempted on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidHandle is returned when a handle is not a hex SHA-256 digest.
	ErrInvalidHandle = errors.New("invalid file handle")
)

// HandleLength is the length of a file handle (hex SHA-256).
const HandleLength = 64

// Store defines the interface for blob storage backends.
//
// Thread safety: implementations must be safe for concurrent use from
// multiple goroutines.
type Store interface {
	// Put writes a blob under the given handle.
	// Writing the same handle twice is allowed; content-addressed keys make
	// the second write a no-op in practice.
	Put(ctx context.Context, handle string, data []byte) error

	// Get reads a complete blob.
	// Returns ErrNotFound if the handle doesn't exist.
	Get(ctx context.Context, handle string) ([]byte, error)

	// Delete removes a blob. Deleting a missing handle is not an error.
	Delete(ctx context.Context, handle string) error

	// Close releases any resources held by the store.
	Close() error

	// HealthCheck verifies the store is accessible and operational.
	HealthCheck(ctx context.Context) error
}

// ValidateHandle checks that a handle is a lowercase hex SHA-256 digest.
// Backends call this before touching storage so a malicious handle can never
// become a path or key component.
func ValidateHandle(handle string) error {
	if len(handle) != HandleLength {
		return ErrInvalidHandle
	}
	if _, err := hex.DecodeString(handle); err != nil {
		return ErrInvalidHandle
	}
	return nil
}
