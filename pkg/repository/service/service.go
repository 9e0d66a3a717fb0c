// Package service implements the repository business logic on top of the
// persistence layer: authorization decisions, role and subject lifecycle
// rules, and document handling.
//
// The store below it is plain CRUD; every cross-entity invariant (the
// managers role rules, document ACL floor, state transitions) is enforced
// here, under a per-organization lock so check-then-act sequences are safe
// against concurrent requests.
package service

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/docrep/docrep/pkg/blob"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/repository/store"
	"github.com/docrep/docrep/pkg/wire"
)

// Service coordinates the metadata store and the blob store and enforces the
// repository's authorization and invariant rules.
type Service struct {
	store  store.Store
	blobs  blob.Store
	logger *slog.Logger

	// mu guards orgLocks; each organization gets one RWMutex serializing its
	// mutations. Reads take the shared side.
	mu       sync.Mutex
	orgLocks map[string]*sync.RWMutex
}

// New creates a Service over the given stores.
func New(st store.Store, blobs blob.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		blobs:    blobs,
		logger:   logger,
		orgLocks: make(map[string]*sync.RWMutex),
	}
}

// orgLock returns the lock for an organization, creating it on first use.
// Locks are never removed; organizations cannot be deleted.
func (s *Service) orgLock(org string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.orgLocks[org]
	if !ok {
		l = &sync.RWMutex{}
		s.orgLocks[org] = l
	}
	return l
}

// translate converts store sentinel errors into wire error kinds. Errors that
// already carry a kind pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var we *wire.Error
	if errors.As(err, &we) {
		return err
	}

	switch {
	case errors.Is(err, models.ErrOrganizationNotFound),
		errors.Is(err, models.ErrSubjectNotFound),
		errors.Is(err, models.ErrRoleNotFound),
		errors.Is(err, models.ErrDocumentNotFound):
		return wire.Errorf(wire.KindNotFound, "%s", err)
	case errors.Is(err, models.ErrDuplicateOrganization),
		errors.Is(err, models.ErrDuplicateSubject),
		errors.Is(err, models.ErrDuplicateRole),
		errors.Is(err, models.ErrDuplicateDocument):
		return wire.Errorf(wire.KindConflict, "%s", err)
	case errors.Is(err, models.ErrDocumentGone):
		return wire.Errorf(wire.KindDocGone, "%s", err)
	case errors.Is(err, blob.ErrNotFound):
		return wire.Errorf(wire.KindNotFound, "file content not found")
	case errors.Is(err, blob.ErrInvalidHandle):
		return wire.Errorf(wire.KindBadRequest, "%s", err)
	}
	return err
}
