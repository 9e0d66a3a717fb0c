package apiclient

import (
	"errors"
	"fmt"

	"github.com/docrep/docrep/pkg/wire"
)

// APIError represents an error response from the server, whether it arrived
// as a plaintext protocol failure (status 499) or inside a sealed envelope
// (status 403).
type APIError struct {
	StatusCode int
	Kind       wire.Kind
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind != "" {
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
		}
		return string(e.Kind)
	}
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Detail)
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind wire.Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuthorizationDenied reports whether the server refused the operation
// after opening the envelope: a permission, ACL, role, or subject-state
// denial.
func (e *APIError) IsAuthorizationDenied() bool {
	switch e.Kind {
	case wire.KindPermissionDenied, wire.KindACLDenied,
		wire.KindRoleNotAssumed, wire.KindSubjectInactive:
		return true
	}
	return false
}

// IsSessionFailure reports whether the session itself is unusable and a new
// handshake is needed.
func (e *APIError) IsSessionFailure() bool {
	switch e.Kind {
	case wire.KindSessionUnknown, wire.KindSessionExpired,
		wire.KindAuthFail, wire.KindReplay:
		return true
	}
	return false
}

// IsNotFound reports whether the target entity does not exist.
func (e *APIError) IsNotFound() bool {
	return e.Kind == wire.KindNotFound
}

// IsConflict reports whether the operation hit a uniqueness violation.
func (e *APIError) IsConflict() bool {
	return e.Kind == wire.KindConflict
}
