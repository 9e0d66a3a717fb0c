package wire

import (
	"errors"
	"fmt"
)

// Kind identifies a protocol-level failure. Kinds travel inside encrypted
// error bodies when the session key is known, and as plaintext reasons on
// status 499 when it is not.
type Kind string

const (
	KindAuthFail           Kind = "AUTH_FAIL"
	KindReplay             Kind = "REPLAY"
	KindSessionUnknown     Kind = "SESSION_UNKNOWN"
	KindSessionExpired     Kind = "SESSION_EXPIRED"
	KindSubjectInactive    Kind = "SUBJECT_INACTIVE"
	KindRoleNotAssumed     Kind = "ROLE_NOT_ASSUMED"
	KindPermissionDenied   Kind = "PERMISSION_DENIED"
	KindACLDenied          Kind = "ACL_DENIED"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
	KindIntegrityFail      Kind = "INTEGRITY_FAIL"
	KindBadRequest         Kind = "BAD_REQUEST"
	KindUnsupportedAlg     Kind = "UNSUPPORTED_ALG"
	KindDocGone            Kind = "DOC_GONE"
)

// Error is a protocol failure carrying its kind. It is the error type the
// service and envelope layers hand to the HTTP layer, which maps the kind to
// a status code and an error body.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Errorf builds a wire.Error with a formatted detail message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error chain, or empty if the error does
// not carry one.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

// ErrorBody is the plaintext of an encrypted error envelope.
type ErrorBody struct {
	Error  Kind   `json:"error"`
	Detail string `json:"detail,omitempty"`
}
