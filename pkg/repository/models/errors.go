package models

import "errors"

// Common errors for repository operations.
var (
	// Organization errors
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrDuplicateOrganization = errors.New("organization already exists")

	// Subject errors
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrDuplicateSubject  = errors.New("subject already exists")
	ErrSubjectSuspended  = errors.New("subject is suspended")
	ErrInvalidSubjectKey = errors.New("subject public key is invalid")

	// Role errors
	ErrRoleNotFound  = errors.New("role not found")
	ErrDuplicateRole = errors.New("role already exists")
	ErrRoleSuspended = errors.New("role is suspended")

	// Document errors
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDuplicateDocument = errors.New("document already exists")
	ErrDocumentGone      = errors.New("document content has been deleted")
)
