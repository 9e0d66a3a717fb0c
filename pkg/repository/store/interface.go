// Package store provides the repository persistence layer for organizations,
// subjects, roles, and document metadata.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL
//
// The store performs no authorization and enforces no cross-entity
// invariants; both live in pkg/repository/service, which serializes
// mutations per organization.
package store

import (
	"context"
	"time"

	"github.com/docrep/docrep/pkg/repository/models"
)

// DocumentFilter narrows ListDocuments results. Zero values mean "no filter".
type DocumentFilter struct {
	// Creator restricts results to documents created by this username.
	Creator string

	// DateOp is one of "nt" (newer than), "ot" (older than), "eq" (same day).
	// Comparison is at day granularity against Date.
	DateOp string

	// Date is the reference day for DateOp.
	Date time.Time
}

// Store provides the repository persistence interface.
//
// Thread safety: implementations must be safe for concurrent use from
// multiple goroutines.
type Store interface {
	// ============================================
	// ORGANIZATION OPERATIONS
	// ============================================

	// BootstrapOrganization atomically creates an organization, its creator
	// subject (active), and the managers role holding every permission with
	// the creator as its first member.
	// Returns models.ErrDuplicateOrganization if the name is taken.
	BootstrapOrganization(ctx context.Context, org *models.Organization, creator *models.Subject) error

	// GetOrganization returns an organization by name.
	GetOrganization(ctx context.Context, name string) (*models.Organization, error)

	// ListOrganizations returns all organizations.
	ListOrganizations(ctx context.Context) ([]*models.Organization, error)

	// ============================================
	// SUBJECT OPERATIONS
	// ============================================

	// GetSubject returns a subject by (organization name, username).
	GetSubject(ctx context.Context, org, username string) (*models.Subject, error)

	// ListSubjects returns all subjects of an organization.
	ListSubjects(ctx context.Context, org string) ([]*models.Subject, error)

	// CreateSubject creates a subject in an organization.
	// Returns models.ErrDuplicateSubject if the username is taken.
	CreateSubject(ctx context.Context, org string, subject *models.Subject) (string, error)

	// SetSubjectState updates a subject's lifecycle state.
	SetSubjectState(ctx context.Context, org, username string, state models.SubjectState) error

	// ============================================
	// ROLE OPERATIONS
	// ============================================

	// GetRole returns a role with permissions and members preloaded.
	GetRole(ctx context.Context, org, role string) (*models.Role, error)

	// ListRoles returns all roles of an organization.
	ListRoles(ctx context.Context, org string) ([]*models.Role, error)

	// CreateRole creates a role in an organization.
	// Returns models.ErrDuplicateRole if the name is taken.
	CreateRole(ctx context.Context, org string, role *models.Role) (string, error)

	// SetRoleState updates a role's lifecycle state.
	SetRoleState(ctx context.Context, org, role string, state models.RoleState) error

	// AddRolePermission grants a permission to a role. Idempotent.
	AddRolePermission(ctx context.Context, org, role string, perm models.Permission) error

	// RemoveRolePermission revokes a permission from a role.
	RemoveRolePermission(ctx context.Context, org, role string, perm models.Permission) error

	// AddRoleMember adds a subject to a role. Idempotent.
	AddRoleMember(ctx context.Context, org, role, username string) error

	// RemoveRoleMember removes a subject from a role.
	RemoveRoleMember(ctx context.Context, org, role, username string) error

	// ListSubjectRoles returns the roles a subject belongs to.
	ListSubjectRoles(ctx context.Context, org, username string) ([]*models.Role, error)

	// ListRolesWithPermission returns the roles holding a permission.
	ListRolesWithPermission(ctx context.Context, org string, perm models.Permission) ([]*models.Role, error)

	// ============================================
	// DOCUMENT OPERATIONS
	// ============================================

	// CreateDocument records document metadata with its initial ACL.
	// Returns models.ErrDuplicateDocument if the name is taken.
	CreateDocument(ctx context.Context, org string, doc *models.Document) (string, error)

	// GetDocument returns a document with its ACL preloaded.
	GetDocument(ctx context.Context, org, name string) (*models.Document, error)

	// ListDocuments returns document metadata matching the filter.
	ListDocuments(ctx context.Context, org string, filter DocumentFilter) ([]*models.Document, error)

	// ClearFileHandle nulls a document's file handle and returns the former
	// value. Returns models.ErrDocumentGone if already cleared.
	ClearFileHandle(ctx context.Context, org, name string) (string, error)

	// CountDocumentReferences returns how many documents (across all
	// organizations) still reference a file handle. Blob cleanup on delete is
	// safe only when this drops to zero; handles are content-addressed and may
	// be shared.
	CountDocumentReferences(ctx context.Context, handle string) (int64, error)

	// AddDocumentACL grants a document permission to a role. Idempotent.
	AddDocumentACL(ctx context.Context, org, name, role string, perm models.Permission) error

	// RemoveDocumentACL revokes a document permission from a role.
	RemoveDocumentACL(ctx context.Context, org, name, role string, perm models.Permission) error

	// Close releases the underlying database connection.
	Close() error
}
