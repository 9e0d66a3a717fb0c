package models

import (
	"fmt"
	"time"
)

// AlgAES256GCM is the only content encryption algorithm the repository
// currently accepts on upload.
const AlgAES256GCM = "AES256-GCM"

// Document is per-document metadata. The content itself lives in the blob
// store under FileHandle (hex SHA-256 of the plaintext); deleting a document
// nulls the handle but keeps metadata and ACL readable.
type Document struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string    `gorm:"uniqueIndex:idx_org_document;not null;size:36" json:"organization_id"`
	Name           string    `gorm:"uniqueIndex:idx_org_document;not null;size:255" json:"name"`
	Creator        string    `gorm:"not null;size:255" json:"creator"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// FileHandle is nil once the document content has been deleted.
	FileHandle *string `gorm:"size:64" json:"file_handle"`

	// KeyHex is the content-encryption key, hex encoded. The server stores it
	// so readers authorized through the ACL can decrypt; the server itself
	// never decrypts document content.
	KeyHex string `gorm:"not null;size:64" json:"key"`
	Alg    string `gorm:"not null;size:32" json:"alg"`

	// ACL rows map role names to document-scoped permissions. Role names are
	// weak references; suspending or emptying a role does not touch the ACL.
	ACL []DocumentACL `gorm:"foreignKey:DocumentID" json:"acl,omitempty"`
}

// TableName returns the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// Deleted reports whether the document content has been removed.
func (d *Document) Deleted() bool {
	return d.FileHandle == nil
}

// RolePermissions returns the document permissions granted to role.
// Requires ACL to be loaded.
func (d *Document) RolePermissions(role string) []Permission {
	var perms []Permission
	for _, e := range d.ACL {
		if e.RoleName == role {
			perms = append(perms, e.Permission)
		}
	}
	return perms
}

// RoleAllowed reports whether role carries p in the document ACL.
// Requires ACL to be loaded.
func (d *Document) RoleAllowed(role string, p Permission) bool {
	for _, e := range d.ACL {
		if e.RoleName == role && e.Permission == p {
			return true
		}
	}
	return false
}

// Validate checks if the document has valid configuration.
func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("document name is required")
	}
	if d.Creator == "" {
		return fmt.Errorf("document creator is required")
	}
	if d.Alg != AlgAES256GCM {
		return fmt.Errorf("unsupported algorithm %q", d.Alg)
	}
	return nil
}

// DocumentACL is one (role, permission) grant on a document.
type DocumentACL struct {
	DocumentID string     `gorm:"primaryKey;size:36" json:"document_id"`
	RoleName   string     `gorm:"primaryKey;size:255" json:"role"`
	Permission Permission `gorm:"primaryKey;size:32" json:"permission"`
}

// TableName returns the table name for DocumentACL.
func (DocumentACL) TableName() string {
	return "document_acls"
}
