// Package models defines the persistent entities of the document repository:
// organizations, subjects, roles, permissions, and documents.
package models

import (
	"fmt"
	"time"
)

// ManagersRole is the built-in administrative role every organization gets at
// bootstrap. It is pinned active, always holds every administrative
// permission, and always contains at least one active subject.
const ManagersRole = "managers"

// Organization is the top-level tenancy unit. Subjects, roles, and documents
// are owned by their organization; cross-references between them go by name
// through the organization, never by owning pointers.
type Organization struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Creator   string    `gorm:"not null;size:255" json:"creator"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Organization.
func (Organization) TableName() string {
	return "organizations"
}

// Validate checks if the organization has valid configuration.
func (o *Organization) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("organization name is required")
	}
	if o.Creator == "" {
		return fmt.Errorf("organization creator is required")
	}
	return nil
}
