package models

import (
	"fmt"
	"time"
)

// SubjectState is the lifecycle state of a subject.
type SubjectState string

const (
	// SubjectActive means the subject may authenticate and act.
	SubjectActive SubjectState = "active"
	// SubjectSuspended blocks authentication and every command, including on
	// sessions opened before the suspension.
	SubjectSuspended SubjectState = "suspended"
)

// IsValid checks if the state is a valid SubjectState.
func (s SubjectState) IsValid() bool {
	return s == SubjectActive || s == SubjectSuspended
}

// Subject is a user identity within an organization. Identity is
// (organization, username); the long-term public key authenticates the
// subject during session establishment.
type Subject struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string       `gorm:"uniqueIndex:idx_org_subject;not null;size:36" json:"organization_id"`
	Username       string       `gorm:"uniqueIndex:idx_org_subject;not null;size:255" json:"username"`
	DisplayName    string       `gorm:"size:255" json:"name"`
	Email          string       `gorm:"size:255" json:"email"`
	PublicKeyPEM   string       `gorm:"not null;type:text" json:"-"`
	State          SubjectState `gorm:"not null;size:16" json:"state"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Subject.
func (Subject) TableName() string {
	return "subjects"
}

// Active reports whether the subject may act.
func (s *Subject) Active() bool {
	return s.State == SubjectActive
}

// Validate checks if the subject has valid configuration.
func (s *Subject) Validate() error {
	if s.Username == "" {
		return fmt.Errorf("username is required")
	}
	if s.PublicKeyPEM == "" {
		return fmt.Errorf("public key is required")
	}
	if s.State != "" && !s.State.IsValid() {
		return fmt.Errorf("invalid state %q", s.State)
	}
	return nil
}
