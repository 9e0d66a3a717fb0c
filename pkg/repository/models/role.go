package models

import (
	"fmt"
	"time"
)

// RoleState is the lifecycle state of a role.
type RoleState string

const (
	// RoleActive means the role can be assumed and its permissions count.
	RoleActive RoleState = "active"
	// RoleSuspended excludes the role from authorization; the managers role
	// can never enter this state.
	RoleSuspended RoleState = "suspended"
)

// IsValid checks if the state is a valid RoleState.
func (s RoleState) IsValid() bool {
	return s == RoleActive || s == RoleSuspended
}

// Role is a named bundle of permissions and members within an organization.
// Membership references subjects by name through the join table; removing a
// subject from the organization requires explicit membership cleanup.
type Role struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string    `gorm:"uniqueIndex:idx_org_role;not null;size:36" json:"organization_id"`
	Name           string    `gorm:"uniqueIndex:idx_org_role;not null;size:255" json:"name"`
	State          RoleState `gorm:"not null;size:16" json:"state"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Permission grants, one row per permission.
	Permissions []RolePermission `gorm:"foreignKey:RoleID" json:"permissions,omitempty"`

	// Member subjects via the role_subjects join table.
	Members []Subject `gorm:"many2many:role_subjects;" json:"members,omitempty"`
}

// TableName returns the table name for Role.
func (Role) TableName() string {
	return "roles"
}

// IsManagers reports whether this is the built-in managers role.
func (r *Role) IsManagers() bool {
	return r.Name == ManagersRole
}

// HasPermission reports whether the role holds p.
// Requires Permissions to be loaded.
func (r *Role) HasPermission(p Permission) bool {
	for _, rp := range r.Permissions {
		if rp.Permission == p {
			return true
		}
	}
	return false
}

// HasMember reports whether username is a member.
// Requires Members to be loaded.
func (r *Role) HasMember(username string) bool {
	for _, m := range r.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}

// Validate checks if the role has valid configuration.
func (r *Role) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if r.State != "" && !r.State.IsValid() {
		return fmt.Errorf("invalid state %q", r.State)
	}
	return nil
}

// RolePermission is one permission grant on a role.
type RolePermission struct {
	RoleID     string     `gorm:"primaryKey;size:36" json:"role_id"`
	Permission Permission `gorm:"primaryKey;size:32" json:"permission"`
}

// TableName returns the table name for RolePermission.
func (RolePermission) TableName() string {
	return "role_permissions"
}
