package apiclient

import (
	"net/http"
)

// CreateRole adds a role to the session's organization.
func (c *Client) CreateRole(role string) error {
	return c.call(http.MethodPost, "/api/v1/organizations/roles",
		map[string]string{"role": role}, nil)
}

// SuspendRole excludes a role from authorization until reactivated.
func (c *Client) SuspendRole(role string) error {
	return c.call(http.MethodPut, "/api/v1/organizations/roles/suspend",
		map[string]string{"role": role}, nil)
}

// ReactivateRole lifts a role suspension.
func (c *Client) ReactivateRole(role string) error {
	return c.call(http.MethodPut, "/api/v1/organizations/roles/reactivate",
		map[string]string{"role": role}, nil)
}

// AddRolePermission grants a permission to a role.
func (c *Client) AddRolePermission(role, permission string) error {
	return c.call(http.MethodPost, "/api/v1/organizations/roles/permissions",
		map[string]string{"role": role, "permission": permission}, nil)
}

// RemoveRolePermission revokes a permission from a role.
func (c *Client) RemoveRolePermission(role, permission string) error {
	return c.call(http.MethodDelete, "/api/v1/organizations/roles/permissions",
		map[string]string{"role": role, "permission": permission}, nil)
}

// AddRoleMember adds a subject to a role.
func (c *Client) AddRoleMember(role, username string) error {
	return c.call(http.MethodPost, "/api/v1/organizations/roles/subjects",
		map[string]string{"role": role, "username": username}, nil)
}

// RemoveRoleMember removes a subject from a role.
func (c *Client) RemoveRoleMember(role, username string) error {
	return c.call(http.MethodDelete, "/api/v1/organizations/roles/subjects",
		map[string]string{"role": role, "username": username}, nil)
}

// RoleMembers returns the usernames belonging to a role.
func (c *Client) RoleMembers(role string) ([]string, error) {
	var resp struct {
		Members []string `json:"members"`
	}
	if err := c.call(http.MethodGet, "/api/v1/organizations/roles/subjects",
		map[string]string{"role": role}, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// SubjectRoles returns the roles a subject belongs to.
func (c *Client) SubjectRoles(username string) ([]string, error) {
	var resp rolesResult
	if err := c.call(http.MethodGet, "/api/v1/organizations/subjects/roles",
		map[string]string{"username": username}, &resp); err != nil {
		return nil, err
	}
	return resp.Roles, nil
}

// RolePermissions returns the permissions a role holds.
func (c *Client) RolePermissions(role string) ([]string, error) {
	var resp struct {
		Permissions []string `json:"permissions"`
	}
	if err := c.call(http.MethodGet, "/api/v1/organizations/roles/permissions",
		map[string]string{"role": role}, &resp); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

// RolesWithPermission returns the roles holding a permission.
func (c *Client) RolesWithPermission(permission string) ([]string, error) {
	var resp rolesResult
	if err := c.call(http.MethodGet, "/api/v1/organizations/permissions/roles",
		map[string]string{"permission": permission}, &resp); err != nil {
		return nil, err
	}
	return resp.Roles, nil
}
