package handlers

import (
	"context"
	"net/http"

	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// rolePermissionRequest names a role and a permission for the grant
// endpoints.
type rolePermissionRequest struct {
	Role       string `json:"role"`
	Permission string `json:"permission"`
}

// roleMemberRequest names a role and a subject for the membership endpoints.
type roleMemberRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

// usernameRequest names a subject.
type usernameRequest struct {
	Username string `json:"username"`
}

// permissionRequest names a permission.
type permissionRequest struct {
	Permission string `json:"permission"`
}

// membersResponse lists a role's members.
type membersResponse struct {
	Members []string `json:"members"`
}

// permissionsResponse lists a role's permissions.
type permissionsResponse struct {
	Permissions []models.Permission `json:"permissions"`
}

// CreateRole handles POST /organizations/roles.
func (h *Handler) CreateRole() http.HandlerFunc {
	return h.envelope(string(models.PermRoleNew), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.CreateRole(ctx, sess, req.Role); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// SetRoleState returns the handler for PUT /organizations/roles/suspend and
// /reactivate; the route decides the target state.
func (h *Handler) SetRoleState(state models.RoleState) http.HandlerFunc {
	perm := models.PermRoleDown
	if state == models.RoleActive {
		perm = models.PermRoleUp
	}
	return h.envelope(string(perm), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.SetRoleState(ctx, sess, req.Role, state); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// AddRolePermission handles POST /organizations/roles/permissions.
func (h *Handler) AddRolePermission() http.HandlerFunc {
	return h.envelope(string(models.PermRoleMod), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req rolePermissionRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		perm, err := parsePermission(req.Permission)
		if err != nil {
			return nil, err
		}
		if err := h.svc.AddRolePermission(ctx, sess, req.Role, perm); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// RemoveRolePermission handles DELETE /organizations/roles/permissions.
func (h *Handler) RemoveRolePermission() http.HandlerFunc {
	return h.envelope(string(models.PermRoleMod), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req rolePermissionRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		perm, err := parsePermission(req.Permission)
		if err != nil {
			return nil, err
		}
		if err := h.svc.RemoveRolePermission(ctx, sess, req.Role, perm); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// AddRoleMember handles POST /organizations/roles/subjects.
func (h *Handler) AddRoleMember() http.HandlerFunc {
	return h.envelope(string(models.PermRoleMod), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleMemberRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.AddRoleMember(ctx, sess, req.Role, req.Username); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// RemoveRoleMember handles DELETE /organizations/roles/subjects.
func (h *Handler) RemoveRoleMember() http.HandlerFunc {
	return h.envelope(string(models.PermRoleMod), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleMemberRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.RemoveRoleMember(ctx, sess, req.Role, req.Username); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// RoleMembers handles GET /organizations/roles/subjects.
func (h *Handler) RoleMembers() http.HandlerFunc {
	return h.envelope(string(models.PermRoleACL), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		members, err := h.svc.RoleMembers(ctx, sess, req.Role)
		if err != nil {
			return nil, err
		}
		return membersResponse{Members: members}, nil
	})
}

// SubjectRoles handles GET /organizations/subjects/roles.
func (h *Handler) SubjectRoles() http.HandlerFunc {
	return h.envelope(string(models.PermRoleACL), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req usernameRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		roles, err := h.svc.SubjectRoles(ctx, sess, req.Username)
		if err != nil {
			return nil, err
		}
		return rolesResponse{Roles: roles}, nil
	})
}

// RolePermissions handles GET /organizations/roles/permissions.
func (h *Handler) RolePermissions() http.HandlerFunc {
	return h.envelope(string(models.PermRoleACL), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		perms, err := h.svc.RolePermissions(ctx, sess, req.Role)
		if err != nil {
			return nil, err
		}
		return permissionsResponse{Permissions: perms}, nil
	})
}

// RolesWithPermission handles GET /organizations/permissions/roles.
func (h *Handler) RolesWithPermission() http.HandlerFunc {
	return h.envelope(string(models.PermRoleACL), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req permissionRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		perm, err := parsePermission(req.Permission)
		if err != nil {
			return nil, err
		}
		roles, err := h.svc.RolesWithPermission(ctx, sess, perm)
		if err != nil {
			return nil, err
		}
		return rolesResponse{Roles: roles}, nil
	})
}

// parsePermission validates a permission name from the wire.
func parsePermission(name string) (models.Permission, error) {
	perm := models.Permission(name)
	if !perm.IsValid() {
		return "", wire.Errorf(wire.KindBadRequest, "unknown permission %q", name)
	}
	return perm, nil
}
