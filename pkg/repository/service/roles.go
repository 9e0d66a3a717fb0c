package service

import (
	"context"

	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// CreateRole adds a role to the session's organization. The role starts
// active, with no permissions and no members. Requires ROLE_NEW. Callers
// must hold the session lock.
func (s *Service) CreateRole(ctx context.Context, sess *session.Session, roleName string) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermRoleNew, ""); err != nil {
		return err
	}
	if roleName == "" {
		return wire.Errorf(wire.KindBadRequest, "role name is required")
	}

	if _, err := s.store.CreateRole(ctx, sess.Organization, &models.Role{Name: roleName}); err != nil {
		return translate(err)
	}

	s.logger.Info("role created",
		"organization", sess.Organization, "role", roleName, "by", sess.Username)
	return nil
}

// SetRoleState suspends or reactivates a role. Suspension requires
// ROLE_DOWN, reactivation ROLE_UP. The managers role cannot be suspended.
// Callers must hold the session lock.
func (s *Service) SetRoleState(ctx context.Context, sess *session.Session, roleName string, state models.RoleState) error {
	perm := models.PermRoleDown
	if state == models.RoleActive {
		perm = models.PermRoleUp
	}

	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, perm, ""); err != nil {
		return err
	}
	if roleName == models.ManagersRole && state == models.RoleSuspended {
		return wire.Errorf(wire.KindInvariantViolation,
			"%s cannot be suspended", models.ManagersRole)
	}

	if err := s.store.SetRoleState(ctx, sess.Organization, roleName, state); err != nil {
		return translate(err)
	}

	s.logger.Info("role state changed",
		"organization", sess.Organization, "role", roleName,
		"state", string(state), "by", sess.Username)
	return nil
}

// AddRolePermission grants a permission to a role. Requires ROLE_MOD.
// Callers must hold the session lock.
func (s *Service) AddRolePermission(ctx context.Context, sess *session.Session, roleName string, perm models.Permission) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermRoleMod, ""); err != nil {
		return err
	}
	if !perm.IsValid() {
		return wire.Errorf(wire.KindBadRequest, "unknown permission %q", perm)
	}

	if err := s.store.AddRolePermission(ctx, sess.Organization, roleName, perm); err != nil {
		return translate(err)
	}

	s.logger.Info("permission granted",
		"organization", sess.Organization, "role", roleName,
		"permission", string(perm), "by", sess.Username)
	return nil
}

// RemoveRolePermission revokes a permission from a role. Requires ROLE_MOD.
// The managers role cannot lose an administrative permission. Callers must
// hold the session lock.
func (s *Service) RemoveRolePermission(ctx context.Context, sess *session.Session, roleName string, perm models.Permission) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermRoleMod, ""); err != nil {
		return err
	}
	if !perm.IsValid() {
		return wire.Errorf(wire.KindBadRequest, "unknown permission %q", perm)
	}
	if roleName == models.ManagersRole && perm.IsAdministrative() {
		return wire.Errorf(wire.KindInvariantViolation,
			"%s cannot lose %s", models.ManagersRole, perm)
	}

	if err := s.store.RemoveRolePermission(ctx, sess.Organization, roleName, perm); err != nil {
		return translate(err)
	}

	s.logger.Info("permission revoked",
		"organization", sess.Organization, "role", roleName,
		"permission", string(perm), "by", sess.Username)
	return nil
}

// AddRoleMember adds a subject to a role. Requires ROLE_MOD. Callers must
// hold the session lock.
func (s *Service) AddRoleMember(ctx context.Context, sess *session.Session, roleName, username string) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermRoleMod, ""); err != nil {
		return err
	}

	if err := s.store.AddRoleMember(ctx, sess.Organization, roleName, username); err != nil {
		return translate(err)
	}

	s.logger.Info("role member added",
		"organization", sess.Organization, "role", roleName,
		"subject", username, "by", sess.Username)
	return nil
}

// RemoveRoleMember removes a subject from a role. Requires ROLE_MOD.
// Removing the last active member of managers is rejected. Callers must hold
// the session lock.
func (s *Service) RemoveRoleMember(ctx context.Context, sess *session.Session, roleName, username string) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermRoleMod, ""); err != nil {
		return err
	}

	if roleName == models.ManagersRole {
		managers, err := s.store.GetRole(ctx, sess.Organization, models.ManagersRole)
		if err != nil {
			return translate(err)
		}
		remaining := 0
		for _, member := range managers.Members {
			if member.Username != username && member.State == models.SubjectActive {
				remaining++
			}
		}
		if managers.HasMember(username) && remaining == 0 {
			return wire.Errorf(wire.KindInvariantViolation,
				"removing %q would leave %s without an active member", username, models.ManagersRole)
		}
	}

	if err := s.store.RemoveRoleMember(ctx, sess.Organization, roleName, username); err != nil {
		return translate(err)
	}

	s.logger.Info("role member removed",
		"organization", sess.Organization, "role", roleName,
		"subject", username, "by", sess.Username)
	return nil
}

// RoleMembers returns the usernames of a role's members. Requires ROLE_ACL.
// Callers must hold the session lock.
func (s *Service) RoleMembers(ctx context.Context, sess *session.Session, roleName string) ([]string, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.Authorize(ctx, sess, models.PermRoleACL, ""); err != nil {
		return nil, err
	}

	role, err := s.store.GetRole(ctx, sess.Organization, roleName)
	if err != nil {
		return nil, translate(err)
	}

	members := make([]string, 0, len(role.Members))
	for _, member := range role.Members {
		members = append(members, member.Username)
	}
	return members, nil
}

// SubjectRoles returns the names of the roles a subject belongs to.
// Requires ROLE_ACL. Callers must hold the session lock.
func (s *Service) SubjectRoles(ctx context.Context, sess *session.Session, username string) ([]string, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.Authorize(ctx, sess, models.PermRoleACL, ""); err != nil {
		return nil, err
	}

	roles, err := s.store.ListSubjectRoles(ctx, sess.Organization, username)
	if err != nil {
		return nil, translate(err)
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

// RolePermissions returns the permissions a role holds. Requires ROLE_ACL.
// Callers must hold the session lock.
func (s *Service) RolePermissions(ctx context.Context, sess *session.Session, roleName string) ([]models.Permission, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.Authorize(ctx, sess, models.PermRoleACL, ""); err != nil {
		return nil, err
	}

	role, err := s.store.GetRole(ctx, sess.Organization, roleName)
	if err != nil {
		return nil, translate(err)
	}

	perms := make([]models.Permission, 0, len(role.Permissions))
	for _, grant := range role.Permissions {
		perms = append(perms, grant.Permission)
	}
	return perms, nil
}

// RolesWithPermission returns the names of the roles holding a permission.
// Requires ROLE_ACL. Callers must hold the session lock.
func (s *Service) RolesWithPermission(ctx context.Context, sess *session.Session, perm models.Permission) ([]string, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.Authorize(ctx, sess, models.PermRoleACL, ""); err != nil {
		return nil, err
	}
	if !perm.IsValid() {
		return nil, wire.Errorf(wire.KindBadRequest, "unknown permission %q", perm)
	}

	roles, err := s.store.ListRolesWithPermission(ctx, sess.Organization, perm)
	if err != nil {
		return nil, translate(err)
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}
