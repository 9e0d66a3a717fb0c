package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docrep/docrep/pkg/repository/models"
)

// ============================================
// ROLE OPERATIONS
// ============================================

func (s *GORMStore) GetRole(ctx context.Context, org, role string) (*models.Role, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}
	return s.getRoleByOrgID(ctx, id, role)
}

func (s *GORMStore) getRoleByOrgID(ctx context.Context, orgID, role string) (*models.Role, error) {
	var r models.Role
	err := s.db.WithContext(ctx).
		Preload("Permissions").
		Preload("Members").
		Where("organization_id = ? AND name = ?", orgID, role).
		First(&r).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrRoleNotFound)
	}
	return &r, nil
}

func (s *GORMStore) ListRoles(ctx context.Context, org string) ([]*models.Role, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	var roles []*models.Role
	if err := s.db.WithContext(ctx).
		Preload("Permissions").
		Preload("Members").
		Where("organization_id = ?", id).
		Order("name").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *GORMStore) CreateRole(ctx context.Context, org string, role *models.Role) (string, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return "", err
	}

	if role.ID == "" {
		role.ID = uuid.New().String()
	}
	role.OrganizationID = id
	if role.State == "" {
		role.State = models.RoleActive
	}
	role.CreatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", models.ErrDuplicateRole
		}
		return "", err
	}
	return role.ID, nil
}

func (s *GORMStore) SetRoleState(ctx context.Context, org, role string, state models.RoleState) error {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("organization_id = ? AND name = ?", id, role).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRoleNotFound
	}
	return nil
}

func (s *GORMStore) AddRolePermission(ctx context.Context, org, role string, perm models.Permission) error {
	r, err := s.GetRole(ctx, org, role)
	if err != nil {
		return err
	}

	grant := models.RolePermission{RoleID: r.ID, Permission: perm}
	if err := s.db.WithContext(ctx).Create(&grant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil // already granted
		}
		return err
	}
	return nil
}

func (s *GORMStore) RemoveRolePermission(ctx context.Context, org, role string, perm models.Permission) error {
	r, err := s.GetRole(ctx, org, role)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Where("role_id = ? AND permission = ?", r.ID, perm).
		Delete(&models.RolePermission{}).Error
}

func (s *GORMStore) AddRoleMember(ctx context.Context, org, role, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := orgID(tx, org)
		if err != nil {
			return err
		}

		var r models.Role
		if err := tx.Where("organization_id = ? AND name = ?", id, role).First(&r).Error; err != nil {
			return convertNotFoundError(err, models.ErrRoleNotFound)
		}

		var subject models.Subject
		if err := tx.Where("organization_id = ? AND username = ?", id, username).First(&subject).Error; err != nil {
			return convertNotFoundError(err, models.ErrSubjectNotFound)
		}

		return tx.Model(&r).Association("Members").Append(&subject)
	})
}

func (s *GORMStore) RemoveRoleMember(ctx context.Context, org, role, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := orgID(tx, org)
		if err != nil {
			return err
		}

		var r models.Role
		if err := tx.Where("organization_id = ? AND name = ?", id, role).First(&r).Error; err != nil {
			return convertNotFoundError(err, models.ErrRoleNotFound)
		}

		var subject models.Subject
		if err := tx.Where("organization_id = ? AND username = ?", id, username).First(&subject).Error; err != nil {
			return convertNotFoundError(err, models.ErrSubjectNotFound)
		}

		return tx.Model(&r).Association("Members").Delete(&subject)
	})
}

func (s *GORMStore) ListSubjectRoles(ctx context.Context, org, username string) ([]*models.Role, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	var subject models.Subject
	if err := s.db.WithContext(ctx).
		Where("organization_id = ? AND username = ?", id, username).
		First(&subject).Error; err != nil {
		return nil, convertNotFoundError(err, models.ErrSubjectNotFound)
	}

	var roles []*models.Role
	err = s.db.WithContext(ctx).
		Preload("Permissions").
		Preload("Members").
		Joins("JOIN role_subjects ON role_subjects.role_id = roles.id").
		Where("role_subjects.subject_id = ?", subject.ID).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *GORMStore) ListRolesWithPermission(ctx context.Context, org string, perm models.Permission) ([]*models.Role, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	var roles []*models.Role
	err = s.db.WithContext(ctx).
		Preload("Permissions").
		Preload("Members").
		Joins("JOIN role_permissions ON role_permissions.role_id = roles.id").
		Where("roles.organization_id = ? AND role_permissions.permission = ?", id, perm).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
