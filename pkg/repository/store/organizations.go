package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docrep/docrep/pkg/repository/models"
)

// ============================================
// ORGANIZATION OPERATIONS
// ============================================

func (s *GORMStore) BootstrapOrganization(ctx context.Context, org *models.Organization, creator *models.Subject) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if org.ID == "" {
			org.ID = uuid.New().String()
		}
		org.Creator = creator.Username
		org.CreatedAt = time.Now()

		if err := tx.Create(org).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.ErrDuplicateOrganization
			}
			return err
		}

		if creator.ID == "" {
			creator.ID = uuid.New().String()
		}
		creator.OrganizationID = org.ID
		creator.State = models.SubjectActive
		if err := tx.Create(creator).Error; err != nil {
			return err
		}

		managers := &models.Role{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			Name:           models.ManagersRole,
			State:          models.RoleActive,
		}
		for _, p := range models.AllPermissions() {
			managers.Permissions = append(managers.Permissions, models.RolePermission{
				RoleID:     managers.ID,
				Permission: p,
			})
		}
		if err := tx.Create(managers).Error; err != nil {
			return err
		}

		return tx.Model(managers).Association("Members").Append(creator)
	})
}

func (s *GORMStore) GetOrganization(ctx context.Context, name string) (*models.Organization, error) {
	return getByField[models.Organization](s.db, ctx, "name", name, models.ErrOrganizationNotFound)
}

func (s *GORMStore) ListOrganizations(ctx context.Context) ([]*models.Organization, error) {
	return listAll[models.Organization](s.db, ctx)
}

// orgID resolves an organization name to its id inside tx.
func orgID(tx *gorm.DB, name string) (string, error) {
	var org models.Organization
	if err := tx.Select("id").Where("name = ?", name).First(&org).Error; err != nil {
		return "", convertNotFoundError(err, models.ErrOrganizationNotFound)
	}
	return org.ID, nil
}
