package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/docrep/docrep/pkg/repository/models"
)

// ============================================
// SUBJECT OPERATIONS
// ============================================

func (s *GORMStore) GetSubject(ctx context.Context, org, username string) (*models.Subject, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	var subject models.Subject
	err = s.db.WithContext(ctx).
		Where("organization_id = ? AND username = ?", id, username).
		First(&subject).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrSubjectNotFound)
	}
	return &subject, nil
}

func (s *GORMStore) ListSubjects(ctx context.Context, org string) ([]*models.Subject, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	var subjects []*models.Subject
	if err := s.db.WithContext(ctx).
		Where("organization_id = ?", id).
		Order("username").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *GORMStore) CreateSubject(ctx context.Context, org string, subject *models.Subject) (string, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return "", err
	}

	if subject.ID == "" {
		subject.ID = uuid.New().String()
	}
	subject.OrganizationID = id
	if subject.State == "" {
		subject.State = models.SubjectActive
	}
	subject.CreatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(subject).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", models.ErrDuplicateSubject
		}
		return "", err
	}
	return subject.ID, nil
}

func (s *GORMStore) SetSubjectState(ctx context.Context, org, username string, state models.SubjectState) error {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.Subject{}).
		Where("organization_id = ? AND username = ?", id, username).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrSubjectNotFound
	}
	return nil
}
