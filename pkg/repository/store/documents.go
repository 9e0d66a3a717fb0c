package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docrep/docrep/pkg/repository/models"
)

// ============================================
// DOCUMENT OPERATIONS
// ============================================

func (s *GORMStore) CreateDocument(ctx context.Context, org string, doc *models.Document) (string, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return "", err
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.OrganizationID = id
	doc.CreatedAt = time.Now()
	for i := range doc.ACL {
		doc.ACL[i].DocumentID = doc.ID
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", models.ErrDuplicateDocument
		}
		return "", err
	}
	return doc.ID, nil
}

func (s *GORMStore) GetDocument(ctx context.Context, org, name string) (*models.Document, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = s.db.WithContext(ctx).
		Preload("ACL").
		Where("organization_id = ? AND name = ?", id, name).
		First(&doc).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrDocumentNotFound)
	}
	return &doc, nil
}

func (s *GORMStore) ListDocuments(ctx context.Context, org string, filter DocumentFilter) ([]*models.Document, error) {
	id, err := orgID(s.db.WithContext(ctx), org)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Preload("ACL").
		Where("organization_id = ?", id)

	if filter.Creator != "" {
		q = q.Where("creator = ?", filter.Creator)
	}

	if filter.DateOp != "" {
		day := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		next := day.AddDate(0, 0, 1)
		switch filter.DateOp {
		case "nt":
			q = q.Where("created_at >= ?", next)
		case "ot":
			q = q.Where("created_at < ?", day)
		case "eq":
			q = q.Where("created_at >= ? AND created_at < ?", day, next)
		}
	}

	var docs []*models.Document
	if err := q.Order("name").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *GORMStore) ClearFileHandle(ctx context.Context, org, name string) (string, error) {
	var former string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := orgID(tx, org)
		if err != nil {
			return err
		}

		var doc models.Document
		if err := tx.Where("organization_id = ? AND name = ?", id, name).First(&doc).Error; err != nil {
			return convertNotFoundError(err, models.ErrDocumentNotFound)
		}
		if doc.FileHandle == nil {
			return models.ErrDocumentGone
		}
		former = *doc.FileHandle

		return tx.Model(&doc).Update("file_handle", nil).Error
	})
	if err != nil {
		return "", err
	}
	return former, nil
}

func (s *GORMStore) CountDocumentReferences(ctx context.Context, handle string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("file_handle = ?", handle).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *GORMStore) AddDocumentACL(ctx context.Context, org, name, role string, perm models.Permission) error {
	doc, err := s.GetDocument(ctx, org, name)
	if err != nil {
		return err
	}

	entry := models.DocumentACL{DocumentID: doc.ID, RoleName: role, Permission: perm}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil // already granted
		}
		return err
	}
	return nil
}

func (s *GORMStore) RemoveDocumentACL(ctx context.Context, org, name, role string, perm models.Permission) error {
	doc, err := s.GetDocument(ctx, org, name)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Where("document_id = ? AND role_name = ? AND permission = ?", doc.ID, role, perm).
		Delete(&models.DocumentACL{}).Error
}
