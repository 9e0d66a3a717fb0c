package service

import (
	"context"
	"encoding/hex"

	"github.com/docrep/docrep/internal/telemetry"
	"github.com/docrep/docrep/pkg/blob"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/repository/store"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// AddDocument records document metadata and stores its ciphertext blob.
// Requires DOC_NEW. The caller's first assumed role receives DOC_ACL,
// DOC_READ, and DOC_DELETE in the initial ACL. Callers must hold the session
// lock.
//
// The handle is the hex SHA-256 of the plaintext, computed client-side; the
// server never sees the plaintext and cannot verify it here. Readers verify
// integrity after decryption.
func (s *Service) AddDocument(ctx context.Context, sess *session.Session, name, handle, keyHex, alg string, content []byte) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermDocNew, ""); err != nil {
		return err
	}

	if name == "" {
		return wire.Errorf(wire.KindBadRequest, "document name is required")
	}
	if alg != models.AlgAES256GCM {
		return wire.Errorf(wire.KindUnsupportedAlg, "unsupported algorithm %q", alg)
	}
	if err := blob.ValidateHandle(handle); err != nil {
		return wire.Errorf(wire.KindBadRequest, "%s", err)
	}
	if _, err := hex.DecodeString(keyHex); err != nil {
		return wire.Errorf(wire.KindBadRequest, "key is not hex")
	}

	// ACL seeding uses the first assumed role; Authorize guarantees at least
	// one is assumed.
	creatorRole := sess.AssumedRoles()[0]
	acl := make([]models.DocumentACL, 0, len(models.DocumentPermissions()))
	for _, perm := range models.DocumentPermissions() {
		acl = append(acl, models.DocumentACL{RoleName: creatorRole, Permission: perm})
	}

	// The blob is content-addressed, so writing it before the metadata commit
	// is harmless: a duplicate-name failure leaves at worst an orphan blob
	// that a later upload of the same content reuses.
	putCtx, putSpan := telemetry.StartBlobSpan(ctx, "put", handle, telemetry.Size(len(content)))
	err := s.blobs.Put(putCtx, handle, content)
	putSpan.End()
	if err != nil {
		return translate(err)
	}

	_, err = s.store.CreateDocument(ctx, sess.Organization, &models.Document{
		Name:       name,
		Creator:    sess.Username,
		FileHandle: &handle,
		KeyHex:     keyHex,
		Alg:        alg,
		ACL:        acl,
	})
	if err != nil {
		return translate(err)
	}

	s.logger.Info("document added",
		"organization", sess.Organization, "document", name,
		"file_handle", handle, "by", sess.Username)
	return nil
}

// ListDocuments returns document metadata matching the filter. Requires
// DOC_READ held by an assumed role; individual document ACLs are not
// consulted for listing. Callers must hold the session lock.
func (s *Service) ListDocuments(ctx context.Context, sess *session.Session, filter store.DocumentFilter) ([]*models.Document, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if _, err := s.grantingRoles(ctx, sess, models.PermDocRead); err != nil {
		return nil, err
	}

	docs, err := s.store.ListDocuments(ctx, sess.Organization, filter)
	if err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

// GetDocumentMetadata returns a document's metadata, including the content
// key and file handle needed to fetch and decrypt it. Requires DOC_READ on
// the document. Callers must hold the session lock.
func (s *Service) GetDocumentMetadata(ctx context.Context, sess *session.Session, name string) (*models.Document, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.Authorize(ctx, sess, models.PermDocRead, name); err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, sess.Organization, name)
	if err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

// DeleteDocument clears a document's file handle and returns the former
// value. Metadata and ACL remain readable. Requires DOC_DELETE on the
// document. The blob is removed only when no other document references the
// handle. Callers must hold the session lock.
func (s *Service) DeleteDocument(ctx context.Context, sess *session.Session, name string) (string, error) {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermDocDelete, name); err != nil {
		return "", err
	}

	former, err := s.store.ClearFileHandle(ctx, sess.Organization, name)
	if err != nil {
		return "", translate(err)
	}

	refs, err := s.store.CountDocumentReferences(ctx, former)
	if err == nil && refs == 0 {
		delCtx, delSpan := telemetry.StartBlobSpan(ctx, "delete", former)
		if err := s.blobs.Delete(delCtx, former); err != nil {
			telemetry.RecordError(delCtx, err)
			s.logger.Warn("orphan blob not removed", "file_handle", former, "error", err)
		}
		delSpan.End()
	}

	s.logger.Info("document deleted",
		"organization", sess.Organization, "document", name,
		"file_handle", former, "by", sess.Username)
	return former, nil
}

// ModifyDocumentACL grants (add=true) or revokes a document-scoped
// permission for a role on a document. Requires DOC_ACL on the document.
// Revoking the last DOC_ACL grant is rejected so the ACL always stays
// editable. Callers must hold the session lock.
func (s *Service) ModifyDocumentACL(ctx context.Context, sess *session.Session, name string, add bool, roleName string, perm models.Permission) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermDocACL, name); err != nil {
		return err
	}
	if !perm.IsDocumentScoped() {
		return wire.Errorf(wire.KindBadRequest, "%q is not a document permission", perm)
	}

	if add {
		// The target role must exist; ACL entries reference roles by name.
		if _, err := s.store.GetRole(ctx, sess.Organization, roleName); err != nil {
			return translate(err)
		}
		if err := s.store.AddDocumentACL(ctx, sess.Organization, name, roleName, perm); err != nil {
			return translate(err)
		}
	} else {
		if perm == models.PermDocACL {
			doc, err := s.store.GetDocument(ctx, sess.Organization, name)
			if err != nil {
				return translate(err)
			}
			holders := 0
			for _, entry := range doc.ACL {
				if entry.Permission == models.PermDocACL && entry.RoleName != roleName {
					holders++
				}
			}
			if doc.RoleAllowed(roleName, models.PermDocACL) && holders == 0 {
				return wire.Errorf(wire.KindInvariantViolation,
					"removing the last %s grant on %q", models.PermDocACL, name)
			}
		}
		if err := s.store.RemoveDocumentACL(ctx, sess.Organization, name, roleName, perm); err != nil {
			return translate(err)
		}
	}

	s.logger.Info("document acl changed",
		"organization", sess.Organization, "document", name,
		"role", roleName, "permission", string(perm), "granted", add,
		"by", sess.Username)
	return nil
}

// GetFile returns the stored ciphertext for a file handle. Unauthenticated:
// possession of the handle and the content key is what gates plaintext
// access, and the payload is AEAD-sealed end to end.
func (s *Service) GetFile(ctx context.Context, handle string) ([]byte, error) {
	ctx, span := telemetry.StartBlobSpan(ctx, "get", handle)
	defer span.End()

	data, err := s.blobs.Get(ctx, handle)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, translate(err)
	}
	span.SetAttributes(telemetry.Size(len(data)))
	return data, nil
}
