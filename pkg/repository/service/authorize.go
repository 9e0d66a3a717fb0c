package service

import (
	"context"

	"github.com/docrep/docrep/internal/telemetry"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// Authorize decides whether the session may perform an operation requiring
// perm. For document-scoped permissions, docName names the target document
// and the grant must additionally appear in its ACL.
//
// Checks run in a fixed order and the first failure dictates the denial:
//  1. the session's subject exists and is active (SUBJECT_INACTIVE);
//  2. at least one role is assumed (ROLE_NOT_ASSUMED);
//  3. some assumed role is active, still has the subject as member, and
//     holds perm (PERMISSION_DENIED);
//  4. for document-scoped perm, one such role carries perm in the document
//     ACL (ACL_DENIED).
//
// Callers must hold the session lock. Session validity (known, unexpired,
// fresh msg_id) is the transport layer's job and is not re-checked here.
func (s *Service) Authorize(ctx context.Context, sess *session.Session, perm models.Permission, docName string) error {
	ctx, span := telemetry.StartAuthzSpan(ctx, string(perm),
		telemetry.Organization(sess.Organization),
		telemetry.Username(sess.Username))
	defer span.End()
	if docName != "" {
		span.SetAttributes(telemetry.Document(docName))
	}

	err := s.authorize(ctx, sess, perm, docName)
	if err != nil {
		span.SetAttributes(telemetry.Outcome(string(wire.KindOf(err))))
	} else {
		span.SetAttributes(telemetry.Outcome("allowed"))
	}
	return err
}

func (s *Service) authorize(ctx context.Context, sess *session.Session, perm models.Permission, docName string) error {
	granting, err := s.grantingRoles(ctx, sess, perm)
	if err != nil {
		return err
	}

	if !perm.IsDocumentScoped() {
		return nil
	}

	doc, err := s.store.GetDocument(ctx, sess.Organization, docName)
	if err != nil {
		return translate(err)
	}
	for _, role := range granting {
		if doc.RoleAllowed(role, perm) {
			return nil
		}
	}
	return wire.Errorf(wire.KindACLDenied,
		"no assumed role carries %s on document %q", perm, docName)
}

// grantingRoles returns the assumed roles, in assumption order and without
// duplicates, that satisfy perm: active, subject still a member, permission
// held. An empty result is reported as a denial, never returned.
func (s *Service) grantingRoles(ctx context.Context, sess *session.Session, perm models.Permission) ([]string, error) {
	if err := s.requireActiveSubject(ctx, sess); err != nil {
		return nil, err
	}

	assumed := sess.AssumedRoles()
	if len(assumed) == 0 {
		return nil, wire.Errorf(wire.KindRoleNotAssumed, "no role assumed in this session")
	}

	var granting []string
	seen := make(map[string]bool, len(assumed))
	for _, name := range assumed {
		if seen[name] {
			continue
		}
		seen[name] = true

		role, err := s.store.GetRole(ctx, sess.Organization, name)
		if err != nil {
			// A role deleted or renamed after assumption simply stops granting.
			continue
		}
		if role.State != models.RoleActive {
			continue
		}
		if !role.HasMember(sess.Username) {
			continue
		}
		if !role.HasPermission(perm) {
			continue
		}
		granting = append(granting, name)
	}

	if len(granting) == 0 {
		return nil, wire.Errorf(wire.KindPermissionDenied,
			"no active assumed role grants %s", perm)
	}
	return granting, nil
}

// requireActiveSubject verifies the session's subject still exists and is
// active. A subject suspended after the handshake fails its next request here.
func (s *Service) requireActiveSubject(ctx context.Context, sess *session.Session) error {
	subject, err := s.store.GetSubject(ctx, sess.Organization, sess.Username)
	if err != nil {
		return translate(err)
	}
	if subject.State != models.SubjectActive {
		return wire.Errorf(wire.KindSubjectInactive, "subject %q is suspended", sess.Username)
	}
	return nil
}
