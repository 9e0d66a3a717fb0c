package service

import (
	"context"
	"crypto/ecdsa"

	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// SubjectPublicKey loads a subject's registered long-term key for handshake
// signature verification. Suspended subjects may not authenticate.
func (s *Service) SubjectPublicKey(ctx context.Context, org, username string) (*ecdsa.PublicKey, error) {
	l := s.orgLock(org)
	l.RLock()
	defer l.RUnlock()

	subject, err := s.store.GetSubject(ctx, org, username)
	if err != nil {
		return nil, translate(err)
	}
	if subject.State != models.SubjectActive {
		return nil, wire.Errorf(wire.KindSubjectInactive, "subject %q is suspended", username)
	}

	pub, err := keys.ParsePublicKey(subject.PublicKeyPEM)
	if err != nil {
		return nil, wire.Errorf(wire.KindBadRequest, "stored public key unreadable: %s", err)
	}
	return pub, nil
}

// AssumeRole appends a role to the session's assumed list. The role must
// exist, be active, and have the session's subject as a member. Callers must
// hold the session lock.
func (s *Service) AssumeRole(ctx context.Context, sess *session.Session, roleName string) error {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.requireActiveSubject(ctx, sess); err != nil {
		return err
	}

	role, err := s.store.GetRole(ctx, sess.Organization, roleName)
	if err != nil {
		return translate(err)
	}
	if role.State != models.RoleActive {
		return wire.Errorf(wire.KindPermissionDenied, "role %q is suspended", roleName)
	}
	if !role.HasMember(sess.Username) {
		return wire.Errorf(wire.KindPermissionDenied,
			"subject %q is not a member of role %q", sess.Username, roleName)
	}

	sess.AssumeRole(roleName)
	return nil
}

// DropRole removes the first occurrence of a role from the session's assumed
// list. Callers must hold the session lock.
func (s *Service) DropRole(ctx context.Context, sess *session.Session, roleName string) error {
	if err := s.requireActiveSubject(ctx, sess); err != nil {
		return err
	}
	if !sess.DropRole(roleName) {
		return wire.Errorf(wire.KindRoleNotAssumed, "role %q is not assumed", roleName)
	}
	return nil
}

// SessionRoles returns the session's assumed roles in assumption order.
// Callers must hold the session lock.
func (s *Service) SessionRoles(ctx context.Context, sess *session.Session) ([]string, error) {
	if err := s.requireActiveSubject(ctx, sess); err != nil {
		return nil, err
	}
	return sess.AssumedRoles(), nil
}
