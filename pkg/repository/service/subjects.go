package service

import (
	"context"

	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// SubjectStates returns the state of one subject, or of every subject in the
// organization when username is empty. Any active subject may read states;
// no permission grant is required. Callers must hold the session lock.
func (s *Service) SubjectStates(ctx context.Context, sess *session.Session, username string) (map[string]models.SubjectState, error) {
	l := s.orgLock(sess.Organization)
	l.RLock()
	defer l.RUnlock()

	if err := s.requireActiveSubject(ctx, sess); err != nil {
		return nil, err
	}

	states := make(map[string]models.SubjectState)
	if username != "" {
		subject, err := s.store.GetSubject(ctx, sess.Organization, username)
		if err != nil {
			return nil, translate(err)
		}
		states[subject.Username] = subject.State
		return states, nil
	}

	subjects, err := s.store.ListSubjects(ctx, sess.Organization)
	if err != nil {
		return nil, translate(err)
	}
	for _, subject := range subjects {
		states[subject.Username] = subject.State
	}
	return states, nil
}

// CreateSubject adds a subject to the session's organization.
// Requires SUBJECT_NEW. Callers must hold the session lock.
func (s *Service) CreateSubject(ctx context.Context, sess *session.Session, username, displayName, email, publicKeyPEM string) error {
	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, models.PermSubjectNew, ""); err != nil {
		return err
	}

	if username == "" {
		return wire.Errorf(wire.KindBadRequest, "username is required")
	}
	if _, err := keys.ParsePublicKey(publicKeyPEM); err != nil {
		return wire.Errorf(wire.KindBadRequest, "invalid public key: %s", err)
	}

	_, err := s.store.CreateSubject(ctx, sess.Organization, &models.Subject{
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PublicKeyPEM: publicKeyPEM,
	})
	if err != nil {
		return translate(err)
	}

	s.logger.Info("subject created",
		"organization", sess.Organization, "subject", username, "by", sess.Username)
	return nil
}

// SetSubjectState suspends or reactivates a subject. Suspension requires
// SUBJECT_DOWN, reactivation SUBJECT_UP. Suspending a subject that is the
// last active member of managers is rejected. Callers must hold the session
// lock.
func (s *Service) SetSubjectState(ctx context.Context, sess *session.Session, username string, state models.SubjectState) error {
	perm := models.PermSubjectDown
	if state == models.SubjectActive {
		perm = models.PermSubjectUp
	}

	l := s.orgLock(sess.Organization)
	l.Lock()
	defer l.Unlock()

	if err := s.Authorize(ctx, sess, perm, ""); err != nil {
		return err
	}

	if state == models.SubjectSuspended {
		if err := s.checkManagersAfterSuspend(ctx, sess.Organization, username); err != nil {
			return err
		}
	}

	if err := s.store.SetSubjectState(ctx, sess.Organization, username, state); err != nil {
		return translate(err)
	}

	s.logger.Info("subject state changed",
		"organization", sess.Organization, "subject", username,
		"state", string(state), "by", sess.Username)
	return nil
}

// checkManagersAfterSuspend rejects suspending a subject if it would leave
// the managers role without an active member. Callers must hold the
// organization write lock.
func (s *Service) checkManagersAfterSuspend(ctx context.Context, org, username string) error {
	managers, err := s.store.GetRole(ctx, org, models.ManagersRole)
	if err != nil {
		return translate(err)
	}
	if !managers.HasMember(username) {
		return nil
	}

	for _, member := range managers.Members {
		if member.Username != username && member.State == models.SubjectActive {
			return nil
		}
	}
	return wire.Errorf(wire.KindInvariantViolation,
		"suspending %q would leave %s without an active member", username, models.ManagersRole)
}
