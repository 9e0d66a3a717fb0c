package service

import (
	"context"

	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/wire"
)

// CreateOrganization bootstraps a new organization: the creator subject
// (active), and the managers role holding every permission with the creator
// as its first member. No session is involved; the caller
// is authenticated by the signed handshake envelope.
func (s *Service) CreateOrganization(ctx context.Context, org, username, displayName, email, publicKeyPEM string) error {
	if org == "" || username == "" {
		return wire.Errorf(wire.KindBadRequest, "organization and username are required")
	}
	if _, err := keys.ParsePublicKey(publicKeyPEM); err != nil {
		return wire.Errorf(wire.KindBadRequest, "invalid public key: %s", err)
	}

	err := s.store.BootstrapOrganization(ctx,
		&models.Organization{Name: org},
		&models.Subject{
			Username:     username,
			DisplayName:  displayName,
			Email:        email,
			PublicKeyPEM: publicKeyPEM,
		})
	if err != nil {
		return translate(err)
	}

	s.logger.Info("organization created", "organization", org, "creator", username)
	return nil
}

// ListOrganizations returns the names of all organizations. Unauthenticated.
func (s *Service) ListOrganizations(ctx context.Context) ([]string, error) {
	orgs, err := s.store.ListOrganizations(ctx)
	if err != nil {
		return nil, translate(err)
	}

	names := make([]string, 0, len(orgs))
	for _, o := range orgs {
		names = append(names, o.Name)
	}
	return names, nil
}
