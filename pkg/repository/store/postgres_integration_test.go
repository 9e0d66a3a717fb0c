//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/docrep/docrep/pkg/repository/models"
)

// newPostgresStore starts a disposable PostgreSQL container and opens the
// store against it. Postgres outputs the readiness line twice during
// startup, so wait for the second occurrence.
func newPostgresStore(t *testing.T) *GORMStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("docrep_test"),
		tcpostgres.WithUsername("docrep_test"),
		tcpostgres.WithPassword("docrep_test"),
		testcontainers.WithWaitStrategyAndDeadline(5*time.Minute,
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	s, err := New(&Config{
		Type: DatabaseTypePostgres,
		Postgres: PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			Database: "docrep_test",
			User:     "docrep_test",
			Password: "docrep_test",
			SSLMode:  "disable",
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestPostgresStore exercises the store against a real PostgreSQL instance.
// The SQLite suite covers behavior in depth; this test verifies that the
// schema migrates and that constraint violations map to domain errors on
// the postgres dialect too.
func TestPostgresStore(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	t.Run("bootstrap", func(t *testing.T) {
		org, err := s.GetOrganization(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "alice", org.Creator)

		managers, err := s.GetRole(ctx, "acme", models.ManagersRole)
		require.NoError(t, err)
		assert.True(t, managers.HasMember("alice"))
		for _, p := range models.AllPermissions() {
			assert.True(t, managers.HasPermission(p), "managers must hold %s", p)
		}
	})

	t.Run("duplicate organization maps to domain error", func(t *testing.T) {
		err := s.BootstrapOrganization(ctx,
			&models.Organization{Name: "acme"},
			&models.Subject{Username: "eve", DisplayName: "Eve", Email: "eve@acme.test", PublicKeyPEM: "pem"})
		assert.True(t, errors.Is(err, models.ErrDuplicateOrganization), "got %v", err)
	})

	t.Run("subjects and roles", func(t *testing.T) {
		_, err := s.CreateSubject(ctx, "acme", &models.Subject{
			Username: "bob", DisplayName: "Bob", Email: "bob@acme.test", PublicKeyPEM: "pem",
		})
		require.NoError(t, err)

		_, err = s.CreateRole(ctx, "acme", &models.Role{Name: "auditors"})
		require.NoError(t, err)
		require.NoError(t, s.AddRolePermission(ctx, "acme", "auditors", models.PermDocRead))
		require.NoError(t, s.AddRoleMember(ctx, "acme", "auditors", "bob"))

		roles, err := s.ListSubjectRoles(ctx, "acme", "bob")
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "auditors", roles[0].Name)

		_, err = s.CreateRole(ctx, "acme", &models.Role{Name: "auditors"})
		assert.True(t, errors.Is(err, models.ErrDuplicateRole), "got %v", err)
	})

	t.Run("documents", func(t *testing.T) {
		handle := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
		_, err := s.CreateDocument(ctx, "acme", &models.Document{
			Name: "d1", Creator: "alice", FileHandle: &handle, KeyHex: "00", Alg: models.AlgAES256GCM,
			ACL: []models.DocumentACL{
				{RoleName: models.ManagersRole, Permission: models.PermDocRead},
			},
		})
		require.NoError(t, err)

		refs, err := s.CountDocumentReferences(ctx, handle)
		require.NoError(t, err)
		assert.EqualValues(t, 1, refs)

		former, err := s.ClearFileHandle(ctx, "acme", "d1")
		require.NoError(t, err)
		assert.Equal(t, handle, former)

		doc, err := s.GetDocument(ctx, "acme", "d1")
		require.NoError(t, err)
		assert.Nil(t, doc.FileHandle)

		_, err = s.ClearFileHandle(ctx, "acme", "d1")
		assert.True(t, errors.Is(err, models.ErrDocumentGone), "got %v", err)
	})
}
