package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrep/docrep/pkg/repository/models"
)

func newTestStore(t *testing.T) *GORMStore {
	t.Helper()

	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func bootstrapAcme(t *testing.T, s *GORMStore) {
	t.Helper()

	err := s.BootstrapOrganization(context.Background(),
		&models.Organization{Name: "acme"},
		&models.Subject{
			Username:     "alice",
			DisplayName:  "Alice",
			Email:        "alice@example.com",
			PublicKeyPEM: "-----BEGIN PUBLIC KEY-----\nAA==\n-----END PUBLIC KEY-----\n",
		})
	require.NoError(t, err)
}

func TestBootstrapOrganization(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	org, err := s.GetOrganization(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "alice", org.Creator)

	// Managers role exists, active, with every permission and the creator as
	// member.
	managers, err := s.GetRole(ctx, "acme", models.ManagersRole)
	require.NoError(t, err)
	assert.Equal(t, models.RoleActive, managers.State)
	assert.True(t, managers.HasMember("alice"))
	for _, p := range models.AllPermissions() {
		assert.True(t, managers.HasPermission(p), "managers must hold %s", p)
	}

	subject, err := s.GetSubject(ctx, "acme", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.SubjectActive, subject.State)
}

func TestBootstrapDuplicateOrganization(t *testing.T) {
	s := newTestStore(t)
	bootstrapAcme(t, s)

	err := s.BootstrapOrganization(context.Background(),
		&models.Organization{Name: "acme"},
		&models.Subject{Username: "bob", PublicKeyPEM: "pem"})
	assert.ErrorIs(t, err, models.ErrDuplicateOrganization)
}

func TestSubjectLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	_, err := s.CreateSubject(ctx, "acme", &models.Subject{
		Username:     "bob",
		PublicKeyPEM: "pem",
	})
	require.NoError(t, err)

	_, err = s.CreateSubject(ctx, "acme", &models.Subject{Username: "bob", PublicKeyPEM: "pem"})
	assert.ErrorIs(t, err, models.ErrDuplicateSubject)

	require.NoError(t, s.SetSubjectState(ctx, "acme", "bob", models.SubjectSuspended))
	bob, err := s.GetSubject(ctx, "acme", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.SubjectSuspended, bob.State)

	assert.ErrorIs(t, s.SetSubjectState(ctx, "acme", "nobody", models.SubjectActive), models.ErrSubjectNotFound)

	subjects, err := s.ListSubjects(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}

func TestRoleMembershipAndPermissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	_, err := s.CreateRole(ctx, "acme", &models.Role{Name: "auditors"})
	require.NoError(t, err)

	_, err = s.CreateRole(ctx, "acme", &models.Role{Name: "auditors"})
	assert.ErrorIs(t, err, models.ErrDuplicateRole)

	require.NoError(t, s.AddRolePermission(ctx, "acme", "auditors", models.PermDocNew))
	// Idempotent grant.
	require.NoError(t, s.AddRolePermission(ctx, "acme", "auditors", models.PermDocNew))

	require.NoError(t, s.AddRoleMember(ctx, "acme", "auditors", "alice"))

	role, err := s.GetRole(ctx, "acme", "auditors")
	require.NoError(t, err)
	assert.True(t, role.HasPermission(models.PermDocNew))
	assert.True(t, role.HasMember("alice"))

	roles, err := s.ListSubjectRoles(ctx, "acme", "alice")
	require.NoError(t, err)
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{"managers", "auditors"}, names)

	withPerm, err := s.ListRolesWithPermission(ctx, "acme", models.PermDocNew)
	require.NoError(t, err)
	require.Len(t, withPerm, 2) // managers + auditors
	assert.ElementsMatch(t, []string{"managers", "auditors"},
		[]string{withPerm[0].Name, withPerm[1].Name})

	require.NoError(t, s.RemoveRolePermission(ctx, "acme", "auditors", models.PermDocNew))
	role, err = s.GetRole(ctx, "acme", "auditors")
	require.NoError(t, err)
	assert.False(t, role.HasPermission(models.PermDocNew))

	require.NoError(t, s.RemoveRoleMember(ctx, "acme", "auditors", "alice"))
	role, err = s.GetRole(ctx, "acme", "auditors")
	require.NoError(t, err)
	assert.False(t, role.HasMember("alice"))
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	handle := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	_, err := s.CreateDocument(ctx, "acme", &models.Document{
		Name:       "d1",
		Creator:    "alice",
		FileHandle: &handle,
		KeyHex:     "00",
		Alg:        models.AlgAES256GCM,
		ACL: []models.DocumentACL{
			{RoleName: models.ManagersRole, Permission: models.PermDocACL},
			{RoleName: models.ManagersRole, Permission: models.PermDocRead},
			{RoleName: models.ManagersRole, Permission: models.PermDocDelete},
		},
	})
	require.NoError(t, err)

	doc, err := s.GetDocument(ctx, "acme", "d1")
	require.NoError(t, err)
	require.NotNil(t, doc.FileHandle)
	assert.Equal(t, handle, *doc.FileHandle)
	assert.True(t, doc.RoleAllowed(models.ManagersRole, models.PermDocRead))

	// Delete nulls the handle but keeps metadata and ACL.
	former, err := s.ClearFileHandle(ctx, "acme", "d1")
	require.NoError(t, err)
	assert.Equal(t, handle, former)

	doc, err = s.GetDocument(ctx, "acme", "d1")
	require.NoError(t, err)
	assert.Nil(t, doc.FileHandle)
	assert.True(t, doc.RoleAllowed(models.ManagersRole, models.PermDocACL))

	_, err = s.ClearFileHandle(ctx, "acme", "d1")
	assert.ErrorIs(t, err, models.ErrDocumentGone)
}

func TestDocumentACLMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	handle := "aa"
	_, err := s.CreateDocument(ctx, "acme", &models.Document{
		Name: "d1", Creator: "alice", FileHandle: &handle, KeyHex: "00", Alg: models.AlgAES256GCM,
	})
	require.NoError(t, err)

	require.NoError(t, s.AddDocumentACL(ctx, "acme", "d1", "auditors", models.PermDocRead))
	doc, err := s.GetDocument(ctx, "acme", "d1")
	require.NoError(t, err)
	assert.True(t, doc.RoleAllowed("auditors", models.PermDocRead))

	require.NoError(t, s.RemoveDocumentACL(ctx, "acme", "d1", "auditors", models.PermDocRead))
	doc, err = s.GetDocument(ctx, "acme", "d1")
	require.NoError(t, err)
	assert.False(t, doc.RoleAllowed("auditors", models.PermDocRead))
}

func TestListDocumentsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bootstrapAcme(t, s)

	for _, name := range []string{"a", "b"} {
		h := "aa"
		_, err := s.CreateDocument(ctx, "acme", &models.Document{
			Name: name, Creator: "alice", FileHandle: &h, KeyHex: "00", Alg: models.AlgAES256GCM,
		})
		require.NoError(t, err)
	}
	h := "bb"
	_, err := s.CreateDocument(ctx, "acme", &models.Document{
		Name: "c", Creator: "bob", FileHandle: &h, KeyHex: "00", Alg: models.AlgAES256GCM,
	})
	require.NoError(t, err)

	docs, err := s.ListDocuments(ctx, "acme", DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = s.ListDocuments(ctx, "acme", DocumentFilter{Creator: "bob"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "c", docs[0].Name)

	// Everything was created today: "eq" today matches, "ot" today is empty.
	docs, err = s.ListDocuments(ctx, "acme", DocumentFilter{DateOp: "eq", Date: time.Now()})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = s.ListDocuments(ctx, "acme", DocumentFilter{DateOp: "ot", Date: time.Now()})
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = s.ListDocuments(ctx, "acme", DocumentFilter{DateOp: "nt", Date: time.Now().AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}
