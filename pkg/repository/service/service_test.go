package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrep/docrep/pkg/blob/memory"
	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/repository/store"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	st, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	blobs := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, blobs, logger), blobs
}

func testPublicKeyPEM(t *testing.T) string {
	t.Helper()

	priv, err := keys.Generate()
	require.NoError(t, err)
	pem, err := keys.EncodePublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return string(pem)
}

// bootstrap creates the acme organization with alice as creator and returns
// a session for alice with managers assumed.
func bootstrap(t *testing.T, svc *Service) *session.Session {
	t.Helper()
	ctx := context.Background()

	err := svc.CreateOrganization(ctx, "acme", "alice", "Alice", "a@x", testPublicKeyPEM(t))
	require.NoError(t, err)

	sess := &session.Session{ID: 1, Organization: "acme", Username: "alice"}
	require.NoError(t, svc.AssumeRole(ctx, sess, models.ManagersRole))
	return sess
}

func TestCreateOrganization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	pem := testPublicKeyPEM(t)

	require.NoError(t, svc.CreateOrganization(ctx, "acme", "alice", "Alice", "a@x", pem))

	names, err := svc.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "acme")

	err = svc.CreateOrganization(ctx, "acme", "bob", "Bob", "b@x", pem)
	assert.Equal(t, wire.KindConflict, wire.KindOf(err))

	err = svc.CreateOrganization(ctx, "other", "bob", "Bob", "b@x", "not a key")
	assert.Equal(t, wire.KindBadRequest, wire.KindOf(err))
}

func TestAssumeRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	assert.Equal(t, []string{models.ManagersRole}, sess.AssumedRoles())

	err := svc.AssumeRole(ctx, sess, "ghosts")
	assert.Equal(t, wire.KindNotFound, wire.KindOf(err))

	// A role the subject is not a member of cannot be assumed.
	require.NoError(t, svc.CreateRole(ctx, sess, "auditors"))
	err = svc.AssumeRole(ctx, sess, "auditors")
	assert.Equal(t, wire.KindPermissionDenied, wire.KindOf(err))

	// Nor can a suspended role.
	require.NoError(t, svc.AddRoleMember(ctx, sess, "auditors", "alice"))
	require.NoError(t, svc.SetRoleState(ctx, sess, "auditors", models.RoleSuspended))
	err = svc.AssumeRole(ctx, sess, "auditors")
	assert.Equal(t, wire.KindPermissionDenied, wire.KindOf(err))

	require.NoError(t, svc.SetRoleState(ctx, sess, "auditors", models.RoleActive))
	require.NoError(t, svc.AssumeRole(ctx, sess, "auditors"))
	assert.Equal(t, []string{models.ManagersRole, "auditors"}, sess.AssumedRoles())
}

func TestDropRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	err := svc.DropRole(ctx, sess, "auditors")
	assert.Equal(t, wire.KindRoleNotAssumed, wire.KindOf(err))

	require.NoError(t, svc.DropRole(ctx, sess, models.ManagersRole))
	roles, err := svc.SessionRoles(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestAuthorizeOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	// No assumed role: ROLE_NOT_ASSUMED before any permission check.
	bare := &session.Session{ID: 2, Organization: "acme", Username: "alice"}
	err := svc.Authorize(ctx, bare, models.PermSubjectNew, "")
	assert.Equal(t, wire.KindRoleNotAssumed, wire.KindOf(err))

	// Assumed role without the permission: PERMISSION_DENIED.
	require.NoError(t, svc.CreateRole(ctx, sess, "readers"))
	require.NoError(t, svc.AddRoleMember(ctx, sess, "readers", "alice"))
	readerSess := &session.Session{ID: 3, Organization: "acme", Username: "alice"}
	require.NoError(t, svc.AssumeRole(ctx, readerSess, "readers"))
	err = svc.Authorize(ctx, readerSess, models.PermSubjectNew, "")
	assert.Equal(t, wire.KindPermissionDenied, wire.KindOf(err))

	// With managers assumed the same check passes.
	require.NoError(t, svc.Authorize(ctx, sess, models.PermSubjectNew, ""))
}

func TestSuspendedSubjectBlocked(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	require.NoError(t, svc.CreateSubject(ctx, sess, "bob", "Bob", "b@x", testPublicKeyPEM(t)))
	require.NoError(t, svc.SetSubjectState(ctx, sess, "bob", models.SubjectSuspended))

	// A session bob already opened fails its next request.
	bobSess := &session.Session{ID: 4, Organization: "acme", Username: "bob"}
	err := svc.Authorize(ctx, bobSess, models.PermSubjectNew, "")
	assert.Equal(t, wire.KindSubjectInactive, wire.KindOf(err))

	// And bob cannot authenticate a new handshake.
	_, err = svc.SubjectPublicKey(ctx, "acme", "bob")
	assert.Equal(t, wire.KindSubjectInactive, wire.KindOf(err))
}

func TestManagersInvariants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	// Suspending the only active manager is rejected.
	err := svc.SetSubjectState(ctx, sess, "alice", models.SubjectSuspended)
	assert.Equal(t, wire.KindInvariantViolation, wire.KindOf(err))

	// As is removing them from managers.
	err = svc.RemoveRoleMember(ctx, sess, models.ManagersRole, "alice")
	assert.Equal(t, wire.KindInvariantViolation, wire.KindOf(err))

	// Managers cannot be suspended or lose administrative permissions.
	err = svc.SetRoleState(ctx, sess, models.ManagersRole, models.RoleSuspended)
	assert.Equal(t, wire.KindInvariantViolation, wire.KindOf(err))
	err = svc.RemoveRolePermission(ctx, sess, models.ManagersRole, models.PermSubjectDown)
	assert.Equal(t, wire.KindInvariantViolation, wire.KindOf(err))

	// With a second active manager, suspending alice succeeds.
	require.NoError(t, svc.CreateSubject(ctx, sess, "bob", "Bob", "b@x", testPublicKeyPEM(t)))
	require.NoError(t, svc.AddRoleMember(ctx, sess, models.ManagersRole, "bob"))
	require.NoError(t, svc.SetSubjectState(ctx, sess, "alice", models.SubjectSuspended))

	// Alice's own session is now dead.
	err = svc.Authorize(ctx, sess, models.PermSubjectUp, "")
	assert.Equal(t, wire.KindSubjectInactive, wire.KindOf(err))
}

func TestSubjectStates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	require.NoError(t, svc.CreateSubject(ctx, sess, "bob", "Bob", "b@x", testPublicKeyPEM(t)))
	require.NoError(t, svc.SetSubjectState(ctx, sess, "bob", models.SubjectSuspended))

	states, err := svc.SubjectStates(ctx, sess, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]models.SubjectState{
		"alice": models.SubjectActive,
		"bob":   models.SubjectSuspended,
	}, states)

	states, err = svc.SubjectStates(ctx, sess, "bob")
	require.NoError(t, err)
	assert.Equal(t, map[string]models.SubjectState{"bob": models.SubjectSuspended}, states)

	_, err = svc.SubjectStates(ctx, sess, "nobody")
	assert.Equal(t, wire.KindNotFound, wire.KindOf(err))
}

func TestRoleQueries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	require.NoError(t, svc.CreateRole(ctx, sess, "auditors"))
	require.NoError(t, svc.AddRoleMember(ctx, sess, "auditors", "alice"))
	require.NoError(t, svc.AddRolePermission(ctx, sess, "auditors", models.PermDocRead))

	members, err := svc.RoleMembers(ctx, sess, "auditors")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)

	roles, err := svc.SubjectRoles(ctx, sess, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.ManagersRole, "auditors"}, roles)

	perms, err := svc.RolePermissions(ctx, sess, "auditors")
	require.NoError(t, err)
	assert.Equal(t, []models.Permission{models.PermDocRead}, perms)

	withPerm, err := svc.RolesWithPermission(ctx, sess, models.PermDocRead)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.ManagersRole, "auditors"}, withPerm)

	_, err = svc.RolesWithPermission(ctx, sess, "BOGUS")
	assert.Equal(t, wire.KindBadRequest, wire.KindOf(err))
}

func addTestDocument(t *testing.T, svc *Service, sess *session.Session, name string, plaintext []byte) string {
	t.Helper()

	sum := sha256.Sum256(plaintext)
	handle := hex.EncodeToString(sum[:])
	// The service treats content as opaque ciphertext; using the plaintext
	// directly keeps the test readable.
	err := svc.AddDocument(context.Background(), sess, name, handle, "00ff", models.AlgAES256GCM, plaintext)
	require.NoError(t, err)
	return handle
}

func TestDocumentRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	handle := addTestDocument(t, svc, sess, "d1", []byte("hello"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", handle)

	doc, err := svc.GetDocumentMetadata(ctx, sess, "d1")
	require.NoError(t, err)
	require.NotNil(t, doc.FileHandle)
	assert.Equal(t, handle, *doc.FileHandle)
	assert.Equal(t, "alice", doc.Creator)

	// The first assumed role got all three document permissions.
	for _, perm := range models.DocumentPermissions() {
		assert.True(t, doc.RoleAllowed(models.ManagersRole, perm))
	}

	content, err := svc.GetFile(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)
}

func TestAddDocumentValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	sum := sha256.Sum256([]byte("x"))
	handle := hex.EncodeToString(sum[:])

	err := svc.AddDocument(ctx, sess, "d1", handle, "00", "ChaCha20", []byte("x"))
	assert.Equal(t, wire.KindUnsupportedAlg, wire.KindOf(err))

	err = svc.AddDocument(ctx, sess, "d1", "nothex", "00", models.AlgAES256GCM, []byte("x"))
	assert.Equal(t, wire.KindBadRequest, wire.KindOf(err))

	require.NoError(t, svc.AddDocument(ctx, sess, "d1", handle, "00", models.AlgAES256GCM, []byte("x")))
	err = svc.AddDocument(ctx, sess, "d1", handle, "00", models.AlgAES256GCM, []byte("x"))
	assert.Equal(t, wire.KindConflict, wire.KindOf(err))
}

func TestDeleteDocument(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	handle := addTestDocument(t, svc, sess, "d1", []byte("hello"))

	former, err := svc.DeleteDocument(ctx, sess, "d1")
	require.NoError(t, err)
	assert.Equal(t, handle, former)

	// Metadata and ACL survive; the handle is gone.
	doc, err := svc.GetDocumentMetadata(ctx, sess, "d1")
	require.NoError(t, err)
	assert.Nil(t, doc.FileHandle)
	assert.True(t, doc.RoleAllowed(models.ManagersRole, models.PermDocACL))

	// The blob was unreferenced and removed.
	_, err = blobs.Get(ctx, handle)
	require.Error(t, err)

	_, err = svc.DeleteDocument(ctx, sess, "d1")
	assert.Equal(t, wire.KindDocGone, wire.KindOf(err))
}

func TestDeleteKeepsSharedBlob(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	// Two documents with identical plaintext share one blob.
	handle := addTestDocument(t, svc, sess, "d1", []byte("hello"))
	addTestDocument(t, svc, sess, "d2", []byte("hello"))

	_, err := svc.DeleteDocument(ctx, sess, "d1")
	require.NoError(t, err)

	data, err := blobs.Get(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestDocumentACL(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	addTestDocument(t, svc, sess, "d1", []byte("hello"))

	// Revoking managers' DOC_READ locks alice out of the metadata.
	require.NoError(t, svc.ModifyDocumentACL(ctx, sess, "d1", false, models.ManagersRole, models.PermDocRead))
	_, err := svc.GetDocumentMetadata(ctx, sess, "d1")
	assert.Equal(t, wire.KindACLDenied, wire.KindOf(err))

	// DOC_ACL still held, so she can grant it back.
	require.NoError(t, svc.ModifyDocumentACL(ctx, sess, "d1", true, models.ManagersRole, models.PermDocRead))
	_, err = svc.GetDocumentMetadata(ctx, sess, "d1")
	require.NoError(t, err)

	// Granting to an unknown role is rejected.
	err = svc.ModifyDocumentACL(ctx, sess, "d1", true, "ghosts", models.PermDocRead)
	assert.Equal(t, wire.KindNotFound, wire.KindOf(err))

	// Administrative permissions have no place in a document ACL.
	err = svc.ModifyDocumentACL(ctx, sess, "d1", true, models.ManagersRole, models.PermRoleNew)
	assert.Equal(t, wire.KindBadRequest, wire.KindOf(err))

	// Removing the last DOC_ACL grant is rejected.
	err = svc.ModifyDocumentACL(ctx, sess, "d1", false, models.ManagersRole, models.PermDocACL)
	assert.Equal(t, wire.KindInvariantViolation, wire.KindOf(err))
}

func TestListDocuments(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess := bootstrap(t, svc)

	addTestDocument(t, svc, sess, "d1", []byte("one"))
	addTestDocument(t, svc, sess, "d2", []byte("two"))

	docs, err := svc.ListDocuments(ctx, sess, store.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = svc.ListDocuments(ctx, sess, store.DocumentFilter{Creator: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, docs)

	// Listing needs DOC_READ from some assumed role.
	bare := &session.Session{ID: 9, Organization: "acme", Username: "alice"}
	_, err = svc.ListDocuments(ctx, bare, store.DocumentFilter{})
	assert.Equal(t, wire.KindRoleNotAssumed, wire.KindOf(err))
}

func TestGetFileUnknownHandle(t *testing.T) {
	svc, _ := newTestService(t)

	sum := sha256.Sum256([]byte("missing"))
	_, err := svc.GetFile(context.Background(), hex.EncodeToString(sum[:]))
	assert.Equal(t, wire.KindNotFound, wire.KindOf(err))

	_, err = svc.GetFile(context.Background(), "short")
	assert.Equal(t, wire.KindBadRequest, wire.KindOf(err))
}
