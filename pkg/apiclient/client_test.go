package apiclient_test

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docrep/docrep/pkg/apiclient"
	blobmemory "github.com/docrep/docrep/pkg/blob/memory"
	"github.com/docrep/docrep/pkg/controlplane/api"
	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/repository/service"
	"github.com/docrep/docrep/pkg/repository/store"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// newTestStack wires the full server behind httptest and returns its base
// URL plus the server key, so clients can pin it the way repctl does.
func newTestStack(t *testing.T) (*httptest.Server, *ecdsa.PrivateKey) {
	t.Helper()

	st, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := service.New(st, blobmemory.New(), nil)
	registry := session.NewRegistry(time.Hour)
	serverKey, err := keys.Generate()
	require.NoError(t, err)

	ts := httptest.NewServer(api.NewRouter(svc, registry, serverKey, nil))
	t.Cleanup(ts.Close)
	return ts, serverKey
}

func pinnedClient(t *testing.T, ts *httptest.Server, serverKey *ecdsa.PrivateKey) *apiclient.Client {
	t.Helper()
	pem, err := keys.EncodePublicKey(&serverKey.PublicKey)
	require.NoError(t, err)
	return apiclient.New(ts.URL, apiclient.WithServerKey(pem))
}

func TestClientDocumentRoundTrip(t *testing.T) {
	ts, serverKey := newTestStack(t)
	c := pinnedClient(t, ts, serverKey)

	require.NoError(t, c.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))

	orgs, err := c.ListOrganizations()
	require.NoError(t, err)
	assert.Contains(t, orgs, "acme")

	sess, err := c.OpenSession("acme", "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sess.SessionID)

	roles, err := c.AssumeRole("managers")
	require.NoError(t, err)
	assert.Equal(t, []string{"managers"}, roles)

	plaintext := []byte("quarterly figures, do not share")
	handle, err := c.AddDocument("q3-report", plaintext)
	require.NoError(t, err)
	assert.Len(t, handle, 64)

	docs, err := c.ListDocuments(apiclient.DocumentFilter{Creator: "alice"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "q3-report", docs[0].Name)
	require.NotNil(t, docs[0].FileHandle)
	assert.Equal(t, handle, *docs[0].FileHandle)

	got, err := c.GetDocumentFile("q3-report")
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	former, err := c.DeleteDocument("q3-report")
	require.NoError(t, err)
	assert.Equal(t, handle, former)

	// Metadata survives deletion; the content does not.
	doc, err := c.GetDocumentMetadata("q3-report")
	require.NoError(t, err)
	assert.Nil(t, doc.FileHandle)

	_, err = c.GetDocumentFile("q3-report")
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, wire.KindDocGone))
}

func TestClientSessionResume(t *testing.T) {
	ts, serverKey := newTestStack(t)
	c := pinnedClient(t, ts, serverKey)

	require.NoError(t, c.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))
	sess, err := c.OpenSession("acme", "alice", "s3cret")
	require.NoError(t, err)
	_, err = c.AssumeRole("managers")
	require.NoError(t, err)

	// A fresh client resuming the persisted session keeps the counter going.
	saved, err := json.Marshal(c.Session())
	require.NoError(t, err)
	var restored apiclient.Session
	require.NoError(t, json.Unmarshal(saved, &restored))
	assert.Equal(t, sess.SessionID, restored.SessionID)
	savedMsgID := restored.MsgID

	pem, err := keys.EncodePublicKey(&serverKey.PublicKey)
	require.NoError(t, err)
	c2 := apiclient.New(ts.URL, apiclient.WithServerKey(pem), apiclient.WithSession(&restored))

	roles, err := c2.SessionRoles()
	require.NoError(t, err)
	assert.Equal(t, []string{"managers"}, roles)
	assert.Greater(t, c2.Session().MsgID, savedMsgID)
}

func TestClientWrongPassword(t *testing.T) {
	ts, serverKey := newTestStack(t)
	c := pinnedClient(t, ts, serverKey)

	require.NoError(t, c.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))

	_, err := c.OpenSession("acme", "alice", "wrong")
	require.Error(t, err)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, wire.KindAuthFail, apiErr.Kind)
	assert.True(t, apiErr.IsSessionFailure())
}

func TestClientAuthorizationDenied(t *testing.T) {
	ts, serverKey := newTestStack(t)
	admin := pinnedClient(t, ts, serverKey)

	require.NoError(t, admin.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))
	_, err := admin.OpenSession("acme", "alice", "s3cret")
	require.NoError(t, err)
	_, err = admin.AssumeRole("managers")
	require.NoError(t, err)
	require.NoError(t, admin.CreateSubject("bob", "Bob", "bob@acme.test", "hunter2"))

	bob := pinnedClient(t, ts, serverKey)
	_, err = bob.OpenSession("acme", "bob", "hunter2")
	require.NoError(t, err)

	// Bob has no assumed role, so every administrative call is refused
	// inside the envelope.
	err = bob.CreateRole("auditors")
	require.Error(t, err)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, wire.KindRoleNotAssumed, apiErr.Kind)
	assert.True(t, apiErr.IsAuthorizationDenied())
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestClientRoleAndSubjectFlow(t *testing.T) {
	ts, serverKey := newTestStack(t)
	c := pinnedClient(t, ts, serverKey)

	require.NoError(t, c.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))
	_, err := c.OpenSession("acme", "alice", "s3cret")
	require.NoError(t, err)
	_, err = c.AssumeRole("managers")
	require.NoError(t, err)

	require.NoError(t, c.CreateSubject("bob", "Bob", "bob@acme.test", "hunter2"))
	require.NoError(t, c.CreateRole("auditors"))
	require.NoError(t, c.AddRolePermission("auditors", "DOC_READ"))
	require.NoError(t, c.AddRoleMember("auditors", "bob"))

	members, err := c.RoleMembers("auditors")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, members)

	perms, err := c.RolePermissions("auditors")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOC_READ"}, perms)

	holders, err := c.RolesWithPermission("DOC_READ")
	require.NoError(t, err)
	assert.Contains(t, holders, "auditors")
	assert.Contains(t, holders, "managers")

	roles, err := c.SubjectRoles("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"auditors"}, roles)

	states, err := c.SubjectStates("")
	require.NoError(t, err)
	assert.Equal(t, "active", states["bob"])

	require.NoError(t, c.SuspendSubject("bob"))
	states, err = c.SubjectStates("bob")
	require.NoError(t, err)
	assert.Equal(t, "suspended", states["bob"])
	require.NoError(t, c.ReactivateSubject("bob"))

	// Creating the same role again is a conflict.
	err = c.CreateRole("auditors")
	require.Error(t, err)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsConflict())
}

func TestClientACLRevoke(t *testing.T) {
	ts, serverKey := newTestStack(t)
	c := pinnedClient(t, ts, serverKey)

	require.NoError(t, c.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))
	_, err := c.OpenSession("acme", "alice", "s3cret")
	require.NoError(t, err)
	_, err = c.AssumeRole("managers")
	require.NoError(t, err)

	_, err = c.AddDocument("notes", []byte("internal notes"))
	require.NoError(t, err)

	require.NoError(t, c.ModifyDocumentACL("notes", "-", "managers", "DOC_READ"))

	_, err = c.GetDocumentMetadata("notes")
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, wire.KindACLDenied))

	// Role-level listing does not consult the per-document ACL.
	docs, err := c.ListDocuments(apiclient.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

// tamperingProxy forwards every request to the inner handler, but rewrites
// file responses with a corrupted blob re-signed under the server key. The
// signature checks out, so only the content hash can catch it.
func tamperingProxy(inner http.Handler, serverKey *ecdsa.PrivateKey) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := httptest.NewRecorder()
		inner.ServeHTTP(rec, r)

		if r.URL.Path == "/api/v1/files" || r.URL.Path == "/api/v1/files/" {
			var signed wire.SignedEnvelope
			if rec.Code == http.StatusOK && json.Unmarshal(rec.Body.Bytes(), &signed) == nil {
				var payload wire.FileResponsePayload
				if json.Unmarshal([]byte(signed.AssociatedData), &payload) == nil {
					blob, _ := base64.StdEncoding.DecodeString(payload.FileContent)
					if len(blob) > 0 {
						blob[len(blob)-1] ^= 0xff
						payload.FileContent = base64.StdEncoding.EncodeToString(blob)
						if resigned, err := wire.NewSignedEnvelope(serverKey, payload); err == nil {
							w.Header().Set("Content-Type", "application/json")
							_ = json.NewEncoder(w).Encode(resigned)
							return
						}
					}
				}
			}
		}

		for k, vs := range rec.Header() {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(rec.Code)
		_, _ = w.Write(rec.Body.Bytes())
	})
}

func TestClientContentIntegrityFailure(t *testing.T) {
	st, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := service.New(st, blobmemory.New(), nil)
	registry := session.NewRegistry(time.Hour)
	serverKey, err := keys.Generate()
	require.NoError(t, err)

	router := api.NewRouter(svc, registry, serverKey, nil)
	ts := httptest.NewServer(tamperingProxy(router, serverKey))
	t.Cleanup(ts.Close)

	c := pinnedClient(t, ts, serverKey)
	require.NoError(t, c.CreateOrganization("acme", "alice", "Alice", "alice@acme.test", "s3cret"))
	_, err = c.OpenSession("acme", "alice", "s3cret")
	require.NoError(t, err)
	_, err = c.AssumeRole("managers")
	require.NoError(t, err)

	_, err = c.AddDocument("ledger", []byte("balance sheet"))
	require.NoError(t, err)

	// The proxy's corruption survives signature verification but not the
	// AEAD tag, so the client reports the content as compromised.
	_, err = c.GetDocumentFile("ledger")
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, wire.KindIntegrityFail))
}
