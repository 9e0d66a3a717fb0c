package apiclient

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docrep/docrep/pkg/crypto/handshake"
	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/wire"
)

// CreateOrganization bootstraps an organization with its first subject. The
// password derives the subject's long-term key; only the public half leaves
// the client. The server's signed echo is verified against the pinned server
// key when one is configured.
func (c *Client) CreateOrganization(org, username, name, email, password string) error {
	priv, err := keys.FromPassword([]byte(password))
	if err != nil {
		return err
	}
	pubPEM, err := keys.EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return err
	}

	req := wire.CreateOrgRequest{
		Organization: org,
		Username:     username,
		Name:         name,
		Email:        email,
		PublicKey:    pubPEM,
	}

	var signed wire.SignedEnvelope
	if err := c.do(http.MethodPost, "/api/v1/auth/organization", req, &signed); err != nil {
		return err
	}

	if c.serverPub != nil {
		var echo wire.CreateOrgRequest
		if err := signed.Verify(c.serverPub, &echo); err != nil {
			return fmt.Errorf("server echo verification failed: %w", err)
		}
		if echo != req {
			return fmt.Errorf("server echo does not match the request")
		}
	}
	return nil
}

// OpenSession performs the session handshake: the password re-derives the
// subject's long-term key, a fresh ephemeral keypair is exchanged, and both
// sides derive the channel key. The established session is stored on the
// client and returned for persistence.
func (c *Client) OpenSession(org, username, password string) (*Session, error) {
	if c.serverPub == nil {
		return nil, fmt.Errorf("apiclient: no pinned server key - cannot authenticate the handshake response")
	}

	priv, err := keys.FromPassword([]byte(password))
	if err != nil {
		return nil, err
	}

	eph, err := handshake.NewEphemeral()
	if err != nil {
		return nil, err
	}
	clientPEM, err := eph.PublicKeyPEM()
	if err != nil {
		return nil, err
	}

	signed, err := wire.NewSignedEnvelope(priv, wire.SessionRequestPayload{
		Organization:             org,
		Username:                 username,
		ClientEphemeralPublicKey: clientPEM,
	})
	if err != nil {
		return nil, err
	}

	var respEnv wire.SignedEnvelope
	if err := c.do(http.MethodPost, "/api/v1/auth/session", signed, &respEnv); err != nil {
		return nil, err
	}

	var payload wire.SessionResponsePayload
	if err := respEnv.Verify(c.serverPub, &payload); err != nil {
		return nil, fmt.Errorf("server handshake signature verification failed: %w", err)
	}

	key, err := eph.DeriveKey(payload.ServerEphemeralPublicKey)
	if err != nil {
		return nil, err
	}

	c.session = &Session{
		SessionID:    payload.SessionID,
		Organization: org,
		Username:     username,
		DerivedKey:   hex.EncodeToString(key),
	}
	return c.session, nil
}

// ListOrganizations returns the names of every organization on the server.
func (c *Client) ListOrganizations() ([]string, error) {
	var resp struct {
		Organizations []string `json:"organizations"`
	}
	if err := c.do(http.MethodGet, "/api/v1/organizations/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Organizations, nil
}

// rolesResult is the enveloped response shape of the session role endpoints.
type rolesResult struct {
	Roles []string `json:"roles"`
}

// AssumeRole activates a role on the session. The persisted role list is
// refreshed from the server's answer.
func (c *Client) AssumeRole(role string) ([]string, error) {
	var resp rolesResult
	if err := c.call(http.MethodPost, "/api/v1/sessions/roles",
		map[string]string{"role": role}, &resp); err != nil {
		return nil, err
	}
	c.session.Roles = resp.Roles
	return resp.Roles, nil
}

// DropRole deactivates one occurrence of a role on the session.
func (c *Client) DropRole(role string) ([]string, error) {
	var resp rolesResult
	if err := c.call(http.MethodDelete, "/api/v1/sessions/roles",
		map[string]string{"role": role}, &resp); err != nil {
		return nil, err
	}
	c.session.Roles = resp.Roles
	return resp.Roles, nil
}

// SessionRoles returns the session's assumed roles in assumption order.
func (c *Client) SessionRoles() ([]string, error) {
	var resp rolesResult
	if err := c.call(http.MethodGet, "/api/v1/sessions/roles",
		json.RawMessage(`{}`), &resp); err != nil {
		return nil, err
	}
	c.session.Roles = resp.Roles
	return resp.Roles, nil
}
