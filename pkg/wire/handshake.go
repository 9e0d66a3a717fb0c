package wire

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/docrep/docrep/pkg/crypto/keys"
)

// SignedEnvelope is the body of handshake endpoints: an opaque JSON string
// plus an ECDSA-P256-SHA256 signature over its exact UTF-8 bytes. The payload
// stays a string so the verifier signs and checks the same byte sequence the
// sender produced, independent of JSON re-encoding.
type SignedEnvelope struct {
	AssociatedData string `json:"associated_data"`
	Signature      string `json:"signature"`
}

// NewSignedEnvelope marshals payload to JSON and signs the resulting bytes.
func NewSignedEnvelope(priv *ecdsa.PrivateKey, payload any) (*SignedEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: marshaling handshake payload: %w", err)
	}
	sig, err := keys.Sign(priv, body)
	if err != nil {
		return nil, err
	}
	return &SignedEnvelope{
		AssociatedData: string(body),
		Signature:      hex.EncodeToString(sig),
	}, nil
}

// Verify checks the envelope signature under pub and unmarshals the payload
// into out. The signature is checked over the exact received string bytes.
func (e *SignedEnvelope) Verify(pub *ecdsa.PublicKey, out any) error {
	sig, err := hex.DecodeString(e.Signature)
	if err != nil {
		return Errorf(KindBadRequest, "malformed signature")
	}
	if err := keys.Verify(pub, []byte(e.AssociatedData), sig); err != nil {
		return Errorf(KindAuthFail, "handshake signature verification failed")
	}
	if out != nil {
		if err := json.Unmarshal([]byte(e.AssociatedData), out); err != nil {
			return Errorf(KindBadRequest, "malformed handshake payload")
		}
	}
	return nil
}

// CreateOrgRequest is the plaintext body of POST /auth/organization.
type CreateOrgRequest struct {
	Organization string `json:"organization"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PublicKey    string `json:"public_key"`
}

// SessionRequestPayload is the signed associated data of POST /auth/session.
type SessionRequestPayload struct {
	Organization             string `json:"organization"`
	Username                 string `json:"username"`
	ClientEphemeralPublicKey string `json:"client_ephemeral_public_key"`
}

// SessionResponsePayload is the server-signed associated data answering a
// session request.
type SessionResponsePayload struct {
	SessionID                uint64 `json:"session_id"`
	ServerEphemeralPublicKey string `json:"server_ephemeral_public_key"`
}

// FileResponsePayload is the server-signed associated data of GET /files/.
type FileResponsePayload struct {
	FileHandle  string `json:"file_handle"`
	FileContent string `json:"file_content"`
}
