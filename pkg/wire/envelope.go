// Package wire defines the two envelope formats of the repository protocol:
// the AEAD session envelope carried on authenticated endpoints and the signed
// handshake envelope used before a session key exists.
package wire

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/docrep/docrep/pkg/crypto/channel"
)

// AssociatedData is the authenticated-but-not-encrypted half of a session
// envelope. Field order matters: CanonicalAAD relies on encoding/json
// emitting struct fields in declaration order so both peers authenticate
// byte-identical AAD.
type AssociatedData struct {
	MsgID     uint64 `json:"msg_id"`
	SessionID uint64 `json:"session_id"`
}

// EncryptedData carries the AEAD output as hex strings.
type EncryptedData struct {
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// Envelope is the body of every authenticated request and response.
type Envelope struct {
	AssociatedData AssociatedData `json:"associated_data"`
	EncryptedData  EncryptedData  `json:"encrypted_data"`
}

// CanonicalAAD returns the canonical JSON bytes of the associated data:
// fixed key order, no whitespace, UTF-8. These exact bytes are the AEAD aad
// on both encrypt and decrypt.
func CanonicalAAD(ad AssociatedData) []byte {
	// encoding/json on a struct is deterministic; keep this the single
	// serialization point so nothing else can diverge.
	b, _ := json.Marshal(ad)
	return b
}

// Seal encrypts a JSON-marshalable plaintext into an envelope under key.
func Seal(key []byte, msgID, sessionID uint64, plaintext any) (*Envelope, error) {
	body, err := json.Marshal(plaintext)
	if err != nil {
		return nil, fmt.Errorf("wire: marshaling plaintext: %w", err)
	}

	ad := AssociatedData{MsgID: msgID, SessionID: sessionID}
	nonce, ciphertext, err := channel.Encrypt(key, body, CanonicalAAD(ad))
	if err != nil {
		return nil, err
	}

	return &Envelope{
		AssociatedData: ad,
		EncryptedData: EncryptedData{
			Nonce:      hex.EncodeToString(nonce),
			Ciphertext: hex.EncodeToString(ciphertext),
		},
	}, nil
}

// Open authenticates and decrypts an envelope, returning the plaintext
// bytes. A tag mismatch surfaces as a wire.Error of kind AUTH_FAIL.
func Open(key []byte, env *Envelope) ([]byte, error) {
	nonce, err := hex.DecodeString(env.EncryptedData.Nonce)
	if err != nil {
		return nil, Errorf(KindBadRequest, "malformed nonce")
	}
	ciphertext, err := hex.DecodeString(env.EncryptedData.Ciphertext)
	if err != nil {
		return nil, Errorf(KindBadRequest, "malformed ciphertext")
	}

	plaintext, err := channel.Decrypt(key, nonce, ciphertext, CanonicalAAD(env.AssociatedData))
	if err != nil {
		return nil, Errorf(KindAuthFail, "envelope authentication failed")
	}
	return plaintext, nil
}

// OpenInto opens an envelope and unmarshals the plaintext into out.
func OpenInto(key []byte, env *Envelope, out any) error {
	plaintext, err := Open(key, env)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return Errorf(KindBadRequest, "malformed plaintext payload")
	}
	return nil
}
