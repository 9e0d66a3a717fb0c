// Package handshake implements the ephemeral half of session establishment:
// P-256 ECDH key agreement with HKDF-SHA-256 key derivation. Long-term key
// authentication lives in pkg/crypto/keys; both sides sign the handshake
// payloads with their long-term keys and derive the session key here.
package handshake

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/docrep/docrep/pkg/crypto/channel"
	"github.com/docrep/docrep/pkg/crypto/keys"
)

// InfoLabel is the HKDF info string. It must match on both peers.
const InfoLabel = "handshake data"

// Ephemeral is a one-shot ECDH keypair. Generate one per handshake and
// discard it once the session key is derived.
type Ephemeral struct {
	priv *ecdh.PrivateKey
}

// NewEphemeral generates a fresh P-256 ephemeral keypair.
func NewEphemeral() (*Ephemeral, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("handshake: generating ephemeral key: %w", err)
	}
	return &Ephemeral{priv: priv}, nil
}

// PublicKeyPEM returns the ephemeral public key as a PKIX PEM block, the
// form exchanged on the wire.
func (e *Ephemeral) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(e.priv.PublicKey())
	if err != nil {
		return "", fmt.Errorf("handshake: marshaling ephemeral public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// DeriveKey computes the ECDH shared secret against the peer's ephemeral
// public key (PEM) and stretches it into a 256-bit session key with
// HKDF-SHA-256 (no salt, info = InfoLabel). Both peers derive the same key.
func (e *Ephemeral) DeriveKey(peerPEM string) ([]byte, error) {
	peer, err := parseECDHPublicKey(peerPEM)
	if err != nil {
		return nil, err
	}

	secret, err := e.priv.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("handshake: ECDH agreement: %w", err)
	}

	key := make([]byte, channel.KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte(InfoLabel))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("handshake: HKDF expand: %w", err)
	}
	return key, nil
}

func parseECDHPublicKey(pemData string) (*ecdh.PublicKey, error) {
	pub, err := keys.ParsePublicKey(pemData)
	if err != nil {
		return nil, err
	}
	return toECDH(pub)
}

func toECDH(pub *ecdsa.PublicKey) (*ecdh.PublicKey, error) {
	converted, err := pub.ECDH()
	if err != nil {
		return nil, fmt.Errorf("handshake: converting public key: %w", err)
	}
	return converted, nil
}
