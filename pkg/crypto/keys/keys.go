// Package keys handles the long-term EC key material of the repository:
// P-256 keypairs, PEM encoding, ECDSA-SHA256 signatures, and the
// password-derived client private key.
package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
)

const (
	// MinPasswordLength is the minimum accepted password length in bytes for
	// password-derived keys. Shorter passwords map to scalars small enough to
	// brute force trivially.
	MinPasswordLength = 8

	pemTypePublicKey  = "PUBLIC KEY"
	pemTypePrivateKey = "EC PRIVATE KEY"
)

var (
	ErrPasswordTooShort = errors.New("keys: password must be at least 8 bytes")
	ErrInvalidPEM       = errors.New("keys: invalid PEM block")
	ErrNotECKey         = errors.New("keys: not a P-256 EC key")
	ErrBadSignature     = errors.New("keys: signature verification failed")
)

// Generate returns a fresh P-256 keypair.
func Generate() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keys: generating P-256 key: %w", err)
	}
	return key, nil
}

// FromPassword derives a deterministic P-256 private key from a password:
// the password bytes interpreted as a big-endian integer, reduced mod the
// curve order. This is a wire-compatibility constraint, not a KDF; callers
// must enforce password policy before reaching for it.
func FromPassword(password []byte) (*ecdsa.PrivateKey, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	curve := elliptic.P256()
	k := new(big.Int).SetBytes(password)
	k.Mod(k, curve.Params().N)
	if k.Sign() == 0 {
		return nil, errors.New("keys: password reduces to zero scalar")
	}

	priv := new(ecdsa.PrivateKey)
	priv.Curve = curve
	priv.D = k
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(k.Bytes())
	return priv, nil
}

// EncodePublicKey serializes a public key as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicKey(pub *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("keys: marshaling public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der})), nil
}

// ParsePublicKey parses a PKIX "PUBLIC KEY" PEM block into a P-256 key.
func ParsePublicKey(pemData string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, ErrInvalidPEM
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keys: parsing public key: %w", err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok || pub.Curve != elliptic.P256() {
		return nil, ErrNotECKey
	}
	return pub, nil
}

// EncodePrivateKey serializes a private key as a SEC1 "EC PRIVATE KEY" PEM block.
func EncodePrivateKey(priv *ecdsa.PrivateKey) (string, error) {
	der, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("keys: marshaling private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der})), nil
}

// ParsePrivateKey parses a SEC1 "EC PRIVATE KEY" PEM block.
func ParsePrivateKey(pemData string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, ErrInvalidPEM
	}
	priv, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keys: parsing private key: %w", err)
	}
	if priv.Curve != elliptic.P256() {
		return nil, ErrNotECKey
	}
	return priv, nil
}

// LoadPrivateKey reads a PEM private key from disk.
func LoadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keys: reading %s: %w", path, err)
	}
	return ParsePrivateKey(string(data))
}

// SavePrivateKey writes a PEM private key to disk with owner-only permissions.
func SavePrivateKey(path string, priv *ecdsa.PrivateKey) error {
	pemData, err := EncodePrivateKey(priv)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(pemData), 0600); err != nil {
		return fmt.Errorf("keys: writing %s: %w", path, err)
	}
	return nil
}

// Sign produces an ASN.1 ECDSA-SHA256 signature over payload.
func Sign(priv *ecdsa.PrivateKey, payload []byte) ([]byte, error) {
	digest := sha256.Sum256(payload)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("keys: signing: %w", err)
	}
	return sig, nil
}

// Verify checks an ASN.1 ECDSA-SHA256 signature over payload.
// Returns ErrBadSignature on mismatch.
func Verify(pub *ecdsa.PublicKey, payload, sig []byte) error {
	digest := sha256.Sum256(payload)
	if !ecdsa.VerifyASN1(pub, digest[:], sig) {
		return ErrBadSignature
	}
	return nil
}
