// Package channel implements the symmetric channel protecting repository
// sessions: AES-256-GCM with a fresh random nonce per message and caller
// supplied associated data.
package channel

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32

	// NonceSize is the GCM nonce size in bytes (96 bits).
	NonceSize = 12
)

var (
	ErrInvalidKeySize   = errors.New("channel: key must be 32 bytes")
	ErrInvalidNonceSize = errors.New("channel: nonce must be 12 bytes")

	// ErrAuthFail is returned when the GCM tag does not verify. Callers must
	// treat the whole message as untrusted; no partial plaintext is returned.
	ErrAuthFail = errors.New("channel: message authentication failed")
)

// NewKey returns a fresh random 256-bit key.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("channel: generating key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under key with a fresh random nonce. The associated
// data is authenticated but not encrypted. Nonces are never reused under the
// same key as long as they come from this function.
func Encrypt(key, plaintext, aad []byte) (nonce, ciphertext []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("channel: generating nonce: %w", err)
	}

	ciphertext = aead.Seal(nil, nonce, plaintext, aad)
	return nonce, ciphertext, nil
}

// Decrypt opens ciphertext produced by Encrypt. Returns ErrAuthFail if the
// tag does not verify, which covers tampering with the ciphertext, the nonce,
// or the associated data.
func Decrypt(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonceSize
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthFail
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("channel: %w", err)
	}
	return cipher.NewGCM(block)
}
