package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	plaintext := []byte(`{"role":"managers"}`)
	aad := []byte(`{"msg_id":1,"session_id":7}`)

	nonce, ciphertext, err := Encrypt(key, plaintext, aad)
	require.NoError(t, err)
	require.Len(t, nonce, NonceSize)
	require.NotEqual(t, plaintext, ciphertext)

	got, err := Decrypt(key, nonce, ciphertext, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	nonce, ciphertext, err := Encrypt(key, []byte("hello"), []byte("aad"))
	require.NoError(t, err)

	ciphertext[0] ^= 0xff
	_, err = Decrypt(key, nonce, ciphertext, []byte("aad"))
	assert.ErrorIs(t, err, ErrAuthFail)
}

func TestDecryptRejectsTamperedAAD(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	nonce, ciphertext, err := Encrypt(key, []byte("hello"), []byte(`{"msg_id":1}`))
	require.NoError(t, err)

	_, err = Decrypt(key, nonce, ciphertext, []byte(`{"msg_id":2}`))
	assert.ErrorIs(t, err, ErrAuthFail)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)
	other, err := NewKey()
	require.NoError(t, err)

	nonce, ciphertext, err := Encrypt(key, []byte("hello"), nil)
	require.NoError(t, err)

	_, err = Decrypt(other, nonce, ciphertext, nil)
	assert.ErrorIs(t, err, ErrAuthFail)
}

func TestNoncesAreFresh(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		nonce, _, err := Encrypt(key, []byte("x"), nil)
		require.NoError(t, err)
		require.False(t, seen[string(nonce)], "nonce reused")
		seen[string(nonce)] = true
	}
}

func TestInvalidKeySize(t *testing.T) {
	_, _, err := Encrypt(make([]byte, 16), []byte("x"), nil)
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = Decrypt(make([]byte, 16), make([]byte, NonceSize), []byte("x"), nil)
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}
