package config

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docrep/docrep/pkg/crypto/keys"
)

// GetDefaultKeyPath returns the default location of the server signing key.
// The key lives next to the config file.
func GetDefaultKeyPath() string {
	return filepath.Join(getConfigDir(), "server.pem")
}

// LoadServerKey loads the server's long-term P-256 signing key.
//
// The key authenticates the server to clients: it signs handshake responses
// and public file downloads, and clients verify against the pinned public key.
func (c *Config) LoadServerKey() (*ecdsa.PrivateKey, error) {
	priv, err := keys.LoadPrivateKey(c.Identity.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load server key from %s: %w\n\n"+
			"Generate one with:\n"+
			"  docrep keygen --out %s",
			c.Identity.KeyPath, err, c.Identity.KeyPath)
	}
	return priv, nil
}

// EnsureServerKey loads the server key, generating and saving a new one
// if no key exists at the configured path. Used by 'docrep init'.
func (c *Config) EnsureServerKey() (*ecdsa.PrivateKey, bool, error) {
	if _, err := os.Stat(c.Identity.KeyPath); err == nil {
		priv, err := keys.LoadPrivateKey(c.Identity.KeyPath)
		return priv, false, err
	}

	priv, err := keys.Generate()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate server key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Identity.KeyPath), 0700); err != nil {
		return nil, false, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := keys.SavePrivateKey(c.Identity.KeyPath, priv); err != nil {
		return nil, false, fmt.Errorf("failed to save server key: %w", err)
	}

	return priv, true, nil
}
