package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/pkg/config"
	"github.com/docrep/docrep/pkg/crypto/keys"
)

var (
	keygenOut   string
	keygenForce bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the server signing key",
	Long: `Generate a P-256 signing key for the server.

The key signs handshake responses and file downloads so clients can
authenticate the server before any session exists. The public half is
printed for distribution to clients.

Examples:
  # Generate at the default location
  docrep keygen

  # Generate at a custom path
  docrep keygen --out /etc/docrep/server.pem`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&keygenOut, "out", "", "Output path for the private key (default: next to the config file)")
	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "Overwrite an existing key")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	out := keygenOut
	if out == "" {
		out = config.GetDefaultKeyPath()
	}

	if _, err := os.Stat(out); err == nil && !keygenForce {
		return fmt.Errorf("key already exists: %s\nUse --force to overwrite (existing clients will stop trusting this server)", out)
	}

	priv, err := keys.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := keys.SavePrivateKey(out, priv); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	pubPEM, err := keys.EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return err
	}

	fmt.Printf("Private key written to: %s\n", out)
	fmt.Println("\nServer public key (clients pin this):")
	fmt.Println(pubPEM)
	return nil
}
