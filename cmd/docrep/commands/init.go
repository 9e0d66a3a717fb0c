package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/pkg/config"
	"github.com/docrep/docrep/pkg/crypto/keys"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and server identity",
	Long: `Initialize a docrep configuration file and server signing key.

By default, the configuration file is created at $XDG_CONFIG_HOME/docrep/config.yaml
and a P-256 signing key next to it. The printed public key is what clients pin
with 'repctl context add'.

Examples:
  # Initialize with default location
  docrep init

  # Initialize with custom path
  docrep init --config /etc/docrep/config.yaml

  # Force overwrite existing config
  docrep init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
	}

	cfg := config.GetDefaultConfig()
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	fmt.Printf("Configuration file created at: %s\n", configPath)

	// Generate the server signing key unless one already exists.
	priv, created, err := cfg.EnsureServerKey()
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Server signing key created at: %s\n", cfg.Identity.KeyPath)
	} else {
		fmt.Printf("Server signing key already exists at: %s\n", cfg.Identity.KeyPath)
	}

	pubPEM, err := keys.EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return err
	}
	fmt.Println("\nServer public key (clients pin this):")
	fmt.Println(pubPEM)

	fmt.Println("Next steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: docrep start")
	fmt.Printf("  3. Or specify custom config: docrep start --config %s\n", configPath)

	return nil
}
