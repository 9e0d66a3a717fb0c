package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the docrep configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  docrep config validate

  # Validate specific config file
  docrep config validate --config /etc/docrep/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	if _, err := os.Stat(cfg.Identity.KeyPath); os.IsNotExist(err) {
		warnings = append(warnings, fmt.Sprintf("server key not found at %s - run 'docrep keygen'", cfg.Identity.KeyPath))
	}
	if cfg.Blob.Type == "memory" {
		warnings = append(warnings, "memory blob store configured - documents are lost on restart")
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  Blob store:      %s\n", cfg.Blob.Type)
	fmt.Printf("  API address:     %s\n", cfg.API.Addr())
	fmt.Printf("  Session TTL:     %s\n", cfg.Session.TTL)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
