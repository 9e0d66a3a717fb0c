package context

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/internal/cli/credentials"
	"github.com/docrep/docrep/pkg/crypto/keys"
)

var (
	addServer        string
	addServerKeyFile string
	addUse           bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a server context",
	Long: `Add a server context and pin the server's public key.

The pinned key authenticates the server during every handshake and file
download. Get it from the server operator ('docrep init' prints it).

Examples:
  # Add and switch to a context
  repctl context add prod --server http://repo.example.com:5000 --server-key-file prod.pub

  # Add without switching
  repctl context add staging --server http://staging:5000 --server-key-file staging.pub --no-use`,
	Args: cobra.ExactArgs(1),
	RunE: runContextAdd,
}

func init() {
	addCmd.Flags().StringVar(&addServer, "server", "", "Server URL (required)")
	addCmd.Flags().StringVar(&addServerKeyFile, "server-key-file", "", "Path to the server's public key PEM")
	addCmd.Flags().BoolVar(&addUse, "use", true, "Switch to the new context")
	_ = addCmd.MarkFlagRequired("server")
}

func runContextAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	parsedURL, err := url.Parse(addServer)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	serverURL := addServer
	if parsedURL.Scheme == "" {
		parsedURL.Scheme = "http"
		serverURL = parsedURL.String()
	}

	ctx := &credentials.Context{ServerURL: serverURL}

	if addServerKeyFile != "" {
		data, err := os.ReadFile(addServerKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read server key file: %w", err)
		}
		// Reject garbage now rather than at the first handshake.
		if _, err := keys.ParsePublicKey(string(data)); err != nil {
			return fmt.Errorf("invalid server public key: %w", err)
		}
		ctx.ServerPublicKey = string(data)
	}

	if err := store.SetContext(name, ctx); err != nil {
		return fmt.Errorf("failed to save context: %w", err)
	}

	if addUse {
		if err := store.UseContext(name); err != nil {
			return fmt.Errorf("failed to switch context: %w", err)
		}
	}

	fmt.Printf("Context '%s' added (server: %s)\n", name, serverURL)
	if ctx.ServerPublicKey == "" {
		fmt.Println("No server key pinned - pass --server-key-file before logging in.")
	}
	return nil
}
