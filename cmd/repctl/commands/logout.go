package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/internal/cli/credentials"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session",
	Long: `Drop the session stored in the current context.

This discards the session id and channel key but keeps the server URL
and pinned server key for easy re-login. The server forgets the session
on its own when it expires.

Examples:
  # Logout from current context
  repctl logout`,
	RunE: runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	contextName := store.GetCurrentContextName()
	if contextName == "" {
		return fmt.Errorf("not logged in - no current context")
	}

	if err := store.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Printf("Logged out from context: %s\n", contextName)
	return nil
}
