package context

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/internal/cli/credentials"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a context",
	Long: `Rename a saved context.

Examples:
  repctl context rename default prod`,
	Args: cobra.ExactArgs(2),
	RunE: runContextRename,
}

func runContextRename(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	if err := store.RenameContext(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename context: %w", err)
	}

	fmt.Printf("Context '%s' renamed to '%s'\n", args[0], args[1])
	return nil
}
