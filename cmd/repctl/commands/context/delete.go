package context

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/credentials"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a context",
	Long: `Delete a saved context, including its session and pinned key.

Examples:
  repctl context delete staging

  # Skip confirmation
  repctl context delete staging --force`,
	Args: cobra.ExactArgs(1),
	RunE: runContextDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runContextDelete(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	return cmdutil.RunDeleteWithConfirmation("context", args[0], deleteForce, func() error {
		return store.DeleteContext(args[0])
	})
}
