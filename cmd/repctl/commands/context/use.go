package context

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/credentials"
	"github.com/docrep/docrep/internal/cli/prompt"
)

var useCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch to a different context",
	Long: `Switch the current context to the named one. With no argument,
pick interactively from the saved contexts.

Examples:
  repctl context use staging
  repctl context use`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContextUse,
}

func runContextUse(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		names := store.ListContexts()
		if len(names) == 0 {
			return fmt.Errorf("no contexts saved. Run 'repctl context add' first")
		}
		sort.Strings(names)

		name, err = prompt.Select("Context", names)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	if err := store.UseContext(name); err != nil {
		return fmt.Errorf("failed to switch context: %w", err)
	}

	fmt.Printf("Switched to context: %s\n", name)
	return nil
}
