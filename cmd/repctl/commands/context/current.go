package context

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/credentials"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current context",
	Long: `Display information about the current active context.

Examples:
  # Show current context
  repctl context current

  # Show as JSON
  repctl context current -o json`,
	RunE: runContextCurrent,
}

func runContextCurrent(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	name := store.GetCurrentContextName()
	if name == "" {
		return fmt.Errorf("no current context set. Use 'repctl context use <name>'")
	}

	ctx, err := store.GetCurrentContext()
	if err != nil {
		return err
	}

	info := ContextInfo{
		Name:      name,
		Current:   true,
		ServerURL: ctx.ServerURL,
		KeyPinned: ctx.ServerPublicKey != "",
		LoggedIn:  ctx.HasSession(),
	}
	if ctx.Session != nil {
		info.Organization = ctx.Session.Organization
		info.Username = ctx.Session.Username
	}

	return cmdutil.PrintResource(os.Stdout, info, ContextList{info})
}
