// Package context implements context management commands for repctl.
package context

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for context management.
var Cmd = &cobra.Command{
	Use:   "context",
	Short: "Context management",
	Long: `Manage server contexts.

A context holds a server URL, its pinned public key, and the session
opened against it. Multiple contexts let you switch between servers.

Examples:
  # Add a context and pin the server key
  repctl context add staging --server http://staging:5000 --server-key-file staging.pub

  # List contexts
  repctl context list

  # Switch context
  repctl context use staging`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(currentCmd)
	Cmd.AddCommand(useCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(deleteCmd)
}
