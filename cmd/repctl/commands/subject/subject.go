// Package subject implements subject commands for repctl.
package subject

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for subject management.
var Cmd = &cobra.Command{
	Use:   "subject",
	Short: "Subject management",
	Long: `Enroll and administer subjects in the current organization.

All subcommands require an active session; administrative operations
additionally require an assumed role holding the matching permission.

Examples:
  # Enroll a new subject
  repctl subject create bob --name "Bob" --email bob@acme.test

  # Suspend and reactivate
  repctl subject suspend bob
  repctl subject reactivate bob

  # Inspect
  repctl subject state
  repctl subject roles bob`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(suspendCmd)
	Cmd.AddCommand(reactivateCmd)
	Cmd.AddCommand(stateCmd)
	Cmd.AddCommand(rolesCmd)
}
