// Package role implements role commands for repctl.
package role

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for role management.
var Cmd = &cobra.Command{
	Use:   "role",
	Short: "Role management",
	Long: `Create, administer, and inspect roles in the current organization.

Roles carry permissions and members. A subject exercises a role's
permissions only after assuming it in the current session with
'repctl session assume'.

The managers role is special: it cannot be suspended and cannot lose
its last member.

Examples:
  # Create a role and grant it a permission
  repctl role create auditors
  repctl role grant auditors DOC_READ

  # Membership
  repctl role add-member auditors bob
  repctl role members auditors

  # Queries
  repctl role permissions auditors
  repctl role holders DOC_READ`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(suspendCmd)
	Cmd.AddCommand(reactivateCmd)
	Cmd.AddCommand(grantCmd)
	Cmd.AddCommand(revokeCmd)
	Cmd.AddCommand(addMemberCmd)
	Cmd.AddCommand(removeMemberCmd)
	Cmd.AddCommand(membersCmd)
	Cmd.AddCommand(permissionsCmd)
	Cmd.AddCommand(holdersCmd)
}
