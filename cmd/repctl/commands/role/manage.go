package role

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/pkg/apiclient"
)

var createCmd = &cobra.Command{
	Use:   "create <role>",
	Short: "Create a new role",
	Long: `Create a role with no permissions and no members.
Requires the ROLE_NEW permission.

Examples:
  repctl role create auditors`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.CreateRole(args[0]); err != nil {
				return err
			}
			fmt.Printf("Role '%s' created\n", args[0])
			return nil
		})
	},
}

var suspendCmd = &cobra.Command{
	Use:   "suspend <role>",
	Short: "Suspend a role",
	Long: `Suspend a role. While suspended it cannot be assumed and grants
nothing. The managers role cannot be suspended. Requires the ROLE_DOWN
permission.

Examples:
  repctl role suspend auditors`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.SuspendRole(args[0]); err != nil {
				return err
			}
			fmt.Printf("Role '%s' suspended\n", args[0])
			return nil
		})
	},
}

var reactivateCmd = &cobra.Command{
	Use:   "reactivate <role>",
	Short: "Reactivate a suspended role",
	Long: `Reactivate a suspended role. Requires the ROLE_UP permission.

Examples:
  repctl role reactivate auditors`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.ReactivateRole(args[0]); err != nil {
				return err
			}
			fmt.Printf("Role '%s' reactivated\n", args[0])
			return nil
		})
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant <role> <permission>",
	Short: "Grant a permission to a role",
	Long: `Grant a permission to a role. Requires the ROLE_MOD permission.

Permissions: DOC_NEW, DOC_READ, DOC_DELETE, DOC_ACL, ROLE_NEW,
ROLE_DOWN, ROLE_UP, ROLE_MOD, ROLE_QUERY, SUBJECT_NEW, SUBJECT_DOWN,
SUBJECT_UP, SUBJECT_QUERY.

Examples:
  repctl role grant auditors DOC_READ`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.AddRolePermission(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Granted %s to role '%s'\n", args[1], args[0])
			return nil
		})
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <role> <permission>",
	Short: "Revoke a permission from a role",
	Long: `Revoke a permission from a role. The managers role keeps its full
permission set; revoking from it is rejected. Requires the ROLE_MOD
permission.

Examples:
  repctl role revoke auditors DOC_READ`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.RemoveRolePermission(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Revoked %s from role '%s'\n", args[1], args[0])
			return nil
		})
	},
}

var addMemberCmd = &cobra.Command{
	Use:   "add-member <role> <username>",
	Short: "Add a subject to a role",
	Long: `Add a subject to a role. Requires the ROLE_MOD permission.

Examples:
  repctl role add-member auditors bob`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.AddRoleMember(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Added '%s' to role '%s'\n", args[1], args[0])
			return nil
		})
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove-member <role> <username>",
	Short: "Remove a subject from a role",
	Long: `Remove a subject from a role. Removing the last member of the
managers role is rejected. Requires the ROLE_MOD permission.

Examples:
  repctl role remove-member auditors bob`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.RemoveRoleMember(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed '%s' from role '%s'\n", args[1], args[0])
			return nil
		})
	},
}
