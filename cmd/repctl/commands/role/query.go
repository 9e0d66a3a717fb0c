package role

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/output"
	"github.com/docrep/docrep/pkg/apiclient"
)

// column renders a slice of strings as a single-column table.
type column struct {
	header string
	values []string
}

// Headers implements TableRenderer.
func (c column) Headers() []string {
	return []string{c.header}
}

// Rows implements TableRenderer.
func (c column) Rows() [][]string {
	rows := make([][]string, 0, len(c.values))
	for _, v := range c.values {
		rows = append(rows, []string{v})
	}
	return rows
}

var _ output.TableRenderer = column{}

var membersCmd = &cobra.Command{
	Use:   "members <role>",
	Short: "List the members of a role",
	Long: `List the subjects belonging to a role. Requires the ROLE_QUERY
permission.

Examples:
  repctl role members auditors`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			members, err := c.RoleMembers(args[0])
			if err != nil {
				return err
			}
			return cmdutil.PrintOutput(os.Stdout, members, len(members) == 0,
				"Role has no members.", column{"USERNAME", members})
		})
	},
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions <role>",
	Short: "List the permissions of a role",
	Long: `List the permissions granted to a role. Requires the ROLE_QUERY
permission.

Examples:
  repctl role permissions auditors`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			perms, err := c.RolePermissions(args[0])
			if err != nil {
				return err
			}
			return cmdutil.PrintOutput(os.Stdout, perms, len(perms) == 0,
				"Role has no permissions.", column{"PERMISSION", perms})
		})
	},
}

var holdersCmd = &cobra.Command{
	Use:   "holders <permission>",
	Short: "List the roles holding a permission",
	Long: `List the roles that hold a given permission. Requires the ROLE_QUERY
permission.

Examples:
  repctl role holders DOC_READ`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			roles, err := c.RolesWithPermission(args[0])
			if err != nil {
				return err
			}
			return cmdutil.PrintOutput(os.Stdout, roles, len(roles) == 0,
				"No roles hold that permission.", column{"ROLE", roles})
		})
	},
}
