// Package session implements session role commands for repctl.
package session

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/output"
	"github.com/docrep/docrep/pkg/apiclient"
)

// Cmd is the parent command for session role management.
var Cmd = &cobra.Command{
	Use:   "session",
	Short: "Session role management",
	Long: `Assume and drop roles in the current session.

Membership in a role is not enough to exercise its permissions; the
role must be assumed first. Assumed roles last until dropped or the
session expires.

Examples:
  repctl session assume managers
  repctl session roles
  repctl session drop managers`,
}

func init() {
	Cmd.AddCommand(assumeCmd)
	Cmd.AddCommand(dropCmd)
	Cmd.AddCommand(rolesCmd)
}

// assumedList renders the session's assumed roles as a table.
type assumedList []string

// Headers implements TableRenderer.
func (al assumedList) Headers() []string {
	return []string{"ASSUMED ROLE"}
}

// Rows implements TableRenderer.
func (al assumedList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, r := range al {
		rows = append(rows, []string{r})
	}
	return rows
}

var _ output.TableRenderer = assumedList(nil)

var assumeCmd = &cobra.Command{
	Use:   "assume <role>",
	Short: "Assume a role in the current session",
	Long: `Assume a role. You must be an active member of an active role.

Examples:
  repctl session assume managers`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			roles, err := c.AssumeRole(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Assumed role '%s' (active: %v)\n", args[0], roles)
			return nil
		})
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop <role>",
	Short: "Drop an assumed role",
	Long: `Drop a previously assumed role from the current session.

Examples:
  repctl session drop managers`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			roles, err := c.DropRole(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Dropped role '%s' (active: %v)\n", args[0], roles)
			return nil
		})
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles assumed in the current session",
	Long: `List the roles currently assumed in this session.

Examples:
  repctl session roles
  repctl session roles -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			roles, err := c.SessionRoles()
			if err != nil {
				return err
			}
			return cmdutil.PrintOutput(os.Stdout, roles, len(roles) == 0,
				"No roles assumed.", assumedList(roles))
		})
	},
}
