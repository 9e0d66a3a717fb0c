package subject

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/output"
	"github.com/docrep/docrep/pkg/apiclient"
)

var rolesCmd = &cobra.Command{
	Use:   "roles <username>",
	Short: "List the roles a subject belongs to",
	Long: `List the roles a subject belongs to. Requires the ROLE_QUERY permission.

Examples:
  repctl subject roles bob`,
	Args: cobra.ExactArgs(1),
	RunE: runRoles,
}

// roleNameList renders role names as a single-column table.
type roleNameList []string

// Headers implements TableRenderer.
func (rl roleNameList) Headers() []string {
	return []string{"ROLE"}
}

// Rows implements TableRenderer.
func (rl roleNameList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, r := range rl {
		rows = append(rows, []string{r})
	}
	return rows
}

var _ output.TableRenderer = roleNameList(nil)

func runRoles(cmd *cobra.Command, args []string) error {
	return cmdutil.WithSession(func(c *apiclient.Client) error {
		roles, err := c.SubjectRoles(args[0])
		if err != nil {
			return err
		}
		return cmdutil.PrintOutput(os.Stdout, roles, len(roles) == 0, "Subject has no roles.", roleNameList(roles))
	})
}
