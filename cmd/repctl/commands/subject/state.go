package subject

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/output"
	"github.com/docrep/docrep/pkg/apiclient"
)

var suspendCmd = &cobra.Command{
	Use:   "suspend <username>",
	Short: "Suspend a subject",
	Long: `Suspend a subject.

A suspended subject cannot open sessions or perform operations until
reactivated. Requires the SUBJECT_DOWN permission.

Examples:
  repctl subject suspend bob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.SuspendSubject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Subject '%s' suspended\n", args[0])
			return nil
		})
	},
}

var reactivateCmd = &cobra.Command{
	Use:   "reactivate <username>",
	Short: "Reactivate a suspended subject",
	Long: `Reactivate a suspended subject. Requires the SUBJECT_UP permission.

Examples:
  repctl subject reactivate bob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.ReactivateSubject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Subject '%s' reactivated\n", args[0])
			return nil
		})
	},
}

var stateCmd = &cobra.Command{
	Use:   "state [username]",
	Short: "Show subject states",
	Long: `Show the activity state of every subject in the organization,
optionally filtered to a single username.

Examples:
  repctl subject state
  repctl subject state bob
  repctl subject state -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runState,
}

// stateList renders subject states as a table, sorted by username.
type stateList map[string]string

// Headers implements TableRenderer.
func (sl stateList) Headers() []string {
	return []string{"USERNAME", "STATE"}
}

// Rows implements TableRenderer.
func (sl stateList) Rows() [][]string {
	usernames := make([]string, 0, len(sl))
	for u := range sl {
		usernames = append(usernames, u)
	}
	sort.Strings(usernames)

	rows := make([][]string, 0, len(sl))
	for _, u := range usernames {
		rows = append(rows, []string{u, sl[u]})
	}
	return rows
}

var _ output.TableRenderer = stateList(nil)

func runState(cmd *cobra.Command, args []string) error {
	username := ""
	if len(args) == 1 {
		username = args[0]
	}

	return cmdutil.WithSession(func(c *apiclient.Client) error {
		states, err := c.SubjectStates(username)
		if err != nil {
			return err
		}
		return cmdutil.PrintOutput(os.Stdout, states, len(states) == 0, "No subjects found.", stateList(states))
	})
}
