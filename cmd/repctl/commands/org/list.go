package org

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	Long: `List the organizations hosted on the server.

This endpoint is public; no session is required.

Examples:
  repctl org list
  repctl org list -o json`,
	RunE: runList,
}

// orgList renders organization names as a table.
type orgList []string

// Headers implements TableRenderer.
func (ol orgList) Headers() []string {
	return []string{"ORGANIZATION"}
}

// Rows implements TableRenderer.
func (ol orgList) Rows() [][]string {
	rows := make([][]string, 0, len(ol))
	for _, name := range ol {
		rows = append(rows, []string{name})
	}
	return rows
}

var _ output.TableRenderer = orgList(nil)

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.BaseClient()
	if err != nil {
		return err
	}

	orgs, err := client.ListOrganizations()
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(os.Stdout, orgs, len(orgs) == 0, "No organizations found.", orgList(orgs))
}
