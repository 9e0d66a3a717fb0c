package doc

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/output"
	"github.com/docrep/docrep/internal/cli/timeutil"
	"github.com/docrep/docrep/pkg/apiclient"
)

var (
	listCreator   string
	listNewerThan string
	listOlderThan string
	listOn        string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long: `List documents you are authorized to see, optionally filtered by
creator or creation date. Dates use DD-MM-YYYY; the three date flags
are mutually exclusive.

Examples:
  repctl doc list
  repctl doc list --creator alice
  repctl doc list --newer-than 01-06-2026
  repctl doc list --on 15-08-2026 -o json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCreator, "creator", "", "Filter by creating subject")
	listCmd.Flags().StringVar(&listNewerThan, "newer-than", "", "Documents created after DD-MM-YYYY")
	listCmd.Flags().StringVar(&listOlderThan, "older-than", "", "Documents created before DD-MM-YYYY")
	listCmd.Flags().StringVar(&listOn, "on", "", "Documents created on DD-MM-YYYY")
	listCmd.MarkFlagsMutuallyExclusive("newer-than", "older-than", "on")
}

// docList renders document metadata as a table.
type docList []*apiclient.Document

// Headers implements TableRenderer.
func (dl docList) Headers() []string {
	return []string{"NAME", "CREATOR", "CREATED", "CONTENT"}
}

// Rows implements TableRenderer.
func (dl docList) Rows() [][]string {
	rows := make([][]string, 0, len(dl))
	for _, d := range dl {
		content := "deleted"
		if d.FileHandle != nil {
			content = "present"
		}
		rows = append(rows, []string{
			d.Name,
			d.Creator,
			d.CreatedAt.Local().Format(timeutil.LocalTimeFormat),
			content,
		})
	}
	return rows
}

var _ output.TableRenderer = docList(nil)

func buildFilter() apiclient.DocumentFilter {
	filter := apiclient.DocumentFilter{Creator: listCreator}
	switch {
	case listNewerThan != "":
		filter.DateFilter, filter.DateStr = "nt", listNewerThan
	case listOlderThan != "":
		filter.DateFilter, filter.DateStr = "ot", listOlderThan
	case listOn != "":
		filter.DateFilter, filter.DateStr = "eq", listOn
	}
	return filter
}

func runList(cmd *cobra.Command, args []string) error {
	return cmdutil.WithSession(func(c *apiclient.Client) error {
		docs, err := c.ListDocuments(buildFilter())
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		return cmdutil.PrintOutput(os.Stdout, docs, len(docs) == 0, "No documents found.", docList(docs))
	})
}
