package doc

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/pkg/apiclient"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a document's content",
	Long: `Delete a document's content. The metadata record survives with its
handle cleared, so the name stays taken and later fetches report the
content as gone. Requires the DOC_DELETE permission.

Examples:
  repctl doc delete report.pdf
  repctl doc delete report.pdf --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	return cmdutil.RunDeleteWithConfirmation("document", name, deleteForce, func() error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			handle, err := c.DeleteDocument(name)
			if err != nil {
				return err
			}
			fmt.Printf("Former content handle: %s\n", handle)
			return nil
		})
	})
}
