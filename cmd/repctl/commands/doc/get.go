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

var getOut string

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Download a document",
	Long: `Fetch a document, decrypt it locally, and verify the plaintext
against the stored content hash. The command fails rather than emit
content that does not match. Requires the DOC_READ permission.

Examples:
  repctl doc get report.pdf --out ./report.pdf

  # Write to stdout
  repctl doc get notes.txt > notes.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getOut, "out", "O", "", "Destination file (defaults to stdout)")
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	return cmdutil.WithSession(func(c *apiclient.Client) error {
		plaintext, err := c.GetDocumentFile(name)
		if err != nil {
			return err
		}

		if getOut == "" {
			_, err = os.Stdout.Write(plaintext)
			return err
		}

		if err := os.WriteFile(getOut, plaintext, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", getOut, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(plaintext), getOut)
		return nil
	})
}

var metaCmd = &cobra.Command{
	Use:   "meta <name>",
	Short: "Show document metadata",
	Long: `Show a document's metadata, including the content key an authorized
reader uses to decrypt it. Requires the DOC_READ permission.

Examples:
  repctl doc meta report.pdf
  repctl doc meta report.pdf -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

// metaView renders a single document's metadata as key/value rows.
type metaView struct {
	doc *apiclient.Document
}

// Headers implements TableRenderer.
func (mv metaView) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

// Rows implements TableRenderer.
func (mv metaView) Rows() [][]string {
	handle := "(deleted)"
	if mv.doc.FileHandle != nil {
		handle = *mv.doc.FileHandle
	}
	return [][]string{
		{"Name", mv.doc.Name},
		{"Creator", mv.doc.Creator},
		{"Created", mv.doc.CreatedAt.Local().Format(timeutil.LocalTimeFormat)},
		{"Handle", handle},
		{"Algorithm", mv.doc.Alg},
		{"Key", mv.doc.Key},
	}
}

var _ output.TableRenderer = metaView{}

func runMeta(cmd *cobra.Command, args []string) error {
	return cmdutil.WithSession(func(c *apiclient.Client) error {
		doc, err := c.GetDocumentMetadata(args[0])
		if err != nil {
			return err
		}
		return cmdutil.PrintResource(os.Stdout, doc, metaView{doc})
	})
}
