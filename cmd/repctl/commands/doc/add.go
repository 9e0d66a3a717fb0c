package doc

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/pkg/apiclient"
)

var addFile string

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Upload a document",
	Long: `Encrypt a file locally and upload it under the given name.

A fresh content key is generated per document; the server receives only
the ciphertext, the key, and the plaintext's hash. Document names are
unique per organization. Requires the DOC_NEW permission.

Examples:
  repctl doc add report.pdf --file ./report.pdf

  # Read content from stdin
  cat notes.txt | repctl doc add notes.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "File to upload (defaults to stdin)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	var plaintext []byte
	var err error
	if addFile != "" {
		plaintext, err = os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", addFile, err)
		}
	} else {
		plaintext, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	return cmdutil.WithSession(func(c *apiclient.Client) error {
		handle, err := c.AddDocument(name, plaintext)
		if err != nil {
			return err
		}
		fmt.Printf("Document '%s' uploaded (%d bytes, handle %s)\n", name, len(plaintext), handle)
		return nil
	})
}
