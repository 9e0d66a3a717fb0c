// Package doc implements document commands for repctl.
package doc

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for document management.
var Cmd = &cobra.Command{
	Use:   "doc",
	Short: "Document management",
	Long: `Upload, fetch, and administer documents in the current organization.

Documents are encrypted on this machine before upload; the server only
ever stores ciphertext. Downloads are decrypted and integrity-checked
locally against the document's content hash.

Examples:
  # Upload and download
  repctl doc add report.pdf --file ./report.pdf
  repctl doc get report.pdf --out ./report.pdf

  # Inspect
  repctl doc list --creator alice
  repctl doc meta report.pdf

  # Access control
  repctl doc acl grant report.pdf auditors DOC_READ

  # Remove the content (metadata survives)
  repctl doc delete report.pdf`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(metaCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(aclCmd)
}
