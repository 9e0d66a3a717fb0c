package doc

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/pkg/apiclient"
)

var aclCmd = &cobra.Command{
	Use:   "acl",
	Short: "Document access control",
	Long: `Grant or revoke a role's permission on a document.

A subject reaches a document only when an assumed role holds the
permission both organization-wide and on the document's ACL.
Requires the DOC_ACL permission.

Examples:
  repctl doc acl grant report.pdf auditors DOC_READ
  repctl doc acl revoke report.pdf auditors DOC_READ`,
}

func init() {
	aclCmd.AddCommand(aclGrantCmd)
	aclCmd.AddCommand(aclRevokeCmd)
}

var aclGrantCmd = &cobra.Command{
	Use:   "grant <name> <role> <permission>",
	Short: "Grant a role a permission on a document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.ModifyDocumentACL(args[0], "+", args[1], args[2]); err != nil {
				return err
			}
			fmt.Printf("Granted %s on '%s' to role '%s'\n", args[2], args[0], args[1])
			return nil
		})
	},
}

var aclRevokeCmd = &cobra.Command{
	Use:   "revoke <name> <role> <permission>",
	Short: "Revoke a role's permission on a document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.WithSession(func(c *apiclient.Client) error {
			if err := c.ModifyDocumentACL(args[0], "-", args[1], args[2]); err != nil {
				return err
			}
			fmt.Printf("Revoked %s on '%s' from role '%s'\n", args[2], args[0], args[1])
			return nil
		})
	},
}
