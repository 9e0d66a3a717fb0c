// Package org implements organization commands for repctl.
package org

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for organization management.
var Cmd = &cobra.Command{
	Use:   "org",
	Short: "Organization management",
	Long: `Bootstrap and inspect organizations.

Creating an organization enrolls its first subject, who becomes the
initial member of the managers role.

Examples:
  # Bootstrap a new organization
  repctl org create acme --username alice --name "Alice" --email alice@acme.test

  # List organizations on the server
  repctl org list`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
}
