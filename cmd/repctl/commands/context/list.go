package context

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/credentials"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured contexts",
	Long: `List all configured server contexts.

Shows the context name, server URL, and session state for each saved
context. The current context is marked with an asterisk (*).

Examples:
  # List contexts as table
  repctl context list

  # List as JSON
  repctl context list -o json`,
	RunE: runContextList,
}

// ContextInfo represents context information for output.
type ContextInfo struct {
	Name         string `json:"name" yaml:"name"`
	Current      bool   `json:"current" yaml:"current"`
	ServerURL    string `json:"server_url" yaml:"server_url"`
	KeyPinned    bool   `json:"key_pinned" yaml:"key_pinned"`
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	LoggedIn     bool   `json:"logged_in" yaml:"logged_in"`
}

// ContextList is a list of contexts for table rendering.
type ContextList []ContextInfo

// Headers implements TableRenderer.
func (cl ContextList) Headers() []string {
	return []string{"", "NAME", "SERVER", "KEY", "ORG", "USER", "LOGGED IN"}
}

// Rows implements TableRenderer.
func (cl ContextList) Rows() [][]string {
	rows := make([][]string, 0, len(cl))
	for _, c := range cl {
		current := ""
		if c.Current {
			current = "*"
		}
		rows = append(rows, []string{
			current, c.Name, c.ServerURL,
			boolToYesNo(c.KeyPinned),
			cmdutil.EmptyOr(c.Organization, "-"),
			cmdutil.EmptyOr(c.Username, "-"),
			boolToYesNo(c.LoggedIn),
		})
	}
	return rows
}

func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func runContextList(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	contextNames := store.ListContexts()
	currentContext := store.GetCurrentContextName()

	contexts := make(ContextList, 0, len(contextNames))
	for _, name := range contextNames {
		ctx, err := store.GetContext(name)
		if err != nil {
			continue
		}

		info := ContextInfo{
			Name:      name,
			Current:   name == currentContext,
			ServerURL: ctx.ServerURL,
			KeyPinned: ctx.ServerPublicKey != "",
			LoggedIn:  ctx.HasSession(),
		}
		if ctx.Session != nil {
			info.Organization = ctx.Session.Organization
			info.Username = ctx.Session.Username
		}
		contexts = append(contexts, info)
	}

	return cmdutil.PrintOutput(os.Stdout, contexts, len(contexts) == 0,
		"No contexts configured. Use 'repctl context add <name> --server <url>' to create one.", contexts)
}
