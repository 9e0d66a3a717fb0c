package subject

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/prompt"
	"github.com/docrep/docrep/pkg/apiclient"
)

var (
	createName     string
	createEmail    string
	createPassword string
)

var createCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Enroll a new subject",
	Long: `Enroll a subject in the current organization.

The new subject's password derives their keypair locally; only the
public key travels to the server. Requires the SUBJECT_NEW permission.

Examples:
  repctl subject create bob --name "Bob" --email bob@acme.test`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Display name")
	createCmd.Flags().StringVar(&createEmail, "email", "", "Email address")
	createCmd.Flags().StringVarP(&createPassword, "password", "p", "", "Initial password (prompted if omitted)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	username := args[0]

	name := createName
	var err error
	if name == "" {
		name, err = prompt.InputRequired("Display name")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	email := createEmail
	if email == "" {
		email, err = prompt.InputRequired("Email")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	password := createPassword
	if password == "" {
		password, err = prompt.NewPassword()
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	return cmdutil.WithSession(func(c *apiclient.Client) error {
		if err := c.CreateSubject(username, name, email, password); err != nil {
			return err
		}
		fmt.Printf("Subject '%s' created\n", username)
		return nil
	})
}
