package org

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/prompt"
)

var (
	createUsername string
	createName     string
	createEmail    string
	createPassword string
)

var createCmd = &cobra.Command{
	Use:   "create <organization>",
	Short: "Bootstrap a new organization",
	Long: `Create an organization with its first subject.

The password derives your long-term keypair locally; only the public key
is sent. The first subject is enrolled into the managers role and can
enroll everyone else after logging in.

Examples:
  # Interactive (prompts for missing fields)
  repctl org create acme --username alice

  # Fully scripted
  repctl org create acme -u alice --name "Alice" --email alice@acme.test -p s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createUsername, "username", "u", "", "Username of the first subject")
	createCmd.Flags().StringVar(&createName, "name", "", "Display name of the first subject")
	createCmd.Flags().StringVar(&createEmail, "email", "", "Email of the first subject")
	createCmd.Flags().StringVarP(&createPassword, "password", "p", "", "Password (prompted if omitted)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	organization := args[0]

	username := createUsername
	var err error
	if username == "" {
		username, err = prompt.InputRequired("Username")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	name := createName
	if name == "" {
		name, err = prompt.Input("Display name", username)
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

	client, err := cmdutil.BaseClient()
	if err != nil {
		return err
	}

	if err := client.CreateOrganization(organization, username, name, email, password); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	fmt.Printf("Organization '%s' created with manager '%s'\n", organization, username)
	fmt.Println("Log in with: repctl login --org", organization, "--username", username)
	return nil
}
