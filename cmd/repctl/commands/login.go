package commands

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/docrep/docrep/cmd/repctl/cmdutil"
	"github.com/docrep/docrep/internal/cli/credentials"
	"github.com/docrep/docrep/internal/cli/prompt"
	"github.com/docrep/docrep/pkg/apiclient"
)

var (
	loginServer        string
	loginServerKeyFile string
	loginOrganization  string
	loginUsername      string
	loginPassword      string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open a session with a docrep server",
	Long: `Authenticate with a docrep server and open an encrypted session.

The password never leaves this machine: it derives your long-term keypair,
which signs the handshake. The server's signed response is verified against
its pinned public key, so the key must be pinned (via 'repctl context add'
or --server-key-file) before the first login.

Examples:
  # First login to a server
  repctl login --server http://localhost:5000 --server-key-file server.pub \
    --org acme --username alice

  # Re-login to the stored context
  repctl login`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "Server URL (required on first login)")
	loginCmd.Flags().StringVar(&loginServerKeyFile, "server-key-file", "", "Path to the server's public key PEM to pin")
	loginCmd.Flags().StringVar(&loginOrganization, "org", "", "Organization name")
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	// Determine server URL
	serverURLStr := loginServer
	ctx, ctxErr := store.GetCurrentContext()
	if serverURLStr == "" {
		if ctxErr != nil || ctx.ServerURL == "" {
			return fmt.Errorf("no server URL specified and no saved context found\n\n" +
				"Specify server URL:\n" +
				"  repctl login --server http://localhost:5000 --server-key-file server.pub")
		}
		serverURLStr = ctx.ServerURL
	}

	// Validate server URL
	parsedURL, err := url.Parse(serverURLStr)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if parsedURL.Scheme == "" {
		parsedURL.Scheme = "http"
		serverURLStr = parsedURL.String()
	}

	// Determine the pinned server key
	serverKeyPEM := ""
	if ctxErr == nil {
		serverKeyPEM = ctx.ServerPublicKey
	}
	if loginServerKeyFile != "" {
		data, err := os.ReadFile(loginServerKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read server key file: %w", err)
		}
		serverKeyPEM = string(data)
	}
	if serverKeyPEM == "" {
		return fmt.Errorf("no pinned server key for this context\n\n" +
			"Pin the server's public key (printed by 'docrep init'):\n" +
			"  repctl login --server-key-file server.pub ...")
	}

	// Get organization (prompt if not provided)
	organization := loginOrganization
	if organization == "" {
		organization, err = prompt.InputRequired("Organization")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	// Get username (prompt if not provided)
	username := loginUsername
	if username == "" {
		username, err = prompt.InputRequired("Username")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	// Get password (prompt if not provided)
	password := loginPassword
	if password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			// Piped stdin, e.g. `cat pass | repctl login ...`
			password, err = readPasswordLine(os.Stdin)
		} else {
			password, err = prompt.Password("Password")
		}
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	client := apiclient.New(serverURLStr, apiclient.WithServerKey(serverKeyPEM))

	fmt.Printf("Opening session with %s as %s@%s...\n", serverURLStr, username, organization)
	sess, err := client.OpenSession(organization, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Determine context name
	contextName := store.GetCurrentContextName()
	if contextName == "" {
		contextName = "default"
	}

	// Save context and session
	if err := store.SetContext(contextName, &credentials.Context{
		ServerURL:       serverURLStr,
		ServerPublicKey: serverKeyPEM,
		Session:         sess,
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := store.UseContext(contextName); err != nil {
		return fmt.Errorf("failed to set current context: %w", err)
	}

	fmt.Printf("Session %d opened as %s@%s\n", sess.SessionID, username, organization)
	fmt.Printf("Context: %s\n", contextName)
	fmt.Printf("State saved to: %s\n", store.ConfigPath())

	return nil
}

// readPasswordLine reads a single line from r, for scripted logins where
// stdin is not a terminal.
func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("empty password on stdin")
	}
	return line, nil
}
