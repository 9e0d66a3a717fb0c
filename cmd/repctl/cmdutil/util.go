// Package cmdutil provides shared utilities for repctl commands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/docrep/docrep/internal/cli/credentials"
	"github.com/docrep/docrep/internal/cli/output"
	"github.com/docrep/docrep/internal/cli/prompt"
	"github.com/docrep/docrep/pkg/apiclient"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ServerURL string
	Output    string
	NoColor   bool
	Verbose   bool
}

// BaseClient returns an API client for unauthenticated endpoints
// (organization bootstrap, organization listing). The server key is pinned
// when the current context has one, so signed responses are verified.
func BaseClient() (*apiclient.Client, error) {
	store, err := credentials.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state store: %w", err)
	}

	url := Flags.ServerURL
	var opts []apiclient.Option
	if ctx, err := store.GetCurrentContext(); err == nil {
		if url == "" {
			url = ctx.ServerURL
		}
		if ctx.ServerPublicKey != "" {
			opts = append(opts, apiclient.WithServerKey(ctx.ServerPublicKey))
		}
	}
	if url == "" {
		return nil, fmt.Errorf("no server URL configured. Run 'repctl context add --server <url>' or pass --server")
	}

	return apiclient.New(url, opts...), nil
}

// WithSession runs fn with a client resumed from the current context's
// session, then persists the session state back to disk. The message
// counter advances on every request, so the state is saved even when fn
// fails - a counter that falls behind the server's would make every later
// request look like a replay.
func WithSession(fn func(c *apiclient.Client) error) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	ctx, err := store.GetCurrentContext()
	if err != nil {
		return credentials.ErrNotLoggedIn
	}
	if !ctx.HasSession() {
		return credentials.ErrNotLoggedIn
	}

	url := ctx.ServerURL
	if Flags.ServerURL != "" {
		url = Flags.ServerURL
	}

	opts := []apiclient.Option{apiclient.WithSession(ctx.Session)}
	if ctx.ServerPublicKey != "" {
		opts = append(opts, apiclient.WithServerKey(ctx.ServerPublicKey))
	}
	client := apiclient.New(url, opts...)

	fnErr := fn(client)

	if saveErr := store.UpdateSession(client.Session()); saveErr != nil {
		if fnErr != nil {
			return fnErr
		}
		return fmt.Errorf("failed to persist session state: %w", saveErr)
	}

	// A dead session is not coming back; drop it so the next command says
	// "not logged in" instead of replaying a doomed request.
	var apiErr *apiclient.APIError
	if errors.As(fnErr, &apiErr) && apiErr.IsSessionFailure() {
		_ = store.ClearSession()
		return fmt.Errorf("%w\nSession is no longer valid - run 'repctl login' again", fnErr)
	}

	return fnErr
}

// GetOutputFormat returns the output format string.
func GetOutputFormat() string {
	return Flags.Output
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled returns whether color output is disabled.
func IsColorDisabled() bool {
	return Flags.NoColor
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return Flags.Verbose
}

// PrintOutput prints data in the specified format (JSON, YAML, or table).
// For table format, it displays emptyMsg if data is empty, otherwise uses the tableRenderer.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints a success message if the output format is table.
func PrintSuccess(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	printer := output.NewPrinter(os.Stdout, format, !IsColorDisabled())
	printer.Success(msg)
}

// PrintResource prints a resource in the specified format.
// For table format, it uses the provided tableRenderer. For JSON/YAML, it outputs the resource.
func PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// RunDeleteWithConfirmation prompts for confirmation (unless force is true) and runs deleteFn.
func RunDeleteWithConfirmation(resourceType, name string, force bool, deleteFn func() error) error {
	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s '%s'?", resourceType, name), force)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := deleteFn(); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("%s '%s' deleted successfully", resourceType, name))
	return nil
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
// Useful for table display where empty fields should show "-".
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// HandleAbort checks if error is an abort (Ctrl+C) and prints a message.
// Returns nil for abort (user cancelled), otherwise returns the original error.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}
