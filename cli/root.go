// Package cli is the gnockapi command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCommand returns the gnockapi root command.
func NewCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "gnockapi",
		Short: "Mock an HTTP API from its OpenAPI definition",
		Long: `gnockapi serves every operation of an OpenAPI 3 document.

Responses come from override files when a route matches the request, and are
generated from the operation's 200 response schema otherwise.

Options are layered: defaults, then the config file, then the environment,
then flags.`,
		Example: `  # Mock a local document
  gnockapi --openapi petstore.yaml

  # Mock a remote document on another port, with canned responses
  gnockapi --openapi https://example.com/openapi.json --port 3000 --mock-overrides 'mocks/**/*.yaml'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	f.register(cmd)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewCommand().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errStartup) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
