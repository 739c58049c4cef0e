// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the genesis CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "genesis",
		Short:         "Bootstrap a single cloud VM that is ready for SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Deploy())
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
