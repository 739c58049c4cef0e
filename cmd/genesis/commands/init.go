package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/genesis/cmd/genesis/handlers"
	"github.com/imamik/genesis/internal/config"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "genesis.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a genesis configuration file.

The wizard asks for the provider, project, zone, instance name, machine
type and SSH host key policy. Everything else keeps its default and can
be edited in the generated YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")

	return cmd
}
