// Package cli provides the gridline command-line interface.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gridline/gridline/pkg/version"
)

// rootFlags carries the persistent flags shared by all commands.
type rootFlags struct {
	configFile string
	envPrefix  string
}

// NewRootCommand creates the gridline root command.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "gridline",
		Short:         "Server-side table view-state engine demo",
		Long:          "gridline serves a sortable, searchable, paginated table view model over HTTP,\ndriven entirely by URL query parameters.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	registerRootFlags(root.PersistentFlags(), flags)
	root.AddCommand(newServeCommand(flags))
	return root
}

func registerRootFlags(flagSet *pflag.FlagSet, flags *rootFlags) {
	flagSet.StringVarP(&flags.configFile, "config", "c", "", "path to the YAML configuration file")
	flagSet.StringVar(&flags.envPrefix, "env-prefix", "GRIDLINE", "environment variable prefix")
}
