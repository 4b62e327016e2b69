// Package cmd contains the go-ioc command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/km-arc/go-ioc/app"
	foundation "github.com/km-arc/go-ioc/framework/app"
)

var version = "dev"

// SetVersion sets the version string printed by "version".
func SetVersion(v string) {
	version = v
}

// appFactory builds a fresh application from the persistent flags.
type appFactory func(cmd *cobra.Command) (*foundation.Application, error)

// NewRootCommand builds the command tree. Every call returns an
// independent tree, so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	var (
		envFiles []string
		seed     []string
	)

	root := &cobra.Command{
		Use:   "go-ioc",
		Short: "Cats API served from a dependency injection container",
		Long: `go-ioc boots the cats API from its service container.

Example usage:
  go-ioc serve                      # Serve the API on APP_PORT
  go-ioc graph                      # Print the dependency graph as YAML
  go-ioc graph --format text        # Print the dependency graph as text
  go-ioc routes                     # List the registered routes`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "env files to load in order; missing files are skipped and earlier files win")
	root.PersistentFlags().StringSliceVar(&seed, "seed", []string{"Celine", "Mittens"}, "cats the repository starts with")

	newApp := func(cmd *cobra.Command) (*foundation.Application, error) {
		application, err := foundation.New(
			foundation.WithEnvFiles(envFiles...),
			foundation.WithLogOutput(cmd.ErrOrStderr()),
		)
		if err != nil {
			return nil, err
		}
		if err := application.Register(&app.Module{Seed: seed}); err != nil {
			return nil, err
		}
		return application, nil
	}

	root.AddCommand(
		newServeCommand(newApp),
		newGraphCommand(newApp),
		newRoutesCommand(newApp),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
