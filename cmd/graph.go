package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-ioc/framework/container"
)

func newGraphCommand(newApp appFactory) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the service dependency graph",
		Long: `Build the container and print every service with its lifetime,
activation strategy and the service filling each constructor parameter.

Examples:
  go-ioc graph                 # YAML
  go-ioc graph --format text   # one line per edge`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			provider, err := application.Build()
			if err != nil {
				return err
			}

			nodes := provider.Graph()
			switch format {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), nodes)
			case "text":
				writeGraphText(cmd.OutOrStdout(), nodes)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want yaml or text)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or text")
	return cmd
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeGraphText(w io.Writer, nodes []container.GraphNode) {
	for _, node := range nodes {
		fmt.Fprintf(w, "%s (%s, %s)\n", node.Key, node.Lifetime, node.Strategy)
		for _, edge := range node.Dependencies {
			fmt.Fprintf(w, "  %s -> %s\n", edge.Param, edge.Target)
		}
	}
}
