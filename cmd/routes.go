package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRoutesCommand(newApp appFactory) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			router, err := application.Router()
			if err != nil {
				return err
			}
			routes, err := router.Routes()
			if err != nil {
				return err
			}

			if asYAML {
				return writeYAML(cmd.OutOrStdout(), routes)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATTERN")
			for _, route := range routes {
				fmt.Fprintf(tw, "%s\t%s\n", route.Method, route.Pattern)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "output as YAML")
	return cmd
}
