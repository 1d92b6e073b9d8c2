package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/gijiroku/memogen/pkg/prompt"
	"github.com/spf13/cobra"
)

func templatesCmd() *cobra.Command {
	var templatesFile string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the named templates in the template library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := templatesFile
			if path == "" {
				path = defaultTemplatesPath(resolveConfigPath())
			}

			lib, err := prompt.LoadLibrary(path)
			if err != nil {
				return err
			}

			if len(lib) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no templates in %s\n", path)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "NAME\tPREVIEW\n")

			for _, name := range lib.Names() {
				tpl, _ := lib.Get(name, "")
				fmt.Fprintf(tw, "%s\t%s\n", name, preview(tpl, 60))
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&templatesFile, "templates-file", "", "template library file (default: templates.yaml next to the config)")

	return cmd
}
