package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/gijiroku/memogen/pkg/config"
	"github.com/spf13/cobra"
)

type modelEntry struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Active   bool   `json:"active"`
}

func modelsCmd() *cobra.Command {
	var (
		providerFilter string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the catalog of known models per provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(resolveConfigPath())

			entries := buildModelList(cfg, providerFilter)

			if jsonOutput {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), string(data))

				return nil
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty; seed it with \"memogen init\" or edit the config file")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "PROVIDER\tMODEL\tACTIVE\n")

			for _, e := range entries {
				active := ""
				if e.Active {
					active = "*"
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Provider, e.Model, active)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&providerFilter, "provider", "", "only list one provider's models")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

// buildModelList flattens the catalog, marking the configured provider+model
// pair. Catalog order is preserved per provider; providers come out sorted.
func buildModelList(cfg config.Config, providerFilter string) []modelEntry {
	entries := []modelEntry{} // non-nil so --json prints [] for an empty catalog

	for _, name := range catalogProviders(cfg) {
		if providerFilter != "" && name != providerFilter {
			continue
		}

		for _, model := range cfg.Models(name) {
			entries = append(entries, modelEntry{
				Provider: name,
				Model:    model,
				Active:   name == cfg.Provider && model == cfg.Model,
			})
		}
	}

	return entries
}
