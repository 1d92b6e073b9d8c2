package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gijiroku/memogen/pkg/config"
	"github.com/gijiroku/memogen/pkg/prompt"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit the memogen configuration",
	}

	cmd.AddCommand(
		configShowCmd(),
		configGetCmd(),
		configSetCmd(),
		configPathCmd(),
	)

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadRaw(resolveConfigPath())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintf(tw, "provider\t%s\n", cfg.Provider)
			fmt.Fprintf(tw, "model\t%s\n", cfg.Model)
			fmt.Fprintf(tw, "temperature\t%g\n", cfg.Temperature)
			fmt.Fprintf(tw, "max_tokens\t%d\n", cfg.MaxTokens)
			fmt.Fprintf(tw, "template\t%s\n", preview(cfg.Template, 60))

			names := make([]string, 0, len(cfg.Credentials))
			for name := range cfg.Credentials {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(tw, "%s.api_key\t%s\n", name, maskSecret(cfg.Credentials[name]))
			}

			for _, name := range catalogProviders(cfg) {
				fmt.Fprintf(tw, "catalog.%s\t%s\n", name, strings.Join(cfg.Models(name), ", "))
			}

			return tw.Flush()
		},
	}
}

func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadRaw(resolveConfigPath())

			value, err := configValue(cfg, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)

			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath()

			before, _ := os.ReadFile(path) //nolint:gosec // resolved config path

			cfg := config.LoadRaw(path)
			if err := applyConfigKey(&cfg, args[0], args[1]); err != nil {
				return err
			}

			if err := cfg.Save(path); err != nil {
				return err
			}

			if showDiff {
				after, err := os.ReadFile(path) //nolint:gosec // resolved config path
				if err != nil {
					return err
				}

				diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(string(before)),
					B:        difflib.SplitLines(string(after)),
					FromFile: path,
					ToFile:   path,
					Context:  3,
				})
				if err != nil {
					return err
				}

				fmt.Fprint(cmd.OutOrStdout(), diff)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff of the config file")

	return cmd
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), resolveConfigPath())
		},
	}
}

// configValue resolves a get/set key against the configuration. Credentials
// are addressed as <provider>.api_key.
func configValue(cfg config.Config, key string) (string, error) {
	switch key {
	case "provider":
		return cfg.Provider, nil
	case "model":
		return cfg.Model, nil
	case "temperature":
		return strconv.FormatFloat(cfg.Temperature, 'g', -1, 64), nil
	case "max_tokens":
		return strconv.Itoa(cfg.MaxTokens), nil
	case "template":
		return cfg.Template, nil
	}

	if provider, ok := strings.CutSuffix(key, ".api_key"); ok {
		return cfg.Credential(provider), nil
	}

	return "", fmt.Errorf("unknown config key %q", key)
}

// applyConfigKey mutates cfg through the clamping/advisory setters so set
// obeys the same policies as every other surface.
func applyConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "provider":
		if !cfg.SetProvider(value) {
			log.Warn().Str("provider", value).Msg("provider not in catalog; set anyway")
		}

		return nil

	case "model":
		if !cfg.SetModel(value) {
			log.Warn().Str("model", value).Msg("model not in catalog for this provider; set anyway")
		}

		return nil

	case "temperature":
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %q", value)
		}

		cfg.SetTemperature(x)

		return nil

	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_tokens must be an integer: %q", value)
		}

		cfg.SetMaxTokens(n)

		return nil

	case "template":
		if err := prompt.Validate(value); err != nil {
			return err
		}

		cfg.Template = value

		return nil
	}

	if provider, ok := strings.CutSuffix(key, ".api_key"); ok {
		cfg.SetCredential(provider, value)
		return nil
	}

	return fmt.Errorf("unknown config key %q", key)
}

// catalogProviders returns the catalog's provider names in sorted order.
func catalogProviders(cfg config.Config) []string {
	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
