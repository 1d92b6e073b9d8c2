package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/gijiroku/memogen/pkg/config"
	"github.com/spf13/cobra"
)

// seedCatalog is written by init so interactive users get model suggestions.
// The catalog is advisory: anything can still be configured on top of it.
func seedCatalog() map[string][]string {
	return map[string][]string{
		"openai":    {"gpt-4o-mini", "gpt-3.5-turbo"},
		"anthropic": {"claude-3-haiku-20240307"},
		"google":    {"gemini-pro"},
	}
}

type initFlags struct {
	provider    string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	template    string
	force       bool
}

func initCmd() *cobra.Command {
	var inf initFlags

	cmd := &cobra.Command{
		Use:   "init [flags]",
		Short: "Create a config file, interactively or from flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveConfigPath()

			if !inf.force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			cfg := config.Default()
			cfg.Providers = seedCatalog()

			if anyValueFlagChanged(cmd) {
				applyInitFlags(cmd, &cfg, &inf)
			} else if err := runInitForm(&cfg); err != nil {
				return err
			}

			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", okMark, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&inf.provider, "provider", "", "provider (openai, anthropic, google)")
	cmd.Flags().StringVar(&inf.model, "model", "", "model name")
	cmd.Flags().StringVar(&inf.apiKey, "api-key", "", "API key for the chosen provider (may reference ${VAR})")
	cmd.Flags().Float64Var(&inf.temperature, "temperature", config.DefaultTemperature, "sampling temperature (clamped to [0,1])")
	cmd.Flags().IntVar(&inf.maxTokens, "max-tokens", config.DefaultMaxTokens, "response token budget (raised to ≥1)")
	cmd.Flags().StringVar(&inf.template, "template", "", "prompt template (must contain {transcription})")
	cmd.Flags().BoolVar(&inf.force, "force", false, "overwrite an existing config file")

	return cmd
}

// anyValueFlagChanged reports whether init should skip the form: supplying
// any configuration value on the command line selects non-interactive mode.
func anyValueFlagChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"provider", "model", "api-key", "temperature", "max-tokens", "template"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}

	return false
}

func applyInitFlags(cmd *cobra.Command, cfg *config.Config, inf *initFlags) {
	if inf.provider != "" {
		if !cfg.SetProvider(inf.provider) {
			log.Warn().Str("provider", inf.provider).Msg("provider not in catalog; set anyway")
		}
	}

	if inf.model != "" {
		if !cfg.SetModel(inf.model) {
			log.Warn().Str("model", inf.model).Msg("model not in catalog for this provider; set anyway")
		}
	}

	if inf.apiKey != "" {
		cfg.SetCredential(cfg.Provider, inf.apiKey)
	}

	if cmd.Flags().Changed("temperature") {
		cfg.SetTemperature(inf.temperature)
	}

	if cmd.Flags().Changed("max-tokens") {
		cfg.SetMaxTokens(inf.maxTokens)
	}

	if inf.template != "" {
		cfg.Template = inf.template
	}
}

// runInitForm collects the configuration interactively. Temperature and
// max-tokens pass through the clamping setters afterwards, so out-of-range
// input saturates instead of failing.
func runInitForm(cfg *config.Config) error {
	var (
		apiKey      string
		temperature = strconv.FormatFloat(cfg.Temperature, 'g', -1, 64)
		maxTokens   = strconv.Itoa(cfg.MaxTokens)
	)

	// Provider first: the model suggestions depend on it.
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Provider").
			Options(
				huh.NewOption("OpenAI", "openai"),
				huh.NewOption("Anthropic", "anthropic"),
				huh.NewOption("Google", "google"),
			).
			Value(&cfg.Provider),
	)).Run(); err != nil {
		return err
	}

	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Model").
			Description("Any model name is accepted and passed through to the provider.").
			Suggestions(cfg.Models(cfg.Provider)).
			Value(&cfg.Model),

		huh.NewInput().
			Title("API key").
			Description("Stored in the config file; ${VAR} references are resolved at load time.").
			EchoMode(huh.EchoModePassword).
			Value(&apiKey),

		huh.NewInput().
			Title("Temperature").
			Validate(validateFloat).
			Value(&temperature),

		huh.NewInput().
			Title("Max tokens").
			Validate(validateInt).
			Value(&maxTokens),
	)).Run(); err != nil {
		return err
	}

	if apiKey != "" {
		cfg.SetCredential(cfg.Provider, apiKey)
	}

	x, _ := strconv.ParseFloat(temperature, 64)
	cfg.SetTemperature(x)

	n, _ := strconv.Atoi(maxTokens)
	cfg.SetMaxTokens(n)

	return nil
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return errors.New("enter a number")
	}

	return nil
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return errors.New("enter an integer")
	}

	return nil
}
