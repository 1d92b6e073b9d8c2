package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gijiroku/memogen/pkg/config"
	"github.com/gijiroku/memogen/pkg/memo"
	"github.com/gijiroku/memogen/pkg/prompt"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	output        string
	outputDir     string
	provider      string
	model         string
	apiKey        string
	temperature   float64
	maxTokens     int
	template      string
	templateName  string
	templatesFile string
	workers       int
	show          bool
	estimate      bool
}

func generateCmd() *cobra.Command {
	var gf generateFlags

	cmd := &cobra.Command{
		Use:   "generate [flags] <transcript>...",
		Short: "Generate a meeting memo for each transcript file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if gf.output != "" && len(args) > 1 {
				return errors.New("--output applies to a single transcript; use --output-dir for batches")
			}

			cfgPath := resolveConfigPath()
			cfg := config.Load(cfgPath)

			if err := applyOverrides(cmd, &cfg, &gf, cfgPath); err != nil {
				return err
			}

			if gf.estimate {
				return runEstimate(cmd, cfg, args)
			}

			gen := memo.New(cfg, memo.WithLogger(log))

			if gf.output != "" {
				text, err := gen.GenerateFromFile(cmd.Context(), args[0], gf.output)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", failMark, args[0], err)
					return errors.New("1 transcript failed")
				}

				reportSuccess(cmd, args[0], gf.output, text, gf.show)

				return nil
			}

			results := memo.RunBatch(cmd.Context(), gen, args, gf.outputDir, gf.workers)

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", failMark, r.Input, r.Err)
					continue
				}

				reportSuccess(cmd, r.Input, r.Output, r.Text, gf.show)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d transcripts failed", failed, len(results))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&gf.output, "output", "o", "", "output file (single transcript only)")
	cmd.Flags().StringVar(&gf.outputDir, "output-dir", "", "directory for derived output files")
	cmd.Flags().StringVar(&gf.provider, "provider", "", "override the configured provider")
	cmd.Flags().StringVar(&gf.model, "model", "", "override the configured model")
	cmd.Flags().StringVar(&gf.apiKey, "api-key", "", "override the active provider's API key")
	cmd.Flags().Float64Var(&gf.temperature, "temperature", 0, "override the sampling temperature (clamped to [0,1])")
	cmd.Flags().IntVar(&gf.maxTokens, "max-tokens", 0, "override the response token budget (raised to ≥1)")
	cmd.Flags().StringVar(&gf.template, "template", "", "inline prompt template (must contain {transcription})")
	cmd.Flags().StringVar(&gf.templateName, "template-name", "", "named template from the template library")
	cmd.Flags().StringVar(&gf.templatesFile, "templates-file", "", "template library file (default: templates.yaml next to the config)")
	cmd.Flags().IntVar(&gf.workers, "workers", memo.DefaultWorkers, "concurrent transcripts in a batch")
	cmd.Flags().BoolVar(&gf.show, "show", false, "render each memo to the terminal")
	cmd.Flags().BoolVar(&gf.estimate, "estimate", false, "print prompt token estimates instead of calling the provider")

	return cmd
}

// applyOverrides folds the generate flags into the loaded configuration.
// Advisory catalog misses warn and proceed, matching the setters.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, gf *generateFlags, cfgPath string) error {
	if gf.provider != "" {
		if !cfg.SetProvider(gf.provider) {
			log.Warn().Str("provider", gf.provider).Msg("provider not in catalog; proceeding anyway")
		}
	}

	if gf.model != "" {
		if !cfg.SetModel(gf.model) {
			log.Warn().Str("model", gf.model).Msg("model not in catalog for this provider; passing through")
		}
	}

	if gf.apiKey != "" {
		cfg.SetCredential(cfg.Provider, gf.apiKey)
	}

	if cmd.Flags().Changed("temperature") {
		cfg.SetTemperature(gf.temperature)
	}

	if cmd.Flags().Changed("max-tokens") {
		cfg.SetMaxTokens(gf.maxTokens)
	}

	if gf.template != "" && gf.templateName != "" {
		return errors.New("--template and --template-name are mutually exclusive")
	}

	if gf.template != "" {
		if err := prompt.Validate(gf.template); err != nil {
			return err
		}

		cfg.Template = gf.template
	}

	if gf.templateName != "" {
		path := gf.templatesFile
		if path == "" {
			path = defaultTemplatesPath(cfgPath)
		}

		lib, err := prompt.LoadLibrary(path)
		if err != nil {
			return err
		}

		tpl, err := lib.Get(gf.templateName, cfg.Template)
		if err != nil {
			return err
		}

		cfg.Template = tpl
	}

	return nil
}

// runEstimate prints a per-file token estimate for the rendered prompt and
// performs no provider call and no write.
func runEstimate(cmd *cobra.Command, cfg config.Config, inputs []string) error {
	for _, input := range inputs {
		data, err := os.ReadFile(input) //nolint:gosec // transcript path comes from the caller
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}

		rendered := prompt.Render(cfg.Template, string(data))
		tokens := prompt.EstimateTokens(rendered, cfg.Model)

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d tokens (prompt, %s)\n", input, tokens, cfg.Model)
	}

	return nil
}

func reportSuccess(cmd *cobra.Command, input, output, text string, show bool) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", okMark, input, dimStyle.Render("→"), output)

	if show {
		fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(text))
	}
}
