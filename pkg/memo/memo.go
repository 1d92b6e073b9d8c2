// Package memo coordinates memo generation: prompt rendering, provider
// selection through a factory registry, and the transcript file pipeline.
package memo

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gijiroku/memogen/pkg/config"
	"github.com/gijiroku/memogen/pkg/prompt"
	"github.com/gijiroku/memogen/pkg/providers/provider"
	"github.com/rs/zerolog"
)

// UnsupportedProviderError reports a configured provider name with no
// registered factory.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("memo: unsupported provider %q", e.Name)
}

// Generator turns transcripts into memos using the provider selected by the
// configuration captured at construction. A Generator never mutates its
// configuration and is safe for concurrent use; applying new settings means
// building a new Generator.
type Generator struct {
	cfg     config.Config
	adapter provider.Generator
	err     error // Construction failure, surfaced by the first call.
	log     zerolog.Logger
}

// Option adjusts how New builds a Generator.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// WithLogger routes the Generator's logging to l. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient makes the provider adapter use c instead of the shared
// default client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithBaseURL overrides the active provider's endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// New builds a Generator for the configuration's active provider. An unknown
// provider name is not reported here; it surfaces on the first call as
// *UnsupportedProviderError.
func New(cfg config.Config, opts ...Option) *Generator {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Generator{cfg: cfg, log: o.logger}

	factory, ok := getFactory(cfg.Provider)
	if !ok {
		g.err = &UnsupportedProviderError{Name: cfg.Provider}
		return g
	}

	adapter, err := factory(ProviderConfig{
		APIKey:  cfg.Credential(cfg.Provider),
		BaseURL: o.baseURL,
		Client:  o.client,
	})
	if err != nil {
		g.err = fmt.Errorf("memo: build provider %q: %w", cfg.Provider, err)
		return g
	}

	g.adapter = adapter

	return g
}

// Generate renders the configured template around the transcript and asks
// the active provider for a memo. Adapter failures propagate unchanged.
func (g *Generator) Generate(ctx context.Context, transcription string) (string, error) {
	if g.err != nil {
		return "", g.err
	}

	rendered := prompt.Render(g.cfg.Template, transcription)

	g.log.Debug().
		Str("provider", g.cfg.Provider).
		Str("model", g.cfg.Model).
		Int("prompt_chars", len(rendered)).
		Msg("generating memo")

	return g.adapter.Generate(ctx, provider.Request{
		Prompt:      rendered,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
}

// GenerateFromFile reads the transcript at inputPath, generates a memo, and
// writes it to outputPath, deriving one next to the input when outputPath is
// empty. The memo text is returned. A failed write fails the whole call:
// the output file on disk is part of the success contract.
func (g *Generator) GenerateFromFile(ctx context.Context, inputPath, outputPath string) (string, error) {
	data, err := os.ReadFile(inputPath) //nolint:gosec // transcript path comes from the caller
	if err != nil {
		return "", fmt.Errorf("memo: read transcript: %w", err)
	}

	text, err := g.Generate(ctx, string(data))
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		outputPath = OutputPath(inputPath, "")
	}

	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil { //nolint:gosec // memos are not secrets
		return "", fmt.Errorf("memo: write memo: %w", err)
	}

	g.log.Info().Str("input", inputPath).Str("output", outputPath).Msg("memo written")

	return text, nil
}

// OutputPath derives the memo path for a transcript: the input's base name
// with its extension replaced by "_memo.txt", next to the input. A non-empty
// outputDir redirects the file there.
func OutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" { // dotfiles such as ".meeting" have no extension to strip
		stem = base
	}

	name := stem + "_memo.txt"

	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}

	return filepath.Join(filepath.Dir(inputPath), name)
}
