// Package config stores the settings that drive memo generation: the active
// provider and model, per-provider credentials, sampling parameters, the
// prompt template, and the advisory catalog of known models.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Defaults applied when no configuration file exists.
const (
	DefaultProvider    = "openai"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1500
)

// DefaultTemplate is the prompt template used when none is configured. The
// literal {transcription} token is replaced with the transcript body at
// render time.
const DefaultTemplate = "The following is a meeting transcript. Write meeting minutes based on it.\n\n{transcription}"

// Config is the persisted memogen configuration.
type Config struct {
	Provider    string              `json:"provider"`
	Credentials map[string]string   `json:"credentials"` // Per-provider API keys; values may reference ${VAR}.
	Model       string              `json:"model"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
	Template    string              `json:"template"`
	Providers   map[string][]string `json:"providers"` // Advisory catalog of known models per provider.
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:    DefaultProvider,
		Credentials: map[string]string{},
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Template:    DefaultTemplate,
		Providers:   map[string][]string{},
	}
}

// Load reads the configuration at path and expands ${VAR} and $VAR references
// in credential values from the environment. Expansion is applied per
// credential value only, so templates may contain $ literally.
//
// A missing or unreadable file and malformed JSON all yield Default(), never
// an error. A broken config file is deliberately not fatal.
func Load(path string) Config {
	cfg := LoadRaw(path)

	for name, secret := range cfg.Credentials {
		cfg.Credentials[name] = os.ExpandEnv(secret)
	}

	return cfg
}

// LoadRaw is Load without environment expansion, for editing flows that must
// preserve ${VAR} references when the file is saved back.
func LoadRaw(path string) Config {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Default()
	}

	// Keys absent from the document keep their default values.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}

	return cfg
}

// Save writes the configuration to path as two-space-indented JSON with a
// trailing newline, creating parent directories as needed. Unlike loading, a
// save failure is always reported.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: save: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("config: save: %w", err)
	}

	return nil
}

// SetProvider selects the active provider. Any name is accepted; the return
// value reports whether the catalog knows it, so callers can warn.
func (c *Config) SetProvider(name string) bool {
	c.Provider = name

	_, known := c.Providers[name]

	return known
}

// SetModel selects the model sent to the provider. Any name is accepted; the
// return value reports whether the catalog lists it for the active provider.
func (c *Config) SetModel(name string) bool {
	c.Model = name

	return slices.Contains(c.Providers[c.Provider], name)
}

// SetTemperature sets the sampling temperature, saturating to [0, 1].
func (c *Config) SetTemperature(x float64) {
	switch {
	case x < 0:
		x = 0
	case x > 1:
		x = 1
	}

	c.Temperature = x
}

// SetMaxTokens sets the response token budget, raising anything below 1 to 1.
func (c *Config) SetMaxTokens(n int) {
	if n < 1 {
		n = 1
	}

	c.MaxTokens = n
}

// Credential returns the stored API key for a provider, or "".
func (c Config) Credential(provider string) string {
	return c.Credentials[provider]
}

// SetCredential stores the API key for a provider.
func (c *Config) SetCredential(provider, secret string) {
	if c.Credentials == nil {
		c.Credentials = map[string]string{}
	}

	c.Credentials[provider] = secret
}

// Models returns the catalog's model list for a provider in stored order.
func (c Config) Models(provider string) []string {
	return c.Providers[provider]
}
