package memo

import (
	"net/http"
	"sync"

	"github.com/gijiroku/memogen/pkg/providers/anthropic"
	"github.com/gijiroku/memogen/pkg/providers/gemini"
	"github.com/gijiroku/memogen/pkg/providers/openai"
	"github.com/gijiroku/memogen/pkg/providers/provider"
)

// ProviderConfig is what a factory receives to build an adapter.
type ProviderConfig struct {
	APIKey  string
	BaseURL string       // Empty selects the provider's public endpoint.
	Client  *http.Client // Nil selects the shared default client.
}

// ProviderFactory creates a Generator adapter from a ProviderConfig.
type ProviderFactory func(cfg ProviderConfig) (provider.Generator, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["openai"] = newOpenAI
		factories["anthropic"] = newAnthropic
		factories["google"] = newGemini
	})
}

// RegisterProvider registers a factory under the given provider name. It can
// be called before New to extend generation with additional providers;
// registering a built-in name replaces it. Safe for concurrent use.
func RegisterProvider(name string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[name] = factory
}

// getFactory returns the factory for the given provider name.
func getFactory(name string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[name]
	return f, ok
}

func newOpenAI(cfg ProviderConfig) (provider.Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openai.DefaultBaseURL
	}

	return openai.New(baseURL, cfg.APIKey, cfg.Client), nil
}

func newAnthropic(cfg ProviderConfig) (provider.Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropic.DefaultBaseURL
	}

	return anthropic.New(baseURL, cfg.APIKey, cfg.Client), nil
}

func newGemini(cfg ProviderConfig) (provider.Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = gemini.DefaultBaseURL
	}

	return gemini.New(baseURL, cfg.APIKey, cfg.Client), nil
}
