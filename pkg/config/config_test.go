package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "provider": "anthropic",
  "credentials": {"anthropic": "sk-ant-test"},
  "model": "claude-3-haiku-20240307",
  "temperature": 0.5,
  "max_tokens": 800,
  "template": "Notes:\n\n{transcription}",
  "providers": {"anthropic": ["claude-3-haiku-20240307"]}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	cfg := Load(writeConfig(t, sampleJSON))

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant-test", cfg.Credential("anthropic"))
	assert.Equal(t, "claude-3-haiku-20240307", cfg.Model)
	assert.Equal(t, 0.5, cfg.Temperature)
	assert.Equal(t, 800, cfg.MaxTokens)
	assert.Equal(t, "Notes:\n\n{transcription}", cfg.Template)
	assert.Equal(t, []string{"claude-3-haiku-20240307"}, cfg.Models("anthropic"))
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "no-such-config.json"))

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Empty(t, cfg.Credentials)
}

func TestLoad_MalformedJSONReturnsDefaults(t *testing.T) {
	cfg := Load(writeConfig(t, `{"provider": "anthropic",`))

	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialDocumentKeepsDefaults(t *testing.T) {
	cfg := Load(writeConfig(t, `{"model": "gpt-4o"}`))

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, DefaultProvider, cfg.Provider)
	assert.Equal(t, DefaultTemperature, cfg.Temperature)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultTemplate, cfg.Template)
}

func TestLoad_ExpandsCredentialEnv(t *testing.T) {
	t.Setenv("MEMOGEN_TEST_API_KEY", "sk-from-env")

	cfg := Load(writeConfig(t, `{"credentials": {"openai": "${MEMOGEN_TEST_API_KEY}"}}`))

	assert.Equal(t, "sk-from-env", cfg.Credential("openai"))
}

func TestLoad_UnsetEnvVarExpandsToEmpty(t *testing.T) {
	cfg := Load(writeConfig(t, `{"credentials": {"openai": "${MEMOGEN_TEST_UNSET_VAR_12345}"}}`))

	assert.Empty(t, cfg.Credential("openai"))
}

func TestLoad_ExpandsCredentialsOnly(t *testing.T) {
	t.Setenv("MEMOGEN_TEST_API_KEY", "sk-from-env")

	cfg := Load(writeConfig(t, `{
  "credentials": {"openai": "$MEMOGEN_TEST_API_KEY"},
  "template": "Cost is $MEMOGEN_TEST_API_KEY per {transcription}"
}`))

	assert.Equal(t, "sk-from-env", cfg.Credential("openai"))
	assert.Equal(t, "Cost is $MEMOGEN_TEST_API_KEY per {transcription}", cfg.Template)
}

func TestLoadRaw_PreservesEnvReferences(t *testing.T) {
	t.Setenv("MEMOGEN_TEST_API_KEY", "sk-from-env")

	cfg := LoadRaw(writeConfig(t, `{"credentials": {"openai": "${MEMOGEN_TEST_API_KEY}"}}`))

	assert.Equal(t, "${MEMOGEN_TEST_API_KEY}", cfg.Credential("openai"))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Provider = "google"
	cfg.SetCredential("google", "g-key")
	cfg.SetCredential("openai", "o-key")
	cfg.Model = "gemini-pro"
	cfg.Temperature = 0.7
	cfg.MaxTokens = 2000
	cfg.Template = "Minutes:\n{transcription}"
	cfg.Providers = map[string][]string{
		"openai": {"gpt-4o-mini", "gpt-3.5-turbo"},
		"google": {"gemini-pro"},
	}

	require.NoError(t, cfg.Save(path))
	assert.Equal(t, cfg, Load(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
	assert.Contains(t, string(data), "  \"provider\": \"google\"")
}

func TestSave_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.json")

	require.NoError(t, Default().Save(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_ReportsWriteFailure(t *testing.T) {
	// A directory at the target path makes the write fail.
	assert.Error(t, Default().Save(t.TempDir()))
}

func TestSetTemperature_Clamps(t *testing.T) {
	var cfg Config

	cfg.SetTemperature(-5)
	assert.Equal(t, 0.0, cfg.Temperature)

	cfg.SetTemperature(1.7)
	assert.Equal(t, 1.0, cfg.Temperature)

	cfg.SetTemperature(0.4)
	assert.Equal(t, 0.4, cfg.Temperature)
}

func TestSetMaxTokens_Clamps(t *testing.T) {
	var cfg Config

	cfg.SetMaxTokens(0)
	assert.Equal(t, 1, cfg.MaxTokens)

	cfg.SetMaxTokens(-10)
	assert.Equal(t, 1, cfg.MaxTokens)

	cfg.SetMaxTokens(500)
	assert.Equal(t, 500, cfg.MaxTokens)
}

func TestSetProvider_AcceptsUnknownNames(t *testing.T) {
	cfg := Config{Providers: map[string][]string{"openai": {"gpt-4o-mini"}}}

	assert.True(t, cfg.SetProvider("openai"))
	assert.False(t, cfg.SetProvider("mistral"))
	assert.Equal(t, "mistral", cfg.Provider, "unknown names are kept, the check is advisory")
}

func TestSetModel_AcceptsUnknownNames(t *testing.T) {
	cfg := Config{
		Provider:  "openai",
		Providers: map[string][]string{"openai": {"gpt-4o-mini"}},
	}

	assert.True(t, cfg.SetModel("gpt-4o-mini"))
	assert.False(t, cfg.SetModel("gpt-9"))
	assert.Equal(t, "gpt-9", cfg.Model)
}

func TestSetModel_ChecksActiveProviderList(t *testing.T) {
	cfg := Config{
		Provider: "google",
		Providers: map[string][]string{
			"openai": {"gpt-4o-mini"},
			"google": {"gemini-pro"},
		},
	}

	assert.False(t, cfg.SetModel("gpt-4o-mini"))
	assert.True(t, cfg.SetModel("gemini-pro"))
}

func TestCredentials_TolerateNilMap(t *testing.T) {
	var cfg Config

	assert.Empty(t, cfg.Credential("openai"))

	cfg.SetCredential("openai", "sk-test")
	assert.Equal(t, "sk-test", cfg.Credential("openai"))
}

func TestModels_PreservesStoredOrder(t *testing.T) {
	cfg := Config{Providers: map[string][]string{
		"openai": {"gpt-4o-mini", "gpt-3.5-turbo", "gpt-4o"},
	}}

	assert.Equal(t, []string{"gpt-4o-mini", "gpt-3.5-turbo", "gpt-4o"}, cfg.Models("openai"))
	assert.Nil(t, cfg.Models("anthropic"))
}
