package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp switches to an empty directory so no config.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Server.CORSOrigins, "CORS is opt-in")
	assert.Equal(t, "file:leads?mode=memory&cache=shared", cfg.Session.DSN)
	assert.Equal(t, 60, cfg.Session.TTLMinutes)
	assert.Equal(t, "https://api.firecrawl.dev/v1", cfg.Firecrawl.BaseURL)
	assert.Equal(t, 60, cfg.Firecrawl.TimeoutSecs)
	assert.Equal(t, "https://r.jina.ai", cfg.Jina.BaseURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Empty(t, cfg.Gemini.BaseURL)
	assert.Nil(t, cfg.Anthropic.Temperature)
	assert.Nil(t, cfg.Gemini.Temperature)
	assert.Equal(t, ProviderFirecrawl, cfg.Extract.Provider)
	assert.Equal(t, "Extract the homepage content of this SaaS company.", cfg.Extract.Prompt)
	assert.Equal(t, ProviderAnthropic, cfg.Summarize.Provider)
	assert.Equal(t, "default", cfg.Summarize.Tone)
	assert.Empty(t, cfg.Firecrawl.Key)
	assert.Empty(t, cfg.Anthropic.Key)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
extract:
  provider: jina
summarize:
  provider: gemini
  tone: salesy
gemini:
  key: g-key
  temperature: 0.4
  max_output_tokens: 300
server:
  port: 9090
  cors_origins:
    - https://crm.example.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ProviderJina, cfg.Extract.Provider)
	assert.Equal(t, ProviderGemini, cfg.Summarize.Provider)
	assert.Equal(t, "salesy", cfg.Summarize.Tone)
	assert.Equal(t, "g-key", cfg.SummarizerKey())
	require.NotNil(t, cfg.Gemini.Temperature)
	assert.InDelta(t, 0.4, *cfg.Gemini.Temperature, 0.0001)
	assert.Equal(t, int64(300), cfg.Gemini.MaxOutputTokens)
	assert.Equal(t, []string{"https://crm.example.com"}, cfg.Server.CORSOrigins)
	// Defaults still apply for unset values
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
summarize:
  tone: concise
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("LEADS_LOG_LEVEL", "warn")
	t.Setenv("LEADS_SUMMARIZE_TONE", "technical")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "technical", cfg.Summarize.Tone)
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LEADS_FIRECRAWL_KEY", "fc-123\n")
	t.Setenv("LEADS_ANTHROPIC_KEY", "  sk-ant-123")
	t.Setenv("LEADS_ANTHROPIC_TEMPERATURE", "0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fc-123", cfg.ExtractorKey())
	assert.Equal(t, "sk-ant-123", cfg.SummarizerKey())
	require.NotNil(t, cfg.Anthropic.Temperature)
	assert.InDelta(t, 0.2, *cfg.Anthropic.Temperature, 0.0001)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestProviderKeys(t *testing.T) {
	cfg := &Config{
		Firecrawl: FirecrawlConfig{Key: "fc "},
		Jina:      JinaConfig{Key: "jn"},
		Anthropic: AnthropicConfig{Key: "\tan"},
		Gemini:    GeminiConfig{Key: "gm"},
	}

	tests := []struct {
		extractor, summarizer string
		wantExtract, wantSum  string
	}{
		{ProviderFirecrawl, ProviderAnthropic, "fc", "an"},
		{ProviderJina, ProviderGemini, "jn", "gm"},
		{ProviderReadability, ProviderAnthropic, "", "an"},
		{"bogus", "bogus", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.extractor+"/"+tt.summarizer, func(t *testing.T) {
			cfg.Extract.Provider = tt.extractor
			cfg.Summarize.Provider = tt.summarizer
			assert.Equal(t, tt.wantExtract, cfg.ExtractorKey())
			assert.Equal(t, tt.wantSum, cfg.SummarizerKey())
		})
	}
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Extract.Provider = ProviderFirecrawl
	cfg.Summarize.Provider = ProviderAnthropic
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("enrich"))
	assert.NoError(t, validDefaults().Validate("serve"))
}

func TestValidate_UnknownProviders(t *testing.T) {
	cfg := validDefaults()
	cfg.Extract.Provider = "scrapy"
	cfg.Summarize.Provider = "openai"

	err := cfg.Validate("enrich")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `extract.provider "scrapy"`)
	assert.Contains(t, err.Error(), `summarize.provider "openai"`)
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")

	// Port only matters when serving.
	assert.NoError(t, cfg.Validate("enrich"))
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
