package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Extractor and summarizer provider names.
const (
	ProviderFirecrawl   = "firecrawl"
	ProviderJina        = "jina"
	ProviderReadability = "readability"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
)

// Config holds the full application configuration.
type Config struct {
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Summarize SummarizeConfig `yaml:"summarize" mapstructure:"summarize"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FirecrawlConfig holds Firecrawl API settings.
type FirecrawlConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string   `yaml:"key" mapstructure:"key"`
	BaseURL     string   `yaml:"base_url" mapstructure:"base_url"`
	Model       string   `yaml:"model" mapstructure:"model"`
	MaxTokens   int64    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature"`
}

// GeminiConfig holds Gemini API settings. An empty BaseURL uses the SDK default.
type GeminiConfig struct {
	Key             string   `yaml:"key" mapstructure:"key"`
	BaseURL         string   `yaml:"base_url" mapstructure:"base_url"`
	Model           string   `yaml:"model" mapstructure:"model"`
	MaxOutputTokens int64    `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
	Temperature     *float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ExtractConfig selects the content extractor and its directive.
type ExtractConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"`
	Prompt      string `yaml:"prompt" mapstructure:"prompt"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SummarizeConfig selects the summarizer and the default directive.
type SummarizeConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	Tone          string `yaml:"tone" mapstructure:"tone"`
	TemplatesFile string `yaml:"templates_file" mapstructure:"templates_file"`
}

// ServerConfig configures the web server. CORS is off unless CORSOrigins
// lists the browser origins allowed to call the API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// SessionConfig configures the in-memory report store.
type SessionConfig struct {
	DSN        string `yaml:"dsn" mapstructure:"dsn"`
	TTLMinutes int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("session.dsn", "file:leads?mode=memory&cache=shared")
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.timeout_secs", 60)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("extract.provider", ProviderFirecrawl)
	v.SetDefault("extract.prompt", "Extract the homepage content of this SaaS company.")
	v.SetDefault("extract.timeout_secs", 30)
	v.SetDefault("summarize.provider", ProviderAnthropic)
	v.SetDefault("summarize.tone", "default")

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"firecrawl.key", "jina.key",
		"anthropic.key", "anthropic.base_url", "anthropic.temperature",
		"gemini.key", "gemini.base_url", "gemini.max_output_tokens", "gemini.temperature",
		"server.cors_origins", "summarize.templates_file",
	} {
		_ = v.BindEnv(key)
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ExtractorKey returns the trimmed credential of the configured extractor
// provider. The readability extractor needs none.
func (c *Config) ExtractorKey() string {
	switch c.Extract.Provider {
	case ProviderFirecrawl:
		return strings.TrimSpace(c.Firecrawl.Key)
	case ProviderJina:
		return strings.TrimSpace(c.Jina.Key)
	}
	return ""
}

// SummarizerKey returns the trimmed credential of the configured summarizer
// provider.
func (c *Config) SummarizerKey() string {
	switch c.Summarize.Provider {
	case ProviderAnthropic:
		return strings.TrimSpace(c.Anthropic.Key)
	case ProviderGemini:
		return strings.TrimSpace(c.Gemini.Key)
	}
	return ""
}

// Validate checks the settings a command depends on. Credentials are not
// checked here: they may arrive per run from the web form.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Extract.Provider {
	case ProviderFirecrawl, ProviderJina, ProviderReadability:
	default:
		errs = append(errs, fmt.Sprintf("extract.provider %q is not one of firecrawl, jina, readability", c.Extract.Provider))
	}

	switch c.Summarize.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		errs = append(errs, fmt.Sprintf("summarize.provider %q is not one of anthropic, gemini", c.Summarize.Provider))
	}

	if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
