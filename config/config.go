package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the content agent.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Tools     ToolsConfig     `mapstructure:"tools"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// LLMConfig describes the model backend. Type "openai" talks to the hosted
// API; "local" talks to any OpenAI-compatible endpoint at BaseURL.
type LLMConfig struct {
	Type        string        `mapstructure:"type"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
}

// AgentConfig bounds the orchestration loop and names the session control
// words.
type AgentConfig struct {
	MaxSteps   int      `mapstructure:"max_steps"`
	ResetWords []string `mapstructure:"reset_words"`
	ExitWords  []string `mapstructure:"exit_words"`
}

// ToolsConfig carries per-tool limits and credentials.
type ToolsConfig struct {
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	FetchMaxChars int           `mapstructure:"fetch_max_chars"`
	FetcherType   string        `mapstructure:"fetcher_type"` // http or chromedp
	FileMaxChars  int           `mapstructure:"file_max_chars"`
	FileDebug     bool          `mapstructure:"file_debug"`
	GoogleCSEKey  string        `mapstructure:"google_cse_api_key"`
	GoogleCSEID   string        `mapstructure:"google_cse_id"`
	YouTubeAPIKey string        `mapstructure:"youtube_api_key"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// TelemetryConfig controls the metrics listener.
type TelemetryConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// Validate rejects configurations the agent cannot run with.
func (c *Config) Validate() error {
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("agent.max_steps must be > 0")
	}
	if c.LLM.Type != "openai" && c.LLM.Type != "local" {
		return fmt.Errorf("llm.type must be openai or local, got %q", c.LLM.Type)
	}
	if c.LLM.Type == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required when llm.type is openai (set OPENAI_API_KEY)")
	}
	if c.Telemetry.Enabled && c.Telemetry.MetricsPort <= 0 {
		return fmt.Errorf("telemetry.metrics_port must be > 0 when telemetry is enabled")
	}
	return nil
}

// LoadConfig reads configuration from an optional file path plus environment
// variables and returns the merged result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("llm.type", "local")
	v.SetDefault("llm.base_url", "http://localhost:1234/v1")
	v.SetDefault("llm.model", "qwen3-4b")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", 500*time.Millisecond)
	v.SetDefault("agent.max_steps", 8)
	v.SetDefault("agent.reset_words", []string{"reset", "clear", "new"})
	v.SetDefault("agent.exit_words", []string{"exit", "quit", "bye"})
	v.SetDefault("tools.fetch_timeout", 20*time.Second)
	v.SetDefault("tools.fetch_max_chars", 6000)
	v.SetDefault("tools.fetcher_type", "http")
	v.SetDefault("tools.file_max_chars", 6000)
	v.SetDefault("tools.file_debug", false)
	v.SetDefault("tools.user_agent", "contentagent/1.0 (+https://localhost)")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.metrics_port", 9091)

	// Credentials come from the environment unless the file overrides them.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.base_url", "LOCAL_LLM_BASE_URL")
	_ = v.BindEnv("llm.model", "LOCAL_LLM_MODEL")
	_ = v.BindEnv("llm.type", "LLM_TYPE")
	_ = v.BindEnv("tools.google_cse_api_key", "GOOGLE_CSE_API_KEY")
	_ = v.BindEnv("tools.google_cse_id", "GOOGLE_CSE_ID")
	_ = v.BindEnv("tools.youtube_api_key", "YOUTUBE_API_KEY")
	_ = v.BindEnv("tools.file_debug", "READ_FILE_DEBUG")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			// No file is fine; defaults plus env cover everything.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
