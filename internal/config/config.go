package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/jobtrawl/")
	v.AddConfigPath("$HOME/.jobtrawl")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("JOBTRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper
// instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 2000)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 500)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 2000)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 500)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 2000)

	// Vertex AI defaults
	v.SetDefault("vertex.project_id", "")
	v.SetDefault("vertex.location", "us-central1")
	v.SetDefault("vertex.model_name", "gemini-1.5-flash")
	v.SetDefault("vertex.max_tokens", 500)
	v.SetDefault("vertex.temperature", 0.1)
	v.SetDefault("vertex.top_p", 0.9)
	v.SetDefault("vertex.max_body_size", 2000)

	// Gate defaults; empty keyword lists mean the built-in lists
	v.SetDefault("gate.job_keywords", []string{})
	v.SetDefault("gate.spam_keywords", []string{})
	v.SetDefault("gate.bypass_domains", []string{})

	// Extractor defaults
	v.SetDefault("extractor.keyword_fallback", false)

	// Score weight defaults
	v.SetDefault("score.oracle_base", 60)
	v.SetDefault("score.fallback_base", 30)
	v.SetDefault("score.company_bonus", 15)
	v.SetDefault("score.role_bonus", 15)
	v.SetDefault("score.status_bonus", 10)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("cache.key_prefix_length", 200)
	v.SetDefault("cache.trim_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/extraction_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/jobtrawl")

	// Repository defaults
	v.SetDefault("repository.type", "sqlite")
	v.SetDefault("repository.sqlite_path", "/data/applications.db")
	v.SetDefault("repository.mysql_dsn", "user:password@tcp(localhost:3306)/jobtrawl")
	v.SetDefault("repository.postgres_dsn", "postgres://localhost:5432/jobtrawl?sslmode=disable")

	// Mailbox defaults
	v.SetDefault("mailbox.type", "imap")
	v.SetDefault("mailbox.host", "")
	v.SetDefault("mailbox.username", "")
	v.SetDefault("mailbox.password", "")
	v.SetDefault("mailbox.folder", "INBOX")
	v.SetDefault("mailbox.use_tls", true)
	v.SetDefault("mailbox.lookback", "720h")
	v.SetDefault("mailbox.mbox_path", "")

	// Sync defaults
	v.SetDefault("sync.interval", "15m")
	v.SetDefault("sync.user_id", "default")
	v.SetDefault("sync.batch_size", 200)

	// SMTP ingest defaults
	v.SetDefault("ingest.enabled", false)
	v.SetDefault("ingest.listen_address", "0.0.0.0:10025")

	// Export defaults
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.file", "applications.csv")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
