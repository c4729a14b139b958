package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. LEGISAI_MAX_TURNS.
const EnvPrefix = "LEGISAI"

type Config struct {
	// Server
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	APIPrefix   string `mapstructure:"api_prefix"`
	LogLevel    string `mapstructure:"log_level"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Auth
	APIKeyHeader string   `mapstructure:"api_key_header"`
	APIKeys      []string `mapstructure:"api_keys"`
	EnableAuth   bool     `mapstructure:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`

	// AI / LLM
	AnthropicAPIKey     string `mapstructure:"anthropic_api_key"`
	AnthropicBaseURL    string `mapstructure:"anthropic_base_url"` // override for proxies
	Model               string `mapstructure:"model"`
	MaxTokens           int    `mapstructure:"max_tokens"`
	ModelTimeoutSeconds int    `mapstructure:"model_timeout_seconds"`

	// Turn loop
	MaxTurns          int    `mapstructure:"max_turns"`
	WarningMarker     string `mapstructure:"warning_marker"`
	DefaultCongress   int    `mapstructure:"default_congress"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes"`

	// Congress.gov
	CongressAPIKey          string `mapstructure:"congress_api_key"`
	CongressBaseURL         string `mapstructure:"congress_base_url"`
	CongressCacheTTLSeconds int    `mapstructure:"congress_cache_ttl_seconds"`
	ToolTimeoutSeconds      int    `mapstructure:"tool_timeout_seconds"`
	RedisURL                string `mapstructure:"redis_url"`

	// Telemetry sinks, both optional
	PostgresDSN            string   `mapstructure:"postgres_dsn"`
	ElasticsearchAddresses []string `mapstructure:"elasticsearch_addresses"`
	ElasticsearchUser      string   `mapstructure:"elasticsearch_user"`
	ElasticsearchPassword  string   `mapstructure:"elasticsearch_password"`
	ElasticsearchIndex     string   `mapstructure:"elasticsearch_index"`

	// Security
	EnablePIIDetection bool     `mapstructure:"enable_pii_detection"`
	PIIKeywords        []string `mapstructure:"pii_keywords"`
	EnableAuditLogging bool     `mapstructure:"enable_audit_logging"`
}

// Load reads configuration from the file named by LEGISAI_CONFIG (if any)
// and then applies environment overrides.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path falls back
// to LEGISAI_CONFIG.
func LoadFile(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("api_prefix", DefaultAPIPrefix)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("cors_origins", DefaultCORSOrigins)
	v.SetDefault("api_key_header", "X-API-Key")
	v.SetDefault("api_keys", []string{})
	v.SetDefault("enable_auth", true)
	v.SetDefault("rate_limit_per_minute", DefaultRateLimitPerMinute)

	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_base_url", "")
	v.SetDefault("model", DefaultModel)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("model_timeout_seconds", DefaultModelTimeoutSeconds)

	v.SetDefault("max_turns", DefaultMaxTurns)
	v.SetDefault("warning_marker", DefaultWarningMarker)
	v.SetDefault("default_congress", DefaultCongress)
	v.SetDefault("session_ttl_minutes", DefaultSessionTTLMinutes)

	v.SetDefault("congress_api_key", "")
	v.SetDefault("congress_base_url", DefaultCongressBaseURL)
	v.SetDefault("congress_cache_ttl_seconds", DefaultCongressCacheTTLSeconds)
	v.SetDefault("tool_timeout_seconds", DefaultToolTimeoutSeconds)
	v.SetDefault("redis_url", "")

	v.SetDefault("postgres_dsn", "")
	v.SetDefault("elasticsearch_addresses", []string{})
	v.SetDefault("elasticsearch_user", "")
	v.SetDefault("elasticsearch_password", "")
	v.SetDefault("elasticsearch_index", DefaultElasticsearchIndex)

	v.SetDefault("enable_pii_detection", true)
	v.SetDefault("pii_keywords", DefaultPIIKeywords)
	v.SetDefault("enable_audit_logging", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Vendor-conventional names are honoured alongside the prefixed ones.
	_ = v.BindEnv("config", EnvPrefix+"_CONFIG")
	_ = v.BindEnv("anthropic_api_key", EnvPrefix+"_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("anthropic_base_url", EnvPrefix+"_ANTHROPIC_BASE_URL", "ANTHROPIC_BASE_URL")
	_ = v.BindEnv("congress_api_key", EnvPrefix+"_CONGRESS_API_KEY", "CONGRESS_API_KEY")

	return v
}

// Validate rejects settings the turn loop cannot run with.
func (c *Config) Validate() error {
	if c.MaxTurns < 1 {
		return errors.Newf("max_turns must be at least 1, got %d", c.MaxTurns)
	}
	if strings.TrimSpace(c.WarningMarker) == "" {
		return errors.New("warning_marker must not be empty")
	}
	if c.DefaultCongress < 1 {
		return errors.Newf("default_congress must be positive, got %d", c.DefaultCongress)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Newf("invalid port %d", c.Port)
	}
	return nil
}

func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}

func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSeconds) * time.Second
}

func (c *Config) CongressCacheTTL() time.Duration {
	return time.Duration(c.CongressCacheTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// IsDevelopment reports whether human-readable console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == DefaultEnvironment
}
