// Package config provides application configuration management using Viper.
// Configuration is loaded from an optional .env file, YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported CMS backends.
const (
	BackendSanity = "sanity"
	BackendNotion = "notion"
)

// Listing serving modes.
const (
	ServeLive   = "live"
	ServeMirror = "mirror"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	CMS        CMSConfig        `mapstructure:"cms"`
	Listing    ListingConfig    `mapstructure:"listing"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Mirror     MirrorConfig     `mapstructure:"mirror"`
	Sync       SyncConfig       `mapstructure:"sync"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Newsletter NewsletterConfig `mapstructure:"newsletter"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string   `mapstructure:"name"`
	Env         string   `mapstructure:"env"` // development, staging, production
	Port        int      `mapstructure:"port"`
	Debug       bool     `mapstructure:"debug"`
	BodyLimit   int      `mapstructure:"body_limit"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	AdminToken  string   `mapstructure:"admin_token"`
}

// CMSConfig selects and configures the upstream content backends.
type CMSConfig struct {
	Backend string       `mapstructure:"backend"` // sanity, notion
	Sanity  SanityConfig `mapstructure:"sanity"`
	Notion  NotionConfig `mapstructure:"notion"`
}

// SanityConfig holds the structured-content backend settings.
type SanityConfig struct {
	Enabled    bool           `mapstructure:"enabled"`
	ProjectID  string         `mapstructure:"project_id"`
	Dataset    string         `mapstructure:"dataset"`
	APIVersion string         `mapstructure:"api_version"`
	Token      string         `mapstructure:"token"`
	UseCDN     bool           `mapstructure:"use_cdn"`
	BaseURL    string         `mapstructure:"base_url"` // overrides the URL derived from project_id
	Client     EndpointConfig `mapstructure:"client"`
}

// NotionConfig holds the workspace-database backend settings.
type NotionConfig struct {
	Enabled    bool           `mapstructure:"enabled"`
	APIKey     string         `mapstructure:"api_key"`
	DatabaseID string         `mapstructure:"database_id"`
	Version    string         `mapstructure:"version"`
	BaseURL    string         `mapstructure:"base_url"`
	Client     EndpointConfig `mapstructure:"client"`
}

// EndpointConfig holds a single upstream HTTP client's configuration.
type EndpointConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// ListingConfig holds page sizes and the serving mode.
type ListingConfig struct {
	ServeFrom        string `mapstructure:"serve_from"` // live, mirror
	ArticlesPageSize int    `mapstructure:"articles_page_size"`
	SearchPageSize   int    `mapstructure:"search_page_size"`
	ToolsPageSize    int    `mapstructure:"tools_page_size"`
	FeaturedLimit    int    `mapstructure:"featured_limit"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// MirrorConfig enables the PostgreSQL content mirror.
type MirrorConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SyncConfig holds background mirror sync settings.
type SyncConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	Release     string  `mapstructure:"release"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for caching and locking.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds candidate cache settings.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Backend       string        `mapstructure:"backend"` // redis, memory
	CandidatesTTL time.Duration `mapstructure:"candidates_ttl"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	MemorySize    int           `mapstructure:"memory_size"`
}

// NewsletterConfig holds newsletter provider settings.
type NewsletterConfig struct {
	Provider  string          `mapstructure:"provider"` // buttondown, none
	BaseURL   string          `mapstructure:"base_url"`
	APIKey    string          `mapstructure:"api_key"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars (including .env) > config file > defaults
func Load(configPath string) (*Config, error) {
	// .env only seeds variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	switch c.CMS.Backend {
	case BackendSanity, BackendNotion:
	default:
		return fmt.Errorf("cms.backend must be %q or %q, got %q", BackendSanity, BackendNotion, c.CMS.Backend)
	}

	switch c.Listing.ServeFrom {
	case ServeLive:
	case ServeMirror:
		if !c.Mirror.Enabled {
			return errors.New("listing.serve_from=mirror requires mirror.enabled")
		}
	default:
		return fmt.Errorf("listing.serve_from must be %q or %q, got %q", ServeLive, ServeMirror, c.Listing.ServeFrom)
	}

	if c.Cache.Enabled && c.Cache.Backend == "redis" && !c.Redis.Enabled {
		return errors.New("cache.backend=redis requires redis.enabled")
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "promptlab-content-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.body_limit", 1024*1024)
	v.SetDefault("app.cors_origins", []string{"*"})
	v.SetDefault("app.admin_token", "")

	// CMS defaults
	v.SetDefault("cms.backend", BackendSanity)

	v.SetDefault("cms.sanity.enabled", true)
	v.SetDefault("cms.sanity.project_id", "")
	v.SetDefault("cms.sanity.dataset", "production")
	v.SetDefault("cms.sanity.api_version", "2024-01-01")
	v.SetDefault("cms.sanity.token", "")
	v.SetDefault("cms.sanity.use_cdn", true)
	v.SetDefault("cms.sanity.base_url", "")
	setEndpointDefaults(v, "cms.sanity.client")

	v.SetDefault("cms.notion.enabled", false)
	v.SetDefault("cms.notion.api_key", "")
	v.SetDefault("cms.notion.database_id", "")
	v.SetDefault("cms.notion.version", "2022-06-28")
	v.SetDefault("cms.notion.base_url", "https://api.notion.com")
	setEndpointDefaults(v, "cms.notion.client")

	// Listing defaults
	v.SetDefault("listing.serve_from", ServeLive)
	v.SetDefault("listing.articles_page_size", 12)
	v.SetDefault("listing.search_page_size", 9)
	v.SetDefault("listing.tools_page_size", 12)
	v.SetDefault("listing.featured_limit", 6)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "promptlab")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Mirror and sync defaults
	v.SetDefault("mirror.enabled", false)
	v.SetDefault("sync.interval", "10m")
	v.SetDefault("sync.on_startup", true)
	v.SetDefault("sync.timeout", "2m")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.candidates_ttl", "60s")
	v.SetDefault("cache.key_prefix", "promptlab")
	v.SetDefault("cache.memory_size", 256)

	// Newsletter defaults
	v.SetDefault("newsletter.provider", "buttondown")
	v.SetDefault("newsletter.base_url", "https://api.buttondown.email")
	v.SetDefault("newsletter.api_key", "")
	v.SetDefault("newsletter.timeout", "10s")
	v.SetDefault("newsletter.rate_limit.rps", 0.2)
	v.SetDefault("newsletter.rate_limit.burst", 3)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func setEndpointDefaults(v *viper.Viper, prefix string) {
	v.SetDefault(prefix+".timeout", "10s")
	v.SetDefault(prefix+".retry.max_attempts", 2)
	v.SetDefault(prefix+".retry.wait_time", "500ms")
	v.SetDefault(prefix+".retry.max_wait_time", "3s")
	v.SetDefault(prefix+".circuit_breaker.max_requests", 3)
	v.SetDefault(prefix+".circuit_breaker.interval", "60s")
	v.SetDefault(prefix+".circuit_breaker.timeout", "30s")
	v.SetDefault(prefix+".circuit_breaker.failure_ratio", 0.5)
}
