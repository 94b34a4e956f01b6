// Package config loads the community board configuration from the
// environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. COMMUNITY_HTTP_PORT.
// A variable is also read without the prefix and section, e.g. DATABASE_URL.
const Prefix = "COMMUNITY"

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	App           AppConfig           `envconfig:"APP"`
	HTTP          HTTPConfig          `envconfig:"HTTP"`
	Database      DatabaseConfig      `envconfig:"DATABASE"`
	Redis         RedisConfig         `envconfig:"REDIS"`
	Observability ObservabilityConfig `envconfig:"OBSERVABILITY"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `envconfig:"APP_NAME" default:"community-board"`
	Environment Environment `envconfig:"APP_ENV" default:"development"`
	Debug       bool        `envconfig:"APP_DEBUG" default:"false"`
	Version     string      `envconfig:"APP_VERSION" default:"dev"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// HTTPConfig holds the REST server settings.
type HTTPConfig struct {
	Host            string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	EnableCORS      bool          `envconfig:"ENABLE_CORS" default:"true"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimitPerMin int           `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`
}

// DatabaseConfig selects and configures the storage driver.
type DatabaseConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`

	// URL is the PostgreSQL connection string.
	URL      string `envconfig:"DATABASE_URL"`
	MaxConns int32  `envconfig:"MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"MIN_CONNS" default:"2"`

	// SQLitePath is the database file. Empty means in-memory.
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/community.db"`

	// AutoMigrate applies migrations on serve.
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"true"`
}

// RedisConfig configures the optional post cache.
type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	PostTTL  time.Duration `envconfig:"POST_TTL" default:"10m"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads envFiles (missing files are ignored, default ".env") and then
// the process environment. Real environment variables win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.Observability.LogFormat == "" {
		cfg.Observability.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.Observability.LogFormat = "json"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV must be development, staging or production, got %q", c.App.Environment))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_DRIVER must be postgres or sqlite, got %q", c.Database.Driver))
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, "PORT must be 1-65535")
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, "REDIS_HOST is required when the cache is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// HTTPAddr returns the listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
