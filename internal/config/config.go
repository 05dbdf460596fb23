// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// ErrNoIdentityResolver is returned when the search gate is enabled but neither
// a JWT secret nor an identity service URL is configured.
var ErrNoIdentityResolver = errors.New("search auth required but no AUTH_JWT_SECRET or AUTH_SERVICE_URL configured")

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Upstream travel-data provider (Amadeus)
	AmadeusAPIKey    string        `env:"AMADEUS_API_KEY"`
	AmadeusAPISecret string        `env:"AMADEUS_API_SECRET"`
	AmadeusBaseURL   string        `env:"AMADEUS_BASE_URL" envDefault:"https://test.api.amadeus.com"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Request gate (identity service)
	SearchAuthRequired bool   `env:"SEARCH_AUTH_REQUIRED" envDefault:"true"`
	AuthJWTSecret      string `env:"AUTH_JWT_SECRET"`
	AuthServiceURL     string `env:"AUTH_SERVICE_URL"`
	AuthServiceAPIKey  string `env:"AUTH_SERVICE_API_KEY"`

	// Argon2id hash of the key callers must present on internal endpoints.
	// Empty leaves internal endpoints open.
	InternalKeyHash string `env:"INTERNAL_KEY_HASH"`

	// Account storage. Routes backed by a store are only mounted when it is configured.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 64KB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasUpstreamCredentials reports whether both Amadeus credentials are set.
func (c *Config) HasUpstreamCredentials() bool {
	return c.AmadeusAPIKey != "" && c.AmadeusAPISecret != ""
}

// HasIdentityResolver reports whether the request gate can resolve callers.
func (c *Config) HasIdentityResolver() bool {
	return c.AuthJWTSecret != "" || c.AuthServiceURL != ""
}

// Validate checks cross-field rules that struct tags cannot express.
// Missing upstream credentials are not an error here: the broker reports them
// per request so the public search endpoint can still degrade gracefully.
func (c *Config) Validate() error {
	if c.SearchAuthRequired && !c.HasIdentityResolver() {
		return ErrNoIdentityResolver
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// Load parses environment variables and validates the result.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse reads the configuration without running Validate. Tools that only
// need part of it use Parse so unrelated rules do not block them.
// In development a .env file in the working directory is read first when present;
// variables already set in the environment win.
func Parse() (*Config, error) {
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "development" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
