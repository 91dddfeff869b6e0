// Package config loads service configuration from defaults, an optional
// YAML file and BILLCAL_* environment variables, in that order.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/mmynk/billcal/internal/validation"
)

// Config is the complete service configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Auth        AuthConfig        `koanf:"auth"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Matomo      MatomoConfig      `koanf:"matomo"`
	Log         LogConfig         `koanf:"log"`
}

// ServerConfig controls the HTTP listener and the routes mounted on it.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// StaticDir holds the pre-built frontend. Empty disables page routes.
	StaticDir string `koanf:"static_dir"`

	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow and client IP on /api/*.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig selects and tunes the storage backend.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"oneof=sqlite postgres"`

	// Path is the SQLite database file.
	Path string `koanf:"path" validate:"required_if=Driver sqlite"`

	// URL is the PostgreSQL connection string.
	URL string `koanf:"url" validate:"required_if=Driver postgres"`

	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
}

// AuthConfig configures JWT sessions.
type AuthConfig struct {
	JWTSecret     string        `koanf:"jwt_secret" validate:"min=16"`
	TokenDuration time.Duration `koanf:"token_duration" validate:"gt=0"`
}

// CredentialsConfig holds the secret bill credentials are encrypted with.
// Changing it makes previously stored credentials unreadable.
type CredentialsConfig struct {
	Secret string `koanf:"secret" validate:"min=16"`
}

// MatomoConfig points at the analytics instance. An empty URL disables the
// /api/matomo and /api/recommendations endpoints.
type MatomoConfig struct {
	URL    string `koanf:"url" validate:"omitempty,http_url"`
	Token  string `koanf:"token" validate:"required_with=URL"`
	SiteID string `koanf:"site_id" validate:"required_with=URL"`
	Period string `koanf:"period" validate:"oneof=day week month year range"`
	Date   string `koanf:"date" validate:"required"`

	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RatePerSecond and Burst bound outbound calls to Matomo.
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int     `koanf:"burst" validate:"min=1"`

	// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// Enabled reports whether a Matomo instance is configured.
func (m MatomoConfig) Enabled() bool {
	return m.URL != ""
}

// LogConfig configures the slog default logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
