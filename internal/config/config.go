package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	RedisURL string `envconfig:"REDIS_URL" required:"true"`

	// Session token configuration
	Session SessionConfig

	// Identity provider configuration
	Identity IdentityConfig

	// CORS configuration
	CORS CORSConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"require"`
}

// ConnectionString returns the PostgreSQL connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// SessionConfig holds signed session token configuration
type SessionConfig struct {
	SigningSecret string        `envconfig:"SESSION_SIGNING_SECRET" required:"true"`
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	CookieName    string        `envconfig:"SESSION_COOKIE_NAME" default:"ctgold_admin_session"`
}

// MinSecretLength is the floor for the signing secret. Anything shorter is
// treated as a deployment mistake and refused at startup.
const MinSecretLength = 32

// Validate checks the session configuration for values envconfig tags
// cannot express
func (s SessionConfig) Validate() error {
	if len(s.SigningSecret) < MinSecretLength {
		return fmt.Errorf("SESSION_SIGNING_SECRET must be at least %d characters, got %d", MinSecretLength, len(s.SigningSecret))
	}
	if s.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", s.TTL)
	}
	return nil
}

// IdentityConfig holds identity provider configuration
type IdentityConfig struct {
	// Mode selects the provider implementation: "remote" (hosted auth
	// service) or "local" (admins table digests, dev and break-glass).
	Mode     string        `envconfig:"IDENTITY_MODE" default:"remote"`
	TokenURL string        `envconfig:"IDENTITY_TOKEN_URL"`
	ClientID string        `envconfig:"IDENTITY_CLIENT_ID"`
	Timeout  time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"6s"`

	// Email allowlists used for first-login role bootstrap
	SuperAdminEmails string `envconfig:"SUPER_ADMIN_EMAILS"`
	AdminEmails      string `envconfig:"ADMIN_EMAILS"`
}

// Validate checks identity configuration consistency
func (i IdentityConfig) Validate() error {
	switch i.Mode {
	case "remote":
		if i.TokenURL == "" {
			return fmt.Errorf("IDENTITY_TOKEN_URL is required when IDENTITY_MODE=remote")
		}
	case "local":
		// No extra settings needed
	default:
		return fmt.Errorf("IDENTITY_MODE must be \"remote\" or \"local\", got %q", i.Mode)
	}
	return nil
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window          time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"10m"`
	MaxAttempts     int           `envconfig:"RATE_LIMIT_MAX_ATTEMPTS" default:"5"`
	LockoutDuration time.Duration `envconfig:"RATE_LIMIT_LOCKOUT_DURATION" default:"15m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Session.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session configuration: %w", err)
	}
	if err := cfg.Identity.Validate(); err != nil {
		return nil, fmt.Errorf("invalid identity configuration: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
