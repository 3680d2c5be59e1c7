package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const minCredentialSecretLength = 32

type Config struct {
	Port           string `env:"PORT" default:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	Postgres PostgresConfig
	Auth     AuthConfig
	X        XConfig
	Agent    AgentConfig
	Log      LogConfig
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"SESSION_TOKEN_TTL" default:"168h"` // 7 days
	// CredentialSecret is the passphrase the credential cipher key is derived
	// from. Validated once here at startup, not lazily per call.
	CredentialSecret string `env:"X_CREDENTIAL_SECRET"`
	CookieSecure     bool   `env:"AUTH_COOKIE_SECURE" default:"false"`
}

type XConfig struct {
	TokenURL   string `env:"X_TOKEN_URL" default:"https://api.x.com/2/oauth2/token"`
	PublishURL string `env:"X_PUBLISH_URL" default:"https://api.x.com/2/tweets"`
}

type AgentConfig struct {
	BaseURL string `env:"AGENT_URL" default:"http://localhost:8000"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.Postgres.DatabaseURL,
		"JWT_SECRET":   cfg.Auth.JWTSecret,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if len(cfg.Auth.CredentialSecret) < minCredentialSecretLength {
		return errors.New("X_CREDENTIAL_SECRET must be set (min 32 chars) to store X API keys securely")
	}

	return nil
}

// AllowedOriginList splits the comma-separated ALLOWED_ORIGINS value.
func (c *Config) AllowedOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
