// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend modes.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"FOUNDATION_DB_PATH" envDefault:"./data/foundation.db"`
	DatabaseURL   string `env:"FOUNDATION_DATABASE_URL"` // Postgres for content tables; sessions stay in SQLite
	SessionSecret string `env:"FOUNDATION_SESSION_SECRET,required"`
	TokenSecret   string `env:"FOUNDATION_TOKEN_SECRET"` // defaults to SessionSecret
	ServerHost    string `env:"FOUNDATION_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FOUNDATION_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FOUNDATION_ENV" envDefault:"development"`
	LogLevel      string `env:"FOUNDATION_LOG_LEVEL" envDefault:"info"`

	// Data backend
	Backend       string        `env:"FOUNDATION_BACKEND" envDefault:"local"`
	RemoteURL     string        `env:"FOUNDATION_REMOTE_URL"`
	RemoteAPIKey  string        `env:"FOUNDATION_REMOTE_API_KEY"`
	RemoteTimeout time.Duration `env:"FOUNDATION_REMOTE_TIMEOUT" envDefault:"15s"`

	// Assistant
	OpenAIAPIKey string `env:"FOUNDATION_OPENAI_API_KEY"`
	OpenAIModel  string `env:"FOUNDATION_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	SupportEmail string `env:"FOUNDATION_SUPPORT_EMAIL" envDefault:"info@abbasshaffifoundation.org"`

	// Sessions and login protection
	SessionLifetime time.Duration `env:"FOUNDATION_SESSION_LIFETIME" envDefault:"24h"`
	RedisURL        string        `env:"FOUNDATION_REDIS_URL"` // optional shared lockout store
	RedisPrefix     string        `env:"FOUNDATION_REDIS_PREFIX" envDefault:"foundation:"`

	// Public rate limits, requests per minute per IP
	ChatRateLimit    int `env:"FOUNDATION_CHAT_RATE_LIMIT" envDefault:"20"`
	ContactRateLimit int `env:"FOUNDATION_CONTACT_RATE_LIMIT" envDefault:"5"`

	// Initial admin, created when admin_users is empty (local backend only)
	AdminEmail    string `env:"FOUNDATION_ADMIN_EMAIL"`
	AdminPassword string `env:"FOUNDATION_ADMIN_PASSWORD"`
	AdminName     string `env:"FOUNDATION_ADMIN_NAME" envDefault:"Administrator"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// IsRemote reports whether the hosted backend is used.
func (c Config) IsRemote() bool {
	return c.Backend == BackendRemote
}

// UsePostgres reports whether content tables live in PostgreSQL.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// UseRedis reports whether login lockouts are shared through Redis.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// AssistantEnabled reports whether the local assistant can answer.
func (c Config) AssistantEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// SeedAdmin reports whether an initial admin should be created.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// SigningSecret returns the secret for operator tokens.
func (c Config) SigningSecret() string {
	if c.TokenSecret != "" {
		return c.TokenSecret
	}
	return c.SessionSecret
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FOUNDATION_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("FOUNDATION_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak || c.TokenSecret == weak {
			return errors.New("FOUNDATION_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}
	if c.TokenSecret != "" && len(c.TokenSecret) < MinSessionSecretLength {
		return fmt.Errorf("FOUNDATION_TOKEN_SECRET must be at least %d bytes long", MinSessionSecretLength)
	}

	switch c.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.RemoteURL == "" || c.RemoteAPIKey == "" {
			return errors.New("FOUNDATION_REMOTE_URL and FOUNDATION_REMOTE_API_KEY are required for the remote backend")
		}
	default:
		return fmt.Errorf("FOUNDATION_BACKEND must be %q or %q, got %q", BackendLocal, BackendRemote, c.Backend)
	}

	if c.SessionLifetime <= 0 {
		return errors.New("FOUNDATION_SESSION_LIFETIME must be positive")
	}
	if c.ChatRateLimit <= 0 || c.ContactRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.AdminPassword != "" && len(c.AdminPassword) < 8 {
		return errors.New("FOUNDATION_ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
