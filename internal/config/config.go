// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	BackendURL    string `env:"ISBG_BACKEND_URL,required"` // Base URL of the content/auth backend, e.g. https://api.example.com
	SessionSecret string `env:"ISBG_SESSION_SECRET,required"`
	DBPath        string `env:"ISBG_DB_PATH" envDefault:"./data/isbguide.db"`
	ServerHost    string `env:"ISBG_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ISBG_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ISBG_ENV" envDefault:"development"`
	LogLevel      string `env:"ISBG_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"ISBG_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"ISBG_CACHE_PREFIX" envDefault:"isbg:"`   // Redis key prefix
	CacheTTL     int    `env:"ISBG_CACHE_TTL" envDefault:"300"`        // Cached content TTL in seconds
	CacheMaxSize int    `env:"ISBG_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Content refresh configuration
	RefreshSpec string `env:"ISBG_REFRESH_SPEC" envDefault:"*/5 * * * *"` // Cron spec for background content refresh
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// The backend URL must parse and carry a scheme; everything the client
	// shows comes from it.
	u, err := url.Parse(cfg.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ISBG_BACKEND_URL %q is not an absolute URL", cfg.BackendURL)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ISBG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("ISBG_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ISBG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
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
