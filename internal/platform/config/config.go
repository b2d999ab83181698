// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, sync client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Mirrordex sync daemon.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional: when empty the sync layer falls
	// back to per-process in-memory caches.
	RedisURL string `env:"REDIS_URL"`

	// Upstream API endpoints
	MangaDexBaseURL string `env:"MANGADEX_BASE_URL" envDefault:"https://api.mangadex.org"`
	UploadsBaseURL  string `env:"UPLOADS_BASE_URL"  envDefault:"https://uploads.mangadex.org"`

	// UserAgent identifies this daemon to the upstream API.
	UserAgent string `env:"SYNC_USER_AGENT" envDefault:"mirrordex-syncd/0.1"`

	// Languages is the comma-separated list of translation languages
	// chapters are synchronized for.
	Languages string `env:"SYNC_LANGUAGES" envDefault:"vi,en"`

	// CoverCheckpointPath is where the catalog-wide cover crawl persists
	// its resume offset between runs.
	CoverCheckpointPath string `env:"COVER_CHECKPOINT_PATH" envDefault:"./data/cover-crawl.json"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// LanguageList splits the configured language string into clean codes.
func (c *Config) LanguageList() []string {
	parts := strings.Split(c.Languages, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
