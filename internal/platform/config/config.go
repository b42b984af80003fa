// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

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
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Vizit API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) — used as the mail outbox queue.
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing secrets. The access and refresh secrets MUST differ so
	// that compromise of one cannot forge the other token type.
	JWTSecret        string `env:"JWT_SECRET,required"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET,required"`

	// Token lifetimes in <integer><unit> form (unit: s, m, h, d).
	JWTExpiresIn        string `env:"JWT_EXPIRES_IN"         envDefault:"15m"`
	JWTRefreshExpiresIn string `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"7d"`

	// BcryptCost is the work factor for password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Feature flags
	RegistrationEnabled       bool `env:"REGISTRATION_ENABLED"        envDefault:"true"`
	EmailVerificationRequired bool `env:"EMAIL_VERIFICATION_REQUIRED" envDefault:"false"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
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

	// The two signing secrets must never be interchangeable.
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("config: JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
