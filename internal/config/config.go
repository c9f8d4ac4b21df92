// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the engine configuration from environment variables.
package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

// Config holds the engine configuration loaded from environment variables.
type Config struct {
	DBPath   string `env:"PAGECORE_DB_PATH" envDefault:"./data/pagecore.db"`
	LogLevel string `env:"PAGECORE_LOG_LEVEL" envDefault:"info"`

	// Languages is the ordered list of supported content languages.
	// The order defines fallback priority for content reads.
	Languages       []string `env:"PAGECORE_LANGUAGES" envSeparator:"," envDefault:"en"`
	DefaultLanguage string   `env:"PAGECORE_DEFAULT_LANGUAGE" envDefault:"en"`

	// Publication date enforcement
	ShowStartDate bool `env:"PAGECORE_SHOW_START_DATE" envDefault:"false"` // publication_date gates visibility
	ShowEndDate   bool `env:"PAGECORE_SHOW_END_DATE" envDefault:"false"`   // publication_end_date expires pages

	// RevisionDepth is the number of content versions retained per
	// (page, language, type). Zero keeps every version.
	RevisionDepth int `env:"PAGECORE_REVISION_DEPTH" envDefault:"0"`

	// Site scoping (optional feature). When UseSiteID is enabled, slug
	// uniqueness and path resolution are restricted to pages attached to
	// the configured site.
	UseSiteID bool  `env:"PAGECORE_USE_SITE_ID" envDefault:"false"`
	SiteID    int64 `env:"PAGECORE_SITE_ID" envDefault:"1"`

	// HideRootSlug makes the first root page reachable at the empty path
	// instead of its own slug.
	HideRootSlug bool `env:"PAGECORE_HIDE_ROOT_SLUG" envDefault:"false"`

	// DefaultTemplate is used for pages without a template of their own
	// when no ancestor defines one either.
	DefaultTemplate string `env:"PAGECORE_DEFAULT_TEMPLATE" envDefault:"index"`

	// Cache configuration
	RedisURL     string `env:"PAGECORE_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"PAGECORE_CACHE_PREFIX" envDefault:"pagecore:"` // Redis key prefix
	CacheTTL     int    `env:"PAGECORE_CACHE_TTL" envDefault:"3600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"PAGECORE_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// Seeding configuration
	DoSeed bool `env:"PAGECORE_DO_SEED" envDefault:"false"` // Enable demo tree seeding
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("PAGECORE_LANGUAGES must list at least one language")
	}
	if !slices.Contains(cfg.Languages, cfg.DefaultLanguage) {
		return nil, fmt.Errorf("PAGECORE_DEFAULT_LANGUAGE %q is not in PAGECORE_LANGUAGES %v",
			cfg.DefaultLanguage, cfg.Languages)
	}
	if cfg.RevisionDepth < 0 {
		return nil, fmt.Errorf("PAGECORE_REVISION_DEPTH must not be negative, got %d", cfg.RevisionDepth)
	}

	return cfg, nil
}

// Default returns a configuration with all default values, without
// consulting the environment. Used by tests and embedding callers that
// configure the engine programmatically.
func Default() *Config {
	return &Config{
		DBPath:          "./data/pagecore.db",
		LogLevel:        "info",
		Languages:       []string{"en"},
		DefaultLanguage: "en",
		DefaultTemplate: "index",
		CachePrefix:     "pagecore:",
		CacheTTL:        3600,
		CacheMaxSize:    10000,
		SiteID:          1,
	}
}
