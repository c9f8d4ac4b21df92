package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL is the Redis connection URL. When set, a Redis cache
	// is created; otherwise an in-memory cache is used.
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited).
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup.
	CleanupInterval time.Duration

	// FallbackToMemory falls back to an in-memory cache when Redis
	// is configured but unreachable, instead of returning an error.
	FallbackToMemory bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:           "pagecore:",
		DefaultTTL:       time.Hour,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// New creates a cache based on the provided configuration.
func New(cfg Config) (Cacher, error) {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		c, err := NewRedisCache(opts)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return c, nil
		}
		if !cfg.FallbackToMemory {
			return nil, err
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}

// NewDefault creates a cache with default configuration.
func NewDefault() Cacher {
	c, _ := New(DefaultConfig())
	return c
}
