package config

import (
	"fmt"
	"time"
)

// CacheConfig configures the optional Redis cache.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

// NewCacheConfig reads REDIS_ADDR (empty disables caching), REDIS_PASSWORD,
// REDIS_DB and STATS_CACHE_TTL (default 5m).
func NewCacheConfig() (*CacheConfig, error) {
	db, err := envInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ttl, err := envDuration("STATS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	if ttl < 0 {
		return nil, fmt.Errorf("STATS_CACHE_TTL cannot be negative, got: %s", ttl)
	}
	return &CacheConfig{
		Addr:     envOr("REDIS_ADDR", ""),
		Password: envOr("REDIS_PASSWORD", ""),
		DB:       db,
		StatsTTL: ttl,
	}, nil
}

// Enabled reports whether a Redis address is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Addr != ""
}
