// Package cache stores serialized calculation results keyed by their inputs.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/constants"
)

// Cache is a string key/value store with best-effort semantics: a Get that
// fails for any reason is reported as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Config selects and configures a cache backend.
type Config struct {
	Backend      string `yaml:"backend"` // memory, redis, none
	TTL          string `yaml:"ttl"`
	RedisAddress string `yaml:"redisAddress"`
	RedisDB      int    `yaml:"redisDB"`
	KeyPrefix    string `yaml:"keyPrefix"`
}

// New builds the configured backend.
func New(cfg Config) (Cache, error) {
	ttlStr := strings.TrimSpace(cfg.TTL)
	if ttlStr == "" {
		ttlStr = constants.DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid cache ttl %q: %w", cfg.TTL, err)
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = constants.DefaultCacheBackend
	}

	switch backend {
	case "memory":
		return NewMemory(ttl), nil
	case "redis":
		if cfg.RedisAddress == "" {
			return nil, fmt.Errorf("redis cache requires redisAddress")
		}
		return NewRedis(RedisOptions{
			Address:   cfg.RedisAddress,
			DB:        cfg.RedisDB,
			TTL:       ttl,
			KeyPrefix: cfg.KeyPrefix,
		}), nil
	case "none":
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
}

// Noop never stores anything.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) (string, bool) { return "", false }

// Set discards the value.
func (Noop) Set(context.Context, string, string) error { return nil }
