package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis-backed cache.
type RedisOptions struct {
	Address     string
	DB          int
	TTL         time.Duration
	KeyPrefix   string
	DialTimeout time.Duration
}

// Redis shares cached results between server instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis cache. No connection is made until first use.
func NewRedis(opts RedisOptions) *Redis {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 2 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Address,
		DB:          opts.DB,
		DialTimeout: dialTimeout,
		MaxRetries:  1,
	})
	return &Redis{client: rdb, ttl: opts.TTL, prefix: opts.KeyPrefix}
}

// Get returns the cached value; errors, including redis.Nil, are misses.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores the value with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
