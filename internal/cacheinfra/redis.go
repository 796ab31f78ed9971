// Package cacheinfra provides the concrete cache.Backend implementations:
// a Redis client for shared deployments and a per-key-TTL in-memory cache
// for tests and single-process runs. Both report real transport errors;
// the fail-soft behaviour belongs to cache.Store.
package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/digitallabs/icp-engine/cache"
)

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// DialTimeout bounds connection establishment; read/write timeouts bound
	// individual commands so a slow cache cannot stall a request.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns settings suitable for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
}

// RedisBackend implements cache.Backend over go-redis.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects a backend using cfg. The connection is lazy;
// failures surface per-command and are absorbed by the fail-soft store.
func NewRedisBackend(cfg RedisConfig) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return &RedisBackend{client: client}
}

// NewRedisBackendFromClient wraps an existing client, sharing its pool.
func NewRedisBackendFromClient(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

func (b *RedisBackend) Close() error { return b.client.Close() }

var _ cache.Backend = (*RedisBackend)(nil)
