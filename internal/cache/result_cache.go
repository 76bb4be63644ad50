// Package cache provides an optional redis-backed cache for pipeline
// outcomes, keyed by the upload's content hash. Every gate is
// deterministic, so re-analyzing identical bytes always yields the same
// verdict and the cached payload can be served as-is.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockiq/backend-go/internal/config"
)

const (
	resultKeyPrefix  = "analysis:result:"
	defaultResultTTL = 5 * time.Minute
)

// ResultCache stores marshaled pipeline outcomes by content hash.
type ResultCache interface {
	Get(ctx context.Context, contentHash string) ([]byte, bool, error)
	Set(ctx context.Context, contentHash string, payload []byte) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

// NewResultCache returns a redis cache when enabled, otherwise a noop.
func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ResultTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultResultTTL
	}

	return &redisResultCache{client: client, ttl: ttl}, nil
}

// NewNoopResultCache returns a cache that stores nothing.
func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func (c *redisResultCache) Get(ctx context.Context, contentHash string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, resultKeyPrefix+contentHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, contentHash string, payload []byte) error {
	if err := c.client.Set(ctx, resultKeyPrefix+contentHash, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *noopResultCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (c *noopResultCache) Set(context.Context, string, []byte) error        { return nil }
