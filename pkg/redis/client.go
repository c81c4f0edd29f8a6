package redis

import (
	"context"
	"time"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the Redis connection. When Redis is disabled or unreachable
// the wrapper degrades to a no-op and callers fall through to the database.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// NewClient creates a Redis client from configuration
func NewClient(cfg *config.Config) *Client {
	if !cfg.Redis.Enabled {
		logger.GetLogger().Info("Redis is disabled, caching will be skipped")
		return &Client{enabled: false}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.GetLogger().Warn("Redis connection failed, caching will be skipped",
			zap.String("addr", cfg.RedisAddress()),
			zap.Error(err),
		)
		return &Client{enabled: false}
	}

	logger.GetLogger().Info("Redis connection established",
		zap.String("addr", cfg.RedisAddress()),
		zap.Int("db", cfg.Redis.Database),
	)

	return &Client{rdb: rdb, enabled: true}
}

// Enabled reports whether the cache is usable
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Get retrieves a value by key. Returns redis.Nil error when missing.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if !c.Enabled() {
		return "", redis.Nil
	}
	return c.rdb.Get(ctx, key).Result()
}

// Set stores a value with a TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete removes one or more keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close shuts down the connection pool
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// IsCacheMiss reports whether an error is a cache miss
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
