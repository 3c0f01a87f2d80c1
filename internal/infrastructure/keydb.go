package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/architeacher/svc-trip-planner/internal/config"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// KeydbClient talks to KeyDB through the Redis protocol.
type KeydbClient struct {
	client *redis.Client
	logger Logger
}

func NewKeyDBClient(cfg config.CacheConfig, logger Logger) *KeydbClient {
	return newKeyDBClient(redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	}), logger)
}

func newKeyDBClient(client *redis.Client, logger Logger) *KeydbClient {
	return &KeydbClient{
		client: client,
		logger: Logger{Logger: logger.With().Str("component", "keydb").Logger()},
	}
}

func (c *KeydbClient) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping keydb: %w", err)
	}

	return nil
}

func (c *KeydbClient) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}

func (c *KeydbClient) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	if err := c.client.Set(ctx, key, value, expiry).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (c *KeydbClient) Delete(ctx context.Context, keys ...string) error {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete %v: %w", keys, err)
	}

	return nil
}

func (c *KeydbClient) Close() error {
	c.logger.Debug().Msg("closing keydb client")

	return c.client.Close()
}
