package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/seasonality/pkg/config"
)

// Client holds the holiday-directory cache connection
// ⭐ SSOT: the Redis connection is only managed here
type Client struct {
	rdb       *redis.Client
	enabled   bool
	addr      string
	keyPrefix string
}

// options maps REDIS_* settings onto go-redis options
func options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		ClientName:   cfg.KeyPrefix,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}
}

// New connects to Redis and pings it. A disabled config yields a no-op client.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{keyPrefix: cfg.Redis.KeyPrefix}, nil
	}

	opts := options(cfg.Redis)
	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s (db %d) unreachable: %w", opts.Addr, opts.DB, err)
	}

	return &Client{
		rdb:       rdb,
		enabled:   true,
		addr:      opts.Addr,
		keyPrefix: cfg.Redis.KeyPrefix,
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled returns whether Redis is enabled
func (c *Client) Enabled() bool {
	return c.enabled
}

// Addr is the host:port the client is connected to
func (c *Client) Addr() string {
	return c.addr
}

// KeyPrefix namespaces cache keys so several deployments can share a database
func (c *Client) KeyPrefix() string {
	return c.keyPrefix
}

// Redis returns the underlying redis client
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
