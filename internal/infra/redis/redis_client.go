package redis

import (
	"context"
	"time"

	"commander-deck-service/internal/config"

	"github.com/go-redis/redis/v8"
)

// Client is a thin wrapper over go-redis exposing just what the job store
// needs.
type Client struct {
	cli *redis.Client
}

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{cli: c}, nil
}

func (c *Client) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.cli.Get(ctx, key).Result()
}

func (c *Client) RPush(ctx context.Context, key string, value interface{}) error {
	return c.cli.RPush(ctx, key, value).Err()
}

func (c *Client) LPop(ctx context.Context, key string) (string, error) {
	return c.cli.LPop(ctx, key).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.cli.Expire(ctx, key, expiration).Err()
}

// Keys walks the keyspace with SCAN; it never issues the blocking KEYS command.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	iter := c.cli.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	return out, iter.Err()
}

func (c *Client) Close() error { return c.cli.Close() }
