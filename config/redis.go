package config

import (
	"context"
	"fmt"

	"github.com/dcode-github/property_listing_api/cache"
	"github.com/redis/go-redis/v9"
)

func InitRedis(ctx context.Context, addr, pass string) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       0,
	})

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return redisClient, nil
}

// NewCache returns the redis backend when REDIS_ADD is set, else the in-process one.
func NewCache(ctx context.Context, cfg Config) (cache.Cache, func() error, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.CacheTTL), func() error { return nil }, nil
	}

	client, err := InitRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		return nil, nil, err
	}
	c := cache.NewRedis(client)
	return c, c.Close, nil
}
