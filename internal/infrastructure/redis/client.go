package redisinfra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/staHong/user-auth-account-system/internal/config"
)

// NewClient creates a Redis client from REDIS_URL and verifies connectivity.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
