package redisinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staHong/user-auth-account-system/internal/domain"
)

// CodeCache stores email verification codes with a TTL. Keys are prefixed so
// the cache can share a Redis database with other data.
type CodeCache struct {
	client *redis.Client
}

const codeKeyPrefix = "verification:"

func NewCodeCache(client *redis.Client) *CodeCache {
	return &CodeCache{client: client}
}

func (c *CodeCache) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := c.client.Set(ctx, codeKeyPrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("set verification code: %w", err)
	}
	return nil
}

// Get returns the stored code for email. Absence (never set or expired)
// surfaces as domain.ErrNotFound.
func (c *CodeCache) Get(ctx context.Context, email string) (string, error) {
	code, err := c.client.Get(ctx, codeKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("verification code absent: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get verification code: %w", err)
	}
	return code, nil
}

func (c *CodeCache) Delete(ctx context.Context, email string) error {
	return c.client.Del(ctx, codeKeyPrefix+email).Err()
}
