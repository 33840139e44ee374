// Package cache keeps short lived copies of per-user state in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"arena/internal/config"
	"arena/internal/social"
)

const keyPrefix = "arena:verification:"

// NewClient returns a redis client, or nil when no address is configured
func NewClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// VerificationCache caches a user's verification statuses. A cache without a
// client never hits, so the database is always consulted.
type VerificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewVerificationCache(client *redis.Client, ttl time.Duration) *VerificationCache {
	return &VerificationCache{client: client, ttl: ttl}
}

func key(userID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// Get returns the cached statuses and whether there was a hit
func (c *VerificationCache) Get(ctx context.Context, userID uint) ([]social.PlatformStatus, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read verification cache: %w", err)
	}

	var statuses []social.PlatformStatus
	if err := json.Unmarshal(raw, &statuses); err != nil {
		// a corrupt entry is a miss
		_ = c.client.Del(ctx, key(userID)).Err()
		return nil, false, nil
	}
	return statuses, true, nil
}

func (c *VerificationCache) Set(ctx context.Context, userID uint, statuses []social.PlatformStatus) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(statuses)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write verification cache: %w", err)
	}
	return nil
}

// Invalidate drops the user's entry; it must follow every verification write
func (c *VerificationCache) Invalidate(ctx context.Context, userID uint) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate verification cache: %w", err)
	}
	return nil
}

// InvalidateUsers drops the entries of every listed user in one round trip
func (c *VerificationCache) InvalidateUsers(ctx context.Context, userIDs []uint) error {
	if c == nil || c.client == nil || len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate verification cache: %w", err)
	}
	return nil
}
