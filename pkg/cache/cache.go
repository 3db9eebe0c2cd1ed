// Package cache caches squad-selection results in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned when the key is not in the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// SelectionCache handles caching for squad-selection results
type SelectionCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisClient connects to redis from a URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewSelectionCache creates a new selection cache service
func NewSelectionCache(client *redis.Client, logger *logrus.Logger) *SelectionCache {
	return &SelectionCache{
		client: client,
		logger: logger,
	}
}

// Set stores a selection result in cache
func (c *SelectionCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal selection result: %w", err)
	}

	fullKey := fmt.Sprintf("selection:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set selection result in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
	}).Debug("Cached selection result")

	return nil
}

// Get retrieves a selection result from cache into dest
func (c *SelectionCache) Get(ctx context.Context, key string, dest interface{}) error {
	fullKey := fmt.Sprintf("selection:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get selection result from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal selection result: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Retrieved selection result from cache")
	return nil
}

// Delete removes a selection result from cache
func (c *SelectionCache) Delete(ctx context.Context, key string) error {
	fullKey := fmt.Sprintf("selection:%s", key)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to delete selection result from cache: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Deleted selection result from cache")
	return nil
}

// Flush clears all selection results from cache
func (c *SelectionCache) Flush(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "selection:*").Result()
	if err != nil {
		return fmt.Errorf("failed to get selection keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete selection keys: %w", err)
		}
	}

	c.logger.WithField("deleted_keys", len(keys)).Info("Flushed selection cache")
	return nil
}

// HealthCheck pings redis.
func (c *SelectionCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Status returns cache statistics
func (c *SelectionCache) Status(ctx context.Context) map[string]interface{} {
	dbSize := c.client.DBSize(ctx)

	status := map[string]interface{}{
		"service":   "selection-cache",
		"timestamp": time.Now(),
		"connected": c.client.Ping(ctx).Err() == nil,
	}

	if dbSize.Err() == nil {
		status["db_size"] = dbSize.Val()
	}

	keys, err := c.client.Keys(ctx, "selection:*").Result()
	if err == nil {
		status["selection_keys"] = len(keys)
	}

	return status
}
