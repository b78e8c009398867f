package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jaydenshimshi/LineUp-sub000/internal/solver"
)

// ErrCacheMiss is returned when no result is stored under a key.
var ErrCacheMiss = errors.New("solve result not found in cache")

// ErrCacheDisabled is returned when the service runs without Redis.
var ErrCacheDisabled = errors.New("cache disabled")

const solveKeyPrefix = "solve:"

// SolveCacheService stores finished solve results in Redis so a repeated
// roster comes back instantly. The client may be nil; every operation
// then degrades to a no-op and the solver simply runs every time.
type SolveCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewSolveCacheService creates a new solve cache service
func NewSolveCacheService(client *redis.Client, logger *logrus.Logger) *SolveCacheService {
	return &SolveCacheService{
		client: client,
		logger: logger,
	}
}

// Enabled reports whether a Redis client is wired in.
func (c *SolveCacheService) Enabled() bool {
	return c.client != nil
}

// SetSolveResult stores a solve result in cache
func (c *SolveCacheService) SetSolveResult(ctx context.Context, key string, result *solver.SolveResult, expiration time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal solve result: %w", err)
	}

	fullKey := solveKeyPrefix + key
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set solve result in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
		"provider":   result.Provider,
	}).Debug("Cached solve result")

	return nil
}

// GetSolveResult retrieves a solve result from cache
func (c *SolveCacheService) GetSolveResult(ctx context.Context, key string) (*solver.SolveResult, error) {
	if c.client == nil {
		return nil, ErrCacheDisabled
	}

	fullKey := solveKeyPrefix + key
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get solve result from cache: %w", err)
	}

	var result solver.SolveResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal solve result: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key": fullKey,
		"provider":  result.Provider,
	}).Debug("Retrieved solve result from cache")

	return &result, nil
}

// DeleteSolveResult removes a solve result from cache
func (c *SolveCacheService) DeleteSolveResult(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}

	fullKey := solveKeyPrefix + key
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to delete solve result from cache: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Deleted solve result from cache")
	return nil
}

// GetStatus returns cache statistics
func (c *SolveCacheService) GetStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"service":   "solve-cache",
		"timestamp": time.Now(),
		"connected": c.client != nil,
	}
	if c.client == nil {
		return status
	}

	if dbSize := c.client.DBSize(ctx); dbSize.Err() == nil {
		status["db_size"] = dbSize.Val()
	}

	if solveKeys, err := c.client.Keys(ctx, solveKeyPrefix+"*").Result(); err == nil {
		status["solve_keys"] = len(solveKeys)
	}

	if err := c.client.Ping(ctx).Err(); err != nil {
		status["connected"] = false
		status["error"] = err.Error()
	}

	return status
}

// FlushSolveCache clears all solve results from cache
func (c *SolveCacheService) FlushSolveCache(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	keys, err := c.client.Keys(ctx, solveKeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("failed to get solve keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete solve keys: %w", err)
		}
	}

	c.logger.WithField("deleted_keys", len(keys)).Info("Flushed solve cache")
	return nil
}
