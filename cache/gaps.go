// Package cache stores derived, non-authoritative data in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"civiclink/models"
)

const DefaultGapTTL = 15 * time.Minute

// GapCache keeps gap analysis results in Redis under a caller-supplied key.
type GapCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewGapCache(client *redis.Client, prefix string, ttl time.Duration) *GapCache {
	if ttl <= 0 {
		ttl = DefaultGapTTL
	}
	return &GapCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *GapCache) Get(ctx context.Context, key string) ([]models.GapReport, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read gap cache: %w", err)
	}

	var reports []models.GapReport
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, false, fmt.Errorf("decode gap cache: %w", err)
	}
	return reports, true, nil
}

func (c *GapCache) Set(ctx context.Context, key string, reports []models.GapReport) error {
	if reports == nil {
		reports = []models.GapReport{}
	}
	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode gap cache: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write gap cache: %w", err)
	}
	return nil
}
