package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-market/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ItemCache is a best-effort read-through cache of catalog detail reads.
// Misses and redis errors both fall through to the database; writers
// invalidate on mutation. Stock served from here is advisory only; the order
// engine always checks the locked row.
type ItemCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewItemCache(r *RedisClient, ttl time.Duration, log *zap.Logger) *ItemCache {
	return &ItemCache{client: r.client, ttl: ttl, log: log}
}

func itemKey(id uuid.UUID) string {
	return fmt.Sprintf("item:%s", id)
}

func (c *ItemCache) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, bool) {
	raw, err := c.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var it models.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		c.log.Warn("item cache entry corrupt", zap.String("id", id.String()), zap.Error(err))
		_ = c.client.Del(ctx, itemKey(id)).Err()
		return nil, false
	}
	return &it, true
}

func (c *ItemCache) SetItem(ctx context.Context, it *models.Item) {
	raw, err := json.Marshal(it)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, itemKey(it.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("item cache set failed", zap.Error(err))
	}
}

func (c *ItemCache) DeleteItem(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, itemKey(id)).Err(); err != nil {
		c.log.Warn("item cache invalidation failed", zap.Error(err))
	}
}
