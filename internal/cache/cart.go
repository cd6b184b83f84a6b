package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartStore keeps per-user carts in a redis hash (item id -> quantity). The
// whole hash shares one TTL that is refreshed on every write, so an abandoned
// cart expires with the session.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(r *RedisClient, ttl time.Duration) *CartStore {
	return &CartStore{client: r.client, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (s *CartStore) GetCart(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int32, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int32, len(raw))
	for field, val := range raw {
		id, err := uuid.Parse(field)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseInt(val, 10, 32)
		if err != nil || qty < 1 {
			continue
		}
		out[id] = int32(qty)
	}
	return out, nil
}

func (s *CartStore) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int32) error {
	key := cartKey(userID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, itemID.String(), qty)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *CartStore) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.client.HDel(ctx, cartKey(userID), itemID.String()).Err()
}

func (s *CartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
