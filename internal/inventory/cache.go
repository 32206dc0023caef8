package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"storelab-be/internal/redisx"
)

// kv is the command surface the cache needs; satisfied by *redis.Client.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Cached is a read-through cache in front of another resolver. The
// ledger stays the source of truth: entries carry a short TTL and are
// dropped whenever a movement is appended for the product.
type Cached struct {
	Next  Resolver
	Redis kv
	TTL   time.Duration
}

func (c *Cached) OnHand(ctx context.Context, productID int64) (int, error) {
	m, err := c.OnHandMany(ctx, []int64{productID})
	if err != nil {
		return 0, err
	}
	return m[productID], nil
}

func (c *Cached) OnHandMany(ctx context.Context, productIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(productIDs))
	var misses []int64
	for _, id := range productIDs {
		s, err := c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyInventoryOnHand, id)).Result()
		if err == nil {
			if n, convErr := strconv.Atoi(s); convErr == nil {
				out[id] = n
				continue
			}
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.Next.OnHandMany(ctx, misses)
	if err != nil {
		return nil, err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = redisx.TTLInventoryCache
	}
	for id, n := range fetched {
		out[id] = n
		// best effort: a failed Set just means a cache miss next time
		_ = c.Redis.Set(ctx, fmt.Sprintf(redisx.KeyInventoryOnHand, id), n, ttl).Err()
	}
	return out, nil
}
