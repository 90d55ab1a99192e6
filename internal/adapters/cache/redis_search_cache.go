package cache

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultSearchPrefix = "areas:search"

// RedisSearchCache stores JSON-encoded search results in Redis with a TTL.
// A nil client turns every call into a miss.
type RedisSearchCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{Client: client, Prefix: DefaultSearchPrefix, TTL: ttl}
}

func (c *RedisSearchCache) key(k string) string {
	if c.Prefix == "" {
		return k
	}
	return c.Prefix + ":" + k
}

// Fetch a cached result. A missing key is a miss, not an error.
func (c *RedisSearchCache) Get(ctx context.Context, key string) (_ []domain.Area, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.Get")(&err)

	if c == nil || c.Client == nil {
		return nil, false, nil
	}

	raw, err := c.Client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get search cache %q: %w", key, err)
	}

	var areas []domain.Area
	if err := json.Unmarshal(raw, &areas); err != nil {
		return nil, false, fmt.Errorf("get search cache %q: decode: %w", key, err)
	}
	if areas == nil {
		areas = []domain.Area{}
	}
	return areas, true, nil
}

func (c *RedisSearchCache) Put(ctx context.Context, key string, areas []domain.Area) (err error) {
	defer obs.Time(ctx, "search.cache.Put")(&err)

	if c == nil || c.Client == nil {
		return nil
	}
	if areas == nil {
		areas = []domain.Area{}
	}

	raw, err := json.Marshal(areas)
	if err != nil {
		return fmt.Errorf("put search cache %q: encode: %w", key, err)
	}
	if err := c.Client.Set(ctx, c.key(key), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put search cache %q: %w", key, err)
	}
	return nil
}
