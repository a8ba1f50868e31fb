package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinic-directory/internal/infrastructure/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	listingCacheName   = "listings"
	listingCachePrefix = "clinic:listings:"
	invalidateBatch    = 100
)

// ListingCache stores rendered listing reads in Redis.
// Every mutation of doctors, subjects or listings must call Invalidate.
type ListingCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// ListingKey namespaces key under the listing cache prefix.
func ListingKey(parts ...any) string {
	key := listingCachePrefix
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(p)
	}
	return key
}

type redisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewListingCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) ListingCache {
	if client == nil {
		return NopListingCache{}
	}
	return &redisListingCache{client: client, ttl: ttl, log: log}
}

func (c *redisListingCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.ObserveCache(listingCacheName, "miss")
		return false, nil
	}
	if err != nil {
		metrics.ObserveCache(listingCacheName, "error")
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.ObserveCache(listingCacheName, "error")
		return false, err
	}
	metrics.ObserveCache(listingCacheName, "hit")
	return true, nil
}

func (c *redisListingCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	metrics.ObserveCache(listingCacheName, "set")
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *redisListingCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, listingCachePrefix+"*", invalidateBatch).Result()
		if err != nil {
			metrics.ObserveCache(listingCacheName, "error")
			return fmt.Errorf("scan listing cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				metrics.ObserveCache(listingCacheName, "error")
				return fmt.Errorf("delete listing cache keys: %w", err)
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	metrics.ObserveCache(listingCacheName, "invalidate")
	c.log.Debugf("Invalidated %d listing cache keys", removed)
	return nil
}

// NopListingCache is used when Redis is unavailable; every read misses.
type NopListingCache struct{}

func (NopListingCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (NopListingCache) Set(ctx context.Context, key string, value any) error       { return nil }
func (NopListingCache) Invalidate(ctx context.Context) error                       { return nil }
