// Package cache stores search resolutions (business name → detail page
// URL) so repeat requests skip the search round-trip. Backed by Redis when
// configured, otherwise a no-op.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResolverCache is the lookup surface the scrapers use. A miss is
// (_, false, nil); errors are reserved for backend trouble and callers
// treat them as misses.
type ResolverCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, url string) error
	Close() error
}

// Key normalises an entity identifier into a cache key.
func Key(entity string) string {
	return strings.ToLower(strings.Join(strings.Fields(entity), " "))
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis initializes a Redis-backed ResolverCache.
func NewRedis(addr, prefix string, ttl time.Duration) ResolverCache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, url string) error {
	return c.client.Set(ctx, c.prefix+key, url, c.ttl).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type noopCache struct{}

// NewNoop returns a ResolverCache that never hits.
func NewNoop() ResolverCache { return noopCache{} }

func (noopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (noopCache) Set(context.Context, string, string) error         { return nil }
func (noopCache) Close() error                                      { return nil }
