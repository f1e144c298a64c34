// Package cache keeps the serialized blog list in Redis between mutations.
//
// Entries are versioned: every mutation bumps a generation counter and lists
// are stored under the generation that was current before the store was read.
// A list built from a snapshot that a concurrent write has since superseded is
// therefore written under a stale generation and never served.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloglist/bloglist-go/internal/model"
)

const (
	generationKey = "bloglist:blogs:gen"
	blogsKeyFmt   = "bloglist:blogs:%d"
)

// RedisCache caches the full blog list under a generation-scoped key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to url (redis://...) and verifies the connection.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Generation returns the current list generation. It must be read before the
// store so that a write racing the read invalidates the result.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Blogs returns the list cached for gen. ok is false on a cache miss.
func (c *RedisCache) Blogs(ctx context.Context, gen int64) ([]model.BlogResponse, bool, error) {
	data, err := c.client.Get(ctx, blogsKey(gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var blogs []model.BlogResponse
	if err := json.Unmarshal(data, &blogs); err != nil {
		return nil, false, err
	}
	return blogs, true, nil
}

// SetBlogs stores the list for gen until the TTL expires.
func (c *RedisCache) SetBlogs(ctx context.Context, gen int64, blogs []model.BlogResponse) error {
	data, err := json.Marshal(blogs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, blogsKey(gen), data, c.ttl).Err()
}

// Invalidate advances the generation. Lists cached under older generations
// are no longer read and expire on their TTL.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func blogsKey(gen int64) string {
	return fmt.Sprintf(blogsKeyFmt, gen)
}

// Noop is used when no Redis URL is configured. Every read is a miss.
type Noop struct{}

// Generation always returns zero.
func (Noop) Generation(context.Context) (int64, error) { return 0, nil }

// Blogs always misses.
func (Noop) Blogs(context.Context, int64) ([]model.BlogResponse, bool, error) {
	return nil, false, nil
}

// SetBlogs discards the list.
func (Noop) SetBlogs(context.Context, int64, []model.BlogResponse) error { return nil }

// Invalidate does nothing.
func (Noop) Invalidate(context.Context) error { return nil }
