// Package cache holds finished report records keyed by input fingerprint.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lifepath/internal/report"
	"lifepath/pkg/platform/sentinel"
)

const keyPrefix = "lifepath:report:"

// RedisCache stores records as JSON with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, fingerprint string) (report.Record, error) {
	raw, err := c.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return report.Record{}, sentinel.ErrNotFound
		}
		return report.Record{}, fmt.Errorf("%w: redis get: %w", sentinel.ErrUnavailable, err)
	}
	var rec report.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A corrupt entry behaves as a miss and is overwritten on the next Set.
		return report.Record{}, sentinel.ErrNotFound
	}
	return rec, nil
}

func (c *RedisCache) Set(ctx context.Context, rec report.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cached record: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+rec.Fingerprint, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

type entry struct {
	rec       report.Record
	expiresAt time.Time
}

// InMemoryCache is a TTL map for single-node runs and tests.
type InMemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemory(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryCache) Get(_ context.Context, fingerprint string) (report.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[fingerprint]
	if !ok {
		return report.Record{}, sentinel.ErrNotFound
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, fingerprint)
		return report.Record{}, sentinel.ErrNotFound
	}
	return e.rec, nil
}

func (c *InMemoryCache) Set(_ context.Context, rec report.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rec.Fingerprint] = entry{rec: rec, expiresAt: c.now().Add(c.ttl)}
	return nil
}
