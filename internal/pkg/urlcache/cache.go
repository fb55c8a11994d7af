package urlcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// All TTL and key-naming rules for resolved download URLs live in this
// package; call sites never touch the backing store directly.

const keyPrefix = "urlcache:"

// ErrMiss is returned when no fresh entry exists for a design
var ErrMiss = errors.New("url cache miss")

// Entry maps a design to a resolved, time-limited download URL
type Entry struct {
	URL        string    `json:"url"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// KV is the small persistent key-value surface the cache needs.
// Production uses Redis; tests use an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiry time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache stores resolved URLs with an explicit staleness rule
type Cache struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

// New creates a URL cache with the given TTL
func New(kv KV, ttl time.Duration) *Cache {
	return &Cache{kv: kv, ttl: ttl, now: time.Now}
}

// WithClock overrides the clock, for tests
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached URL for a design, or ErrMiss when absent or stale.
// Stale entries are treated exactly like missing ones; the caller
// overwrites them whole via Set.
func (c *Cache) Get(ctx context.Context, designID int64) (string, error) {
	raw, err := c.kv.Get(ctx, key(designID))
	if err != nil {
		return "", ErrMiss
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Corrupt advisory state: drop it and report a miss
		_ = c.kv.Del(ctx, key(designID))
		return "", ErrMiss
	}

	if c.IsStale(entry.ResolvedAt) {
		return "", ErrMiss
	}

	return entry.URL, nil
}

// Set stores a freshly resolved URL, stamped with the current time
func (c *Cache) Set(ctx context.Context, designID int64, url string) error {
	entry := Entry{URL: url, ResolvedAt: c.now()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	// The store-level expiry is a backstop; staleness is decided by
	// the ResolvedAt timestamp so the rule survives a store without TTLs.
	return c.kv.Set(ctx, key(designID), string(raw), 2*c.ttl)
}

// Del removes a cached URL, used when a design is deleted
func (c *Cache) Del(ctx context.Context, designID int64) error {
	return c.kv.Del(ctx, key(designID))
}

// IsStale reports whether an entry resolved at the given time must be re-resolved
func (c *Cache) IsStale(resolvedAt time.Time) bool {
	return c.now().Sub(resolvedAt) >= c.ttl
}

func key(designID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, designID)
}

// RedisKV adapts a Redis client to the KV interface
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps a Redis client
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisKV) Set(ctx context.Context, key, value string, expiry time.Duration) error {
	return r.client.Set(ctx, key, value, expiry).Err()
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
