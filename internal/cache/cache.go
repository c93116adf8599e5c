// Package cache stores fetched transcripts in memory and, when configured,
// in Redis so they survive restarts.
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ytnotes:transcript:"

// Cache is a two-tier string cache: L1 in process memory, L2 Redis.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	logger     *log.Logger
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Config controls cache sizing and the optional Redis tier.
type Config struct {
	RedisURL   string
	TTL        time.Duration
	MaxEntries int
}

// New creates a cache. An empty or unreachable RedisURL leaves L2 disabled.
func New(ctx context.Context, cfg Config, logger *log.Logger) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 500
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &Cache{
		entries:    make(map[string]entry),
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		logger:     logger,
		now:        time.Now,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("cache: invalid redis URL, L2 disabled", "err", err)
			return c
		}
		rdb := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("cache: redis unreachable, L2 disabled", "addr", opts.Addr, "err", err)
			rdb.Close()
			return c
		}
		c.rdb = rdb
		logger.Info("cache: redis connected", "addr", opts.Addr)
	}
	return c
}

// Get looks up key in L1, then L2. L2 hits are promoted to L1.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
		return e.value, true
	}

	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, keyPrefix+key).Result()
		if err == nil {
			c.hits.Add(1)
			c.setLocal(key, val)
			return val, true
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache: redis get failed", "key", key, "err", err)
		}
	}

	c.misses.Add(1)
	return "", false
}

// Set stores value under key in both tiers.
func (c *Cache) Set(ctx context.Context, key, value string) {
	c.setLocal(key, value)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
			c.logger.Warn("cache: redis set failed", "key", key, "err", err)
		}
	}
}

func (c *Cache) setLocal(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = entry{value: value, expiresAt: now.Add(c.ttl)}
}

// evictLocked drops expired entries, or the entry closest to expiry when
// nothing has expired yet.
func (c *Cache) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.expiresAt
		}
	}
	if len(c.entries) >= c.maxEntries && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of L1 entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
