// Package cache is a two-tier byte cache: an in-memory L1 with TTL and a
// size cap, backed by an optional Redis L2 that survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "placify:"

// Options configures a Cache. An empty RedisURL disables L2.
type Options struct {
	RedisURL        string
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// Cache implements L1 (memory) + L2 (Redis) caching. The zero value is not
// usable; construct with New.
type Cache struct {
	l1         sync.Map // key -> *entry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New builds the cache and starts the L1 cleanup goroutine. Redis problems
// are logged and leave the cache running in memory only.
func New(ctx context.Context, opts Options) *Cache {
	c := &Cache{
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if c.ttl <= 0 {
		c.ttl = 24 * time.Hour
	}

	if opts.RedisURL != "" {
		c.rdb = connectRedis(ctx, opts.RedisURL)
	}

	slog.Info("cache: initialized",
		slog.Duration("ttl", c.ttl),
		slog.Bool("redis", c.rdb != nil),
		slog.Int("max_entries", c.maxEntries))

	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go c.cleanupLoop(interval)
	return c
}

func connectRedis(ctx context.Context, url string) *redis.Client {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		return nil
	}
	rdb := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
		_ = rdb.Close()
		return nil
	}
	slog.Info("cache: L2 redis connected", slog.String("addr", redisOpts.Addr))
	return rdb
}

// Key builds a deterministic cache key from parts.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		// Length-prefixing keeps ("ab","c") and ("a","bc") apart.
		_, _ = h.Write([]byte{byte(len(p) >> 24), byte(len(p) >> 16), byte(len(p) >> 8), byte(len(p))})
		_, _ = h.Write([]byte(p))
	}
	return keyPrefix + namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get tries L1, then L2. An L2 hit repopulates L1.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if c.now().Before(e.expiresAt) {
			slog.Debug("cache: L1 hit", slog.String("key", key))
			c.hits.Add(1)
			return e.data, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			slog.Debug("cache: L2 hit", slog.String("key", key))
			c.hits.Add(1)
			c.storeL1(key, data)
			return data, true
		}
		if err != redis.Nil {
			slog.Debug("cache: L2 get failed", slog.Any("error", err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores data in both tiers.
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	c.evictIfNeeded()
	c.storeL1(key, data)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// Delete removes key from both tiers.
func (c *Cache) Delete(ctx context.Context, key string) {
	c.l1.Delete(key)
	if c.rdb != nil {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			slog.Debug("cache: L2 delete failed", slog.Any("error", err))
		}
	}
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len counts L1 entries, expired ones included.
func (c *Cache) Len() int {
	n := 0
	c.l1.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the cleanup goroutine and closes Redis.
func (c *Cache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// GetJSON decodes a cached JSON value into T.
func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		c.Delete(ctx, key)
		var zero T
		return zero, false
	}
	return out, true
}

// SetJSON marshals v and stores it.
func SetJSON[T any](ctx context.Context, c *Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Debug("cache: marshal failed", slog.Any("error", err))
		return
	}
	c.Set(ctx, key, data)
}

func (c *Cache) storeL1(key string, data []byte) {
	c.l1.Store(key, &entry{data: data, expiresAt: c.now().Add(c.ttl)})
}

// evictIfNeeded makes room for one entry: expired entries go first, then
// the ones closest to expiry.
func (c *Cache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}
	count := c.Len()
	if count < c.maxEntries {
		return
	}

	now := c.now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return true
	})

	for count >= c.maxEntries {
		var oldestKey any
		var oldestAt time.Time
		c.l1.Range(func(key, val any) bool {
			e, ok := val.(*entry)
			if ok && (oldestKey == nil || e.expiresAt.Before(oldestAt)) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *Cache) purgeExpired() {
	now := c.now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
		}
		return true
	})
}

// ScoreKey is the cache key of a scoring result. fingerprint must identify
// the scorer configuration (rules, weights, analyzer settings).
func ScoreKey(fingerprint, resumeText, jobText string) string {
	return Key("score", fingerprint, strings.TrimSpace(resumeText), strings.TrimSpace(jobText))
}
