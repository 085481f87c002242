package cache

import (
	"context"
	"time"

	"github.com/prismhq/prism-api/internal/observability"
	"github.com/redis/go-redis/v9"
)

// Cache is a short-TTL redis cache for rendered list responses. It fails
// safe: a broken or absent redis just behaves like a permanent miss, the
// API never errors because of it.
type Cache struct {
	rdb  *redis.Client
	ttl  time.Duration
	prom *observability.Prom
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func New(cfg Config, prom *observability.Prom) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Cache{rdb: rdb, ttl: cfg.TTL, prom: prom}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	b, err := c.rdb.Get(ctx, key).Bytes()

	if err != nil {
		// redis.Nil and connectivity errors are both just a miss
		c.count(key, "miss")
		return nil, false
	}

	c.count(key, "hit")
	return b, true
}

func (c *Cache) Set(ctx context.Context, key string, val []byte) {
	if !c.Enabled() {
		return
	}

	_ = c.rdb.Set(ctx, key, val, c.ttl).Err()
	c.count(key, "store")
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}

	_ = c.rdb.Del(ctx, keys...).Err()

	for _, k := range keys {
		c.count(k, "invalidate")
	}
}

func (c *Cache) count(key, result string) {
	if c.prom != nil {
		c.prom.CacheOpsTotal.WithLabelValues(key, result).Inc()
	}
}

// Ping checks redis connectivity, for readiness probes.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}

	return c.rdb.Close()
}
