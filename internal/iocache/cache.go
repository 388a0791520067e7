// Package iocache implements bible.PageCache on Redis. Pages are
// encoded with gob and expire after a configured TTL.
package iocache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/redis/go-redis/v9"
)

// keyPrefix separates gnverse keys from other data of a shared Redis.
const keyPrefix = "gnverse:page:"

// Cache keeps search pages in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	enc    gnfmt.GNgob
}

// New connects to the Redis server of cfg and checks that it answers.
func New(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ConnectionError(cfg.RedisAddr, err)
	}
	slog.Debug("Connected to Redis", "addr", cfg.RedisAddr)
	return NewWithClient(client, time.Duration(cfg.TTLSec)*time.Second), nil
}

// NewWithClient wraps an existing client. Non-positive ttl keeps pages
// until Redis evicts them.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: max(ttl, 0)}
}

// Key converts a request key into a Redis key. Request keys of any
// length map to fixed-size UUIDv5 keys.
func Key(reqKey string) string {
	return keyPrefix + gnuuid.New(reqKey).String()
}

// Get returns a cached page. The boolean is false on a cache miss.
func (c *Cache) Get(ctx context.Context, reqKey string) (page.Page, bool, error) {
	var res page.Page
	data, err := c.client.Get(ctx, Key(reqKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return res, false, nil
	}
	if err != nil {
		return res, false, GetError(err)
	}
	if err = c.enc.Decode(data, &res); err != nil {
		return res, false, DecodeError(err)
	}
	return res, true, nil
}

// Set stores a page under the request key.
func (c *Cache) Set(ctx context.Context, reqKey string, p page.Page) error {
	data, err := c.enc.Encode(p)
	if err != nil {
		return EncodeError(err)
	}
	if err = c.client.Set(ctx, Key(reqKey), data, c.ttl).Err(); err != nil {
		return SetError(err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
