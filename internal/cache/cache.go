// Package cache provides the key/value cache used to memoise derived album
// values.
//
// Two implementations are available:
//   - RedisCache, backed by a Redis server, for shared deployments
//   - MemoryCache, an in-process map with expiry, for local use and tests
//
// Callers only ever see the Cache interface:
//
//	c := cache.NewRedisCache(redisClient, &cache.Options{KeyPrefix: "catalog"})
//	if err := c.Set(ctx, "album-1-filesize-MP3", "1048576", 24*time.Hour); err != nil {
//	    return err
//	}
//	v, err := c.Get(ctx, "album-1-filesize-MP3")
//	if errors.Is(err, cache.ErrMiss) {
//	    // recompute
//	}
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a string key/value store with per-key expiry.
type Cache interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for ttl. A zero ttl uses the
	// implementation's default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Forget deletes key. Forgetting an absent key is not an error.
	Forget(ctx context.Context, key string) error
}

// Options configures a cache implementation.
type Options struct {
	// DefaultTTL applies when Set is called with a zero ttl.
	DefaultTTL time.Duration

	// KeyPrefix is prepended to every key as "<prefix>:<key>".
	KeyPrefix string
}

func (o *Options) withDefaults() *Options {
	out := Options{DefaultTTL: 24 * time.Hour}
	if o != nil {
		out = *o
		if out.DefaultTTL == 0 {
			out.DefaultTTL = 24 * time.Hour
		}
	}
	return &out
}

func (o *Options) key(k string) string {
	if o.KeyPrefix == "" {
		return k
	}
	return o.KeyPrefix + ":" + k
}
