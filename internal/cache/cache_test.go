package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCache(&Options{DefaultTTL: time.Minute, KeyPrefix: "test"})
	c.now = func() time.Time { return now }

	t.Run("Miss", func(t *testing.T) {
		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("SetGet", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", "v", 0))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", "v", time.Second))
		now = now.Add(2 * time.Second)
		_, err := c.Get(ctx, "short")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("Forget", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", "v", 0))
		require.NoError(t, c.Forget(ctx, "gone"))
		_, err := c.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrMiss)

		// forgetting twice is fine
		assert.NoError(t, c.Forget(ctx, "gone"))
	})

	t.Run("Prefix", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "p", "v", 0))
		_, ok := c.entries["test:p"]
		assert.True(t, ok)
	})
}

func TestRedisCache(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.FlushDB(ctx)

	c := NewRedisCache(client, &Options{KeyPrefix: "catalog-test"})

	t.Run("Miss", func(t *testing.T) {
		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("SetGetForget", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "album-1-filesize-MP3", "1024", time.Minute))

		v, err := c.Get(ctx, "album-1-filesize-MP3")
		require.NoError(t, err)
		assert.Equal(t, "1024", v)

		require.NoError(t, c.Forget(ctx, "album-1-filesize-MP3"))
		_, err = c.Get(ctx, "album-1-filesize-MP3")
		assert.ErrorIs(t, err, ErrMiss)
	})
}
