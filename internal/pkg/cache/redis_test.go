package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/footballhub/internal/pkg/config"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(&config.CacheConfig{RedisAddr: mr.Addr(), KeyPrefix: "footballhub:", TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_Key(t *testing.T) {
	c := newRedisCache(nil, "footballhub:", time.Minute)
	assert.Equal(t, "footballhub:/teams/10/", c.key("/teams/10/"))
}

func TestRedisCache_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	body, ok, err := c.Get(ctx, "/teams/")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)

	require.NoError(t, c.Set(ctx, "/teams/", []byte(`[{"id":10}]`)))

	body, ok, err = c.Get(ctx, "/teams/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":10}]`, string(body))

	stored, err := mr.Get("footballhub:/teams/")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":10}]`, stored)
	assert.Equal(t, time.Minute, mr.TTL("footballhub:/teams/"))
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "/country/", []byte(`[]`)))
	mr.FastForward(4 * time.Minute)
	_, ok, err := c.Get(ctx, "/country/")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "/country/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_PurgeKeepsForeignKeys(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "/teams/", []byte(`[]`)))
	require.NoError(t, c.Set(ctx, "/players/", []byte(`[]`)))
	require.NoError(t, mr.Set("sessions:42", "keep"))

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.False(t, mr.Exists("footballhub:/teams/"))
	assert.False(t, mr.Exists("footballhub:/players/"))
	assert.True(t, mr.Exists("sessions:42"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(&config.CacheConfig{RedisAddr: "127.0.0.1:1", TTL: time.Minute})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestRedisCache_GetFailsWhenClosed(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	require.NoError(t, client.Close())

	c := newRedisCache(client, "fh:", time.Minute)
	_, ok, err := c.Get(context.Background(), "/country/")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "redis get /country/")
}
