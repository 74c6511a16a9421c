package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, "test:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheGetPut(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	_, found, err := c.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(ctx, "x", sampleResult("b", "c"), time.Hour))
	assert.True(t, mr.Exists("test:x"), "chave deve usar o prefixo configurado")
	assert.Equal(t, time.Hour, mr.TTL("test:x"))

	got, found, err := c.Get(ctx, "x")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "b", got.Articles[0].ID)
	assert.True(t, got.GeneratedAt.Equal(sampleResult().GeneratedAt))
}

func TestRedisCacheExpiracao(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.Put(ctx, "x", sampleResult("b"), time.Minute))
	mr.FastForward(time.Minute + time.Second)

	_, found, err := c.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, mr.Set("outro:chave", "valor"))
	for _, id := range []string{"x", "y", "z"} {
		require.NoError(t, c.Put(ctx, id, sampleResult("b"), time.Hour))
	}

	require.NoError(t, c.Invalidate(ctx, "x"))
	assert.False(t, mr.Exists("test:x"))
	assert.True(t, mr.Exists("test:y"))

	require.NoError(t, c.InvalidateAll(ctx))
	assert.False(t, mr.Exists("test:y"))
	assert.False(t, mr.Exists("test:z"))
	assert.True(t, mr.Exists("outro:chave"), "chaves fora do prefixo não são removidas")
}

func TestRedisCacheEntradaCorrompida(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, mr.Set("test:x", "{não é json"))

	_, found, err := c.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("test:x"))
}

func TestRedisCacheIndisponivel(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	mr.SetError("LOADING Redis is loading the dataset in memory")

	_, _, err := c.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = c.Put(ctx, "x", sampleResult("b"), time.Hour)
	assert.ErrorIs(t, err, ErrUnavailable)
}
