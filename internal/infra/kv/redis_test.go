package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, prefix string, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := NewRedisWithClient(client, prefix, ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestRedisMissAndPrefixedKeys(t *testing.T) {
	store, srv := newTestRedis(t, "airbrb:", 0)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "snapshots", "ann")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "snapshots", "ann", []byte(`{"b1":"pending"}`)))
	raw, err := srv.Get("airbrb:snapshots:ann")
	require.NoError(t, err)
	assert.Equal(t, `{"b1":"pending"}`, raw)
	assert.Zero(t, srv.TTL("airbrb:snapshots:ann"))

	got, ok, err := store.Get(ctx, "snapshots", "ann")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"b1":"pending"}`, string(got))

	_, ok, err = store.Get(ctx, "notifications", "ann")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisValuesExpireAfterTTL(t *testing.T) {
	store, srv := newTestRedis(t, "n:", time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "notifications", "ann", []byte("[]")))
	assert.Equal(t, time.Hour, srv.TTL("n:notifications:ann"))

	srv.FastForward(time.Hour + time.Second)
	_, ok, err := store.Get(ctx, "notifications", "ann")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSurfacesServerErrors(t *testing.T) {
	store, srv := newTestRedis(t, "", 0)
	require.NoError(t, store.Set(context.Background(), "snapshots", "ann", []byte("x")))
	srv.SetError("ERR injected failure")

	_, ok, err := store.Get(context.Background(), "snapshots", "ann")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, store.Set(context.Background(), "snapshots", "ann", []byte("x")))
}

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, RedisOptions{Addr: addr})
	assert.Error(t, err)
}
