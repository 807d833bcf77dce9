package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parsherm/country-finder/internal/cache"
	"github.com/Parsherm/country-finder/internal/config"
)

func TestNewCache_PrefersRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	t.Setenv("REDIS_HOST", host)
	t.Setenv("REDIS_PORT", port)

	store := newCache(context.Background(), config.Load())

	redisStore, ok := store.(*cache.Redis)
	require.True(t, ok, "expected the redis cache when the server is reachable")
	defer redisStore.Close()

	// And it actually works against the server.
	require.NoError(t, store.Set(context.Background(), "japan", []byte("data"), time.Hour))
	_, found, err := store.Get(context.Background(), "japan")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestNewCache_FallsBackToMemory(t *testing.T) {
	// Grab a free port and close it again so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	t.Setenv("REDIS_HOST", host)
	t.Setenv("REDIS_PORT", port)

	store := newCache(context.Background(), config.Load())

	memStore, ok := store.(*cache.Memory)
	require.True(t, ok, "expected the in-memory fallback when redis is unreachable")
	defer memStore.Close()

	// Caching semantics survive the fallback.
	require.NoError(t, store.Set(context.Background(), "japan", []byte("data"), time.Hour))
	got, found, err := store.Get(context.Background(), "japan")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("data"), got)
}
