package cachemanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCache() *InMemoryCacheManager[string, []string] {
	return NewInMemoryCacheManager[string, []string]("test", DefaultExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	c := newTestCache()

	c.Set("k", []string{"a", "b"}, time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestInMemoryCacheManager_MissingKey(t *testing.T) {
	c := newTestCache()

	got, ok := c.Get("absent")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	c := newTestCache()

	c.Set("k", []string{"a"}, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	require.False(t, ok, "entry should expire after its TTL")
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	c := newTestCache()

	c.Set("k1", []string{"a"}, time.Minute)
	c.Set("k2", []string{"b"}, time.Minute)

	c.Delete("k1", "k2")

	_, ok1 := c.Get("k1")
	_, ok2 := c.Get("k2")
	require.False(t, ok1)
	require.False(t, ok2)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	c := newTestCache()

	c.Set("k1", []string{"a"}, time.Minute)
	c.Set("k2", []string{"b"}, time.Minute)

	c.Flush()

	_, ok := c.Get("k1")
	require.False(t, ok)
}

func TestInMemoryCacheManager_ZeroTTLUsesDefault(t *testing.T) {
	c := newTestCache()

	c.Set("k", []string{"a"}, 0)

	_, ok := c.Get("k")
	require.True(t, ok, "zero TTL falls back to the default expiration")
}
