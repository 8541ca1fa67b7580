package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Hour})
	defer c.Close()

	c.SetWithTTL("short", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	// The janitor has not swept yet, but expired reads still miss.
	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheFullDropsNewWrites(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, MaxItems: 2})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("c")
	assert.False(t, ok, "writes beyond capacity are dropped")
	assert.Equal(t, 2, c.Len())

	// Overwriting an existing key is still allowed at capacity.
	c.Set("a", 10)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}
