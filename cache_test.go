package sufast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheSetAndGet(t *testing.T) {
	c := NewTTLCache(0)

	c.Set("GET:/a", &CachedEntry{
		Body:       []byte("payload"),
		Status:     200,
		InsertedAt: time.Now(),
		TTL:        time.Minute,
	})

	entry, ok := c.Get("GET:/a")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), entry.Body)
	assert.Equal(t, 200, entry.Status)
}

func TestTTLCacheMissOnUnknownKey(t *testing.T) {
	c := NewTTLCache(0)
	_, ok := c.Get("GET:/never-set")
	assert.False(t, ok)
}

func TestTTLCacheExpiredEntryIsEvicted(t *testing.T) {
	c := NewTTLCache(0)

	c.Set("GET:/old", &CachedEntry{
		Body:       []byte("stale"),
		Status:     200,
		InsertedAt: time.Now().Add(-time.Hour),
		TTL:        time.Second,
	})

	_, ok := c.Get("GET:/old")
	assert.False(t, ok)

	_, ok = c.Get("GET:/old")
	assert.False(t, ok, "the entry stays evicted on a second probe")
}

func TestTTLCacheSetWithNonPositiveTTLIsNoop(t *testing.T) {
	c := NewTTLCache(0)

	c.Set("GET:/nocache", &CachedEntry{
		Body:       []byte("x"),
		Status:     200,
		InsertedAt: time.Now(),
		TTL:        0,
	})

	_, ok := c.Get("GET:/nocache")
	assert.False(t, ok)
}

func TestTTLCacheClear(t *testing.T) {
	c := NewTTLCache(0)
	c.Set("GET:/a", &CachedEntry{Body: []byte("x"), InsertedAt: time.Now(), TTL: time.Minute})

	c.Clear()

	_, ok := c.Get("GET:/a")
	assert.False(t, ok)
}

func TestCachedEntryAge(t *testing.T) {
	e := &CachedEntry{InsertedAt: time.Now().Add(-5 * time.Second), TTL: time.Minute}
	assert.GreaterOrEqual(t, e.Age(time.Now()), 5)
}
