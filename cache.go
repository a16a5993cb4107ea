package sufast

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/cespare/xxhash/v2"
)

// CachedEntry is a TTL-cached response (component D).
type CachedEntry struct {
	Body       []byte
	Status     int
	Headers    HeaderList
	InsertedAt time.Time
	TTL        time.Duration
}

// Expired reports whether e's TTL has lapsed as of now.
func (e *CachedEntry) Expired(now time.Time) bool {
	return now.Sub(e.InsertedAt) >= e.TTL
}

// Age returns the whole seconds elapsed since e was inserted, as of now.
func (e *CachedEntry) Age(now time.Time) int {
	return int(now.Sub(e.InsertedAt) / time.Second)
}

// TTLCache is the lazily-expiring response cache of component D. It is
// backed by fastcache.Cache: a concurrent, memory-bounded byte store that
// needs no external locking from its caller. Entries are additionally
// timestamped so that expiry is enforced by wall-clock comparison on every
// read, independent of whether fastcache itself has evicted the backing
// bytes under memory pressure.
//
// fastcache keys must be fixed-size-friendly; composed keys are hashed with
// xxhash before use so arbitrarily long paths never hit fastcache's
// internal bucket-sizing assumptions.
type TTLCache struct {
	cache *fastcache.Cache
}

// defaultCacheMaxMemoryBytes is the cache's default memory bound (32 MiB).
const defaultCacheMaxMemoryBytes = 32 << 20

// NewTTLCache returns a TTLCache backed by a fastcache sized maxMemoryBytes.
// A non-positive value falls back to defaultCacheMaxMemoryBytes.
func NewTTLCache(maxMemoryBytes int) *TTLCache {
	if maxMemoryBytes <= 0 {
		maxMemoryBytes = defaultCacheMaxMemoryBytes
	}
	return &TTLCache{cache: fastcache.New(maxMemoryBytes)}
}

func cacheKeyBytes(composedKey string) []byte {
	h := xxhash.Sum64String(composedKey)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (8 * i))
	}
	return b
}

// Get probes the cache for the composed key. On a fresh hit it returns the
// entry and true. On an expired hit it evicts the entry and reports a
// miss.
func (c *TTLCache) Get(composedKey string) (*CachedEntry, bool) {
	key := cacheKeyBytes(composedKey)

	raw, ok := c.cache.HasGet(nil, key)
	if !ok {
		return nil, false
	}

	var entry CachedEntry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&entry); err != nil {
		c.cache.Del(key)
		return nil, false
	}

	if entry.Expired(time.Now()) {
		c.cache.Del(key)
		return nil, false
	}

	return &entry, true
}

// Set inserts or unconditionally overwrites the entry for composedKey. A
// non-positive ttl means "do not cache" and is a no-op here; callers are
// expected to check ttl > 0 themselves before calling Set, matching the
// dispatcher's own gate before it calls Set.
func (c *TTLCache) Set(composedKey string, entry *CachedEntry) {
	if entry.TTL <= 0 {
		return
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return
	}

	c.cache.Set(cacheKeyBytes(composedKey), buf.Bytes())
}

// Clear empties the cache. It is idempotent: calling it again when already
// empty is a no-op that still succeeds.
func (c *TTLCache) Clear() {
	c.cache.Reset()
}
