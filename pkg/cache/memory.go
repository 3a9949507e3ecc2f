package cache

import (
	"sync"
	"time"

	"SignalBoard/internal/domain/models"

	"golang.org/x/sync/singleflight"
)

// Cache lookup outcomes reported to the recorder.
const (
	LookupHit    = "hit"
	LookupMiss   = "miss"
	LookupShared = "shared"
)

// FetchFunc produces a fresh result on a miss. It must not fail: fallbacks are
// applied before the result reaches the cache.
type FetchFunc func() models.FetchResult

// TTLCache maps signal names to immutable entries. Concurrent misses for the
// same key collapse into a single call of the fetch function.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]*models.CacheEntry
	group   singleflight.Group
	now     func() time.Time
	rec     LookupRecorder
}

// NewTTLCache creates an empty cache.
func NewTTLCache(opts ...MemoryOption) *TTLCache {
	cfg := &MemoryConfig{
		Clock: time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &TTLCache{
		entries: make(map[string]*models.CacheEntry),
		now:     cfg.Clock,
		rec:     cfg.Recorder,
	}
}

// Now returns the cache clock's current time.
func (c *TTLCache) Now() time.Time { return c.now() }

// GetOrFetch returns the cached result for name while it is fresh, otherwise
// runs fetch (at most once per key at a time) and stores its result.
func (c *TTLCache) GetOrFetch(name string, ttl time.Duration, fetch FetchFunc) models.FetchResult {
	if e := c.lookup(name); e.Fresh(c.now()) {
		c.record(LookupHit)
		return e.Result
	}

	type flight struct {
		res   models.FetchResult
		fresh bool
	}
	v, _, shared := c.group.Do(name, func() (interface{}, error) {
		// a flight for this key may have completed between lookup and Do
		if e := c.lookup(name); e.Fresh(c.now()) {
			return flight{res: e.Result, fresh: true}, nil
		}
		return flight{res: c.store(name, fetch(), ttl)}, nil
	})

	f := v.(flight)
	switch {
	case f.fresh:
		c.record(LookupHit)
	case shared:
		c.record(LookupShared)
	default:
		c.record(LookupMiss)
	}
	return f.res
}

// Peek returns the current entry for name even if it has expired.
func (c *TTLCache) Peek(name string) (models.CacheEntry, bool) {
	e := c.lookup(name)
	if e == nil {
		return models.CacheEntry{}, false
	}
	return *e, true
}

// Delete drops entries so the next lookup fetches again.
func (c *TTLCache) Delete(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range names {
		delete(c.entries, name)
	}
}

// Len returns the number of stored entries.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache) lookup(name string) *models.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name]
}

// store replaces the entry unless the cached result is newer than res.
func (c *TTLCache) store(name string, res models.FetchResult, ttl time.Duration) models.FetchResult {
	if res.FetchedAt.IsZero() {
		res.FetchedAt = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[name]; ok && cur.Result.FetchedAt.After(res.FetchedAt) {
		return cur.Result
	}
	c.entries[name] = &models.CacheEntry{
		Result:    res,
		ExpiresAt: res.FetchedAt.Add(ttl),
	}
	return res
}

func (c *TTLCache) record(result string) {
	if c.rec != nil {
		c.rec.RecordCacheLookup(result)
	}
}
