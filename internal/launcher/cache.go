package launcher

import (
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// searchCacheTTL bounds how long a cached result set stays valid; plugin
// rebuilds invalidate earlier via the generation counter.
const searchCacheTTL = 5 * time.Minute

type searchCacheEntry struct {
	results    []*Item
	timestamp  time.Time
	generation uint64
}

// SearchCache LRU-caches general palette searches. Trigger-routed
// searches are never cached since they can shell out per query.
type SearchCache struct {
	mu         sync.Mutex
	cache      *lru.Cache[string, *searchCacheEntry]
	generation atomic.Uint64
	hits       atomic.Int64
	misses     atomic.Int64
}

// CacheStats holds cache counters for diagnostics.
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}

// NewSearchCache creates a cache holding up to maxSize query results.
func NewSearchCache(maxSize int) (*SearchCache, error) {
	if maxSize <= 0 {
		maxSize = 100
	}
	cache, err := lru.New[string, *searchCacheEntry](maxSize)
	if err != nil {
		return nil, err
	}
	return &SearchCache{cache: cache}, nil
}

// Get returns cached results for a query, honoring TTL and generation.
func (c *SearchCache) Get(query string) ([]*Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.cache.Get(query)
	if found {
		if entry.generation == c.generation.Load() && time.Since(entry.timestamp) < searchCacheTTL {
			c.hits.Add(1)
			return entry.results, true
		}
		c.cache.Remove(query)
	}

	c.misses.Add(1)
	return nil, false
}

// Put stores results for a query under the current generation.
func (c *SearchCache) Put(query string, results []*Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(query, &searchCacheEntry{
		results:    results,
		timestamp:  time.Now(),
		generation: c.generation.Load(),
	})
}

// Invalidate expires every cached entry by bumping the generation.
func (c *SearchCache) Invalidate() {
	c.generation.Add(1)
}

// Stats returns the current counters.
func (c *SearchCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:   c.cache.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
