package trending

import (
	"sync"
	"time"

	"github.com/solindex/trending-data/internal/model"
)

// DefaultRefreshThreshold is the minimum age before a cached set is
// considered stale.
const DefaultRefreshThreshold = 30 * time.Second

// CacheEntry is one cached trending set plus the time it was computed.
type CacheEntry struct {
	Timestamp time.Time
	Data      model.TrendingSet
}

// Cache is a single-slot freshness cache for the current trending set.
// Concurrent writers are tolerated; the slot is last-write-wins since
// racing writers hold semantically equivalent snapshots.
type Cache struct {
	mu        sync.RWMutex
	entry     *CacheEntry
	threshold time.Duration
	now       func() time.Time
}

// NewCache creates an empty cache. A non-positive threshold falls back
// to DefaultRefreshThreshold.
func NewCache(threshold time.Duration) *Cache {
	if threshold <= 0 {
		threshold = DefaultRefreshThreshold
	}
	return &Cache{
		threshold: threshold,
		now:       time.Now,
	}
}

// Get returns the current entry, or ok=false if nothing has been cached.
func (c *Cache) Get() (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return CacheEntry{}, false
	}
	return *c.entry, true
}

// ShouldRefresh reports whether the slot is empty or at least the
// threshold old.
func (c *Cache) ShouldRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return true
	}
	return c.now().Sub(c.entry.Timestamp) >= c.threshold
}

// Set overwrites the slot with the given set, timestamped now.
func (c *Cache) Set(data model.TrendingSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &CacheEntry{
		Timestamp: c.now(),
		Data:      data,
	}
}
