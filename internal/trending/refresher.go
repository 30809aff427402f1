package trending

import (
	"context"

	"github.com/solindex/trending-data/internal/metrics"
	"github.com/solindex/trending-data/internal/model"
)

// Sink receives every freshly computed trending set. Implementations
// must not block; slow consumers buffer or spawn their own work.
type Sink interface {
	ConsumeTrendingSet(model.TrendingSet)
}

// Refresher is the read-through pairing of an aggregator and its cache.
// Concurrent callers may both observe staleness and recompute; that is
// tolerated duplicate work, and the cache slot is last-write-wins.
type Refresher struct {
	agg   *Aggregator
	cache *Cache
	sinks []Sink
}

// NewRefresher creates a Refresher over the given aggregator and cache.
// Sinks are handed each recomputed set after the cache is updated.
func NewRefresher(agg *Aggregator, cache *Cache, sinks ...Sink) *Refresher {
	return &Refresher{agg: agg, cache: cache, sinks: sinks}
}

// Current returns the current trending set, recomputing when the cache
// is empty or stale. The second result reports whether a recomputation
// happened, which broadcast callers use to decide whether to fan out.
func (r *Refresher) Current(ctx context.Context) (model.TrendingSet, bool) {
	if !r.cache.ShouldRefresh() {
		if entry, ok := r.cache.Get(); ok {
			metrics.CacheHits.Inc()
			return entry.Data, false
		}
	}

	metrics.CacheMisses.Inc()
	set := r.agg.ComputeTrendingSet(ctx)
	r.cache.Set(set)

	for _, sink := range r.sinks {
		sink.ConsumeTrendingSet(set)
	}

	return set, true
}

// Cached returns the cached set if it exists and is still fresh.
func (r *Refresher) Cached() (model.TrendingSet, bool) {
	if r.cache.ShouldRefresh() {
		return nil, false
	}
	entry, ok := r.cache.Get()
	if !ok {
		return nil, false
	}
	metrics.CacheHits.Inc()
	return entry.Data, true
}

// Stale reports whether the cache is empty or past its threshold.
func (r *Refresher) Stale() bool {
	return r.cache.ShouldRefresh()
}

// Lookup resolves a single token by address, bypassing the cache.
func (r *Refresher) Lookup(ctx context.Context, address string) (model.Snapshot, error) {
	return r.agg.Lookup(ctx, address)
}
