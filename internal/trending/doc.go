// Package trending computes the ranked trending-token set.
//
// The aggregator fans one search query out per configured term, merges
// the results in term order, dedupes by base-token address (first seen
// wins), filters to the target chain with positive volume and a minimum
// liquidity floor, ranks by 24h volume, and truncates to the top N.
// A term failure contributes nothing; if every term fails the result is
// an empty set, never an error.
//
// The cache is a single slot holding the most recent set plus its
// timestamp. Staleness is judged lazily against the refresh threshold;
// there is no eviction goroutine.
package trending
