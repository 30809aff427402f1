// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Aggregation run counts, durations, and per-term query failures
//   - Trending cache hits and misses
//   - Live subscriber count and broadcast fan-out totals
//   - Snapshot write-behind batch sizes
package metrics
