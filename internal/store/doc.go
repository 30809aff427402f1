// Package store is the write-behind persistence sink for token history.
//
// The trending computation never reads this data back; it exists as a
// durable record of observed snapshots, social verifications, and
// analysis results. All writes are best-effort: a database failure is
// logged and dropped, never surfaced to the aggregation or broadcast
// paths.
package store
