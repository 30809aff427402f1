// Package model defines the canonical data types shared across the trending
// data server.
//
// Conventions:
//   - Token identity: lower-cased mint address (the same token may trade on
//     many pairs/DEXes; the address is the dedupe key)
//   - Money/volume/liquidity: float64 USD, never negative, 0 for unknown
//   - Timestamps: time.Time in UTC
package model
