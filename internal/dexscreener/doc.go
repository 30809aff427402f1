// Package dexscreener provides the DexScreener REST client and the
// normalization of its untrusted pair records into canonical snapshots.
//
// Endpoint: https://api.dexscreener.com/latest/dex/search?q=<term>
//
// The API is public and unauthenticated but expects a browser-style
// User-Agent header. Responses are best-effort: numeric fields may be
// missing, null, zero, or non-numeric strings; normalization is total and
// collapses anything unparsable to 0.
package dexscreener
