package model

import "time"

// Snapshot is the canonical, immutable view of one token at a point in time.
// It is produced by normalizing a raw provider pair record; all numeric
// fields are guaranteed non-NaN, with 0 standing in for anything the
// provider omitted or mangled.
type Snapshot struct {
	// Address is the lower-cased base-token mint address. Two snapshots
	// with the same Address are the same token regardless of which
	// pair or DEX produced them.
	Address string `json:"address"`

	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	// Price is the USD price of the base token.
	Price float64 `json:"price"`

	// PriceChange24h is the signed 24-hour price change in percent.
	PriceChange24h float64 `json:"priceChange24h"`

	// Volume24h is the 24-hour trade volume in USD.
	Volume24h float64 `json:"volume24h"`

	// Liquidity is the pooled liquidity in USD.
	Liquidity float64 `json:"liquidity"`

	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`

	// URL is the provider page for the pair this snapshot came from.
	URL string `json:"url"`

	LastUpdated time.Time `json:"lastUpdated"`
}

// TrendingSet is an ordered trending-token list: at most the configured
// top-N snapshots, sorted descending by Volume24h with stable ties.
// A set is never mutated after it is built; each aggregation run produces
// a fresh one.
type TrendingSet []Snapshot

// Analysis is the opaque enrichment annotation attached to a token by the
// analysis collaborator. The trending computation never depends on it.
type Analysis struct {
	RiskScore       int       `json:"riskScore"` // additive, higher = riskier
	Warnings        []string  `json:"warnings"`
	PositiveSignals []string  `json:"positiveSignals"`
	MarketStatus    string    `json:"marketStatus"`
	Sentiment       string    `json:"sentiment,omitempty"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Verification records one social-platform verification of a token, kept
// only as write-behind history.
type Verification struct {
	Platform      string    `json:"platform"`
	Username      string    `json:"username"`
	ProfileURL    string    `json:"profileUrl"`
	FollowerCount int64     `json:"followerCount"`
	IsHighProfile bool      `json:"isHighProfile"`
	VerifiedAt    time.Time `json:"verifiedAt"`
}
