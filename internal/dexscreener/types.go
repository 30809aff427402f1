package dexscreener

import (
	"encoding/json"
	"strconv"
)

// Numeric is a float64 that tolerates the API's loose numeric encoding.
// DexScreener serves numbers, quoted numbers, nulls, and the occasional
// junk string for the same field depending on the pair; anything that
// does not parse decodes as 0.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*n = 0
		return nil
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}

	*n = Numeric(f)
	return nil
}

// SearchResponse is the response from /search.
type SearchResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Pair is a raw pair record as served by the API. Field presence is
// best-effort; consumers must go through ToSnapshot rather than read
// numeric fields directly.
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	URL         string `json:"url"`
	PairAddress string `json:"pairAddress"`

	BaseToken  Token `json:"baseToken"`
	QuoteToken Token `json:"quoteToken"`

	PriceNative Numeric `json:"priceNative"`
	PriceUSD    Numeric `json:"priceUsd"`

	Volume      PeriodStats `json:"volume"`
	PriceChange PeriodStats `json:"priceChange"`
	Txns        Txns        `json:"txns"`

	Liquidity *Liquidity `json:"liquidity"`

	FDV           Numeric `json:"fdv"`
	MarketCap     Numeric `json:"marketCap"`
	PairCreatedAt int64   `json:"pairCreatedAt"`
}

// Token identifies one side of a pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// PeriodStats holds per-window stats keyed by the API's fixed windows.
type PeriodStats struct {
	M5  Numeric `json:"m5"`
	H1  Numeric `json:"h1"`
	H6  Numeric `json:"h6"`
	H24 Numeric `json:"h24"`
}

// Liquidity is the pooled liquidity of a pair. The whole object may be
// absent for new or dead pairs.
type Liquidity struct {
	USD   Numeric `json:"usd"`
	Base  Numeric `json:"base"`
	Quote Numeric `json:"quote"`
}

// Txns counts buys and sells per window.
type Txns struct {
	M5  TxnCounts `json:"m5"`
	H1  TxnCounts `json:"h1"`
	H6  TxnCounts `json:"h6"`
	H24 TxnCounts `json:"h24"`
}

// TxnCounts is a buy/sell count pair.
type TxnCounts struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

var _ json.Unmarshaler = (*Numeric)(nil)
