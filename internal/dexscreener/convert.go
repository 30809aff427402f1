package dexscreener

import (
	"strings"
	"time"

	"github.com/solindex/trending-data/internal/model"
)

// ToSnapshot normalizes a raw pair record into a canonical token snapshot.
// It is total: every pair converts, with 0 standing in for any numeric
// field the provider omitted or mangled. Identity is the lower-cased
// base-token address.
func ToSnapshot(p Pair, now time.Time) model.Snapshot {
	var liquidity float64
	if p.Liquidity != nil {
		liquidity = float64(p.Liquidity.USD)
	}

	return model.Snapshot{
		Address:        strings.ToLower(p.BaseToken.Address),
		Symbol:         p.BaseToken.Symbol,
		Name:           p.BaseToken.Name,
		Price:          float64(p.PriceUSD),
		PriceChange24h: float64(p.PriceChange.H24),
		Volume24h:      float64(p.Volume.H24),
		Liquidity:      liquidity,
		DexID:          p.DexID,
		PairAddress:    p.PairAddress,
		URL:            "https://dexscreener.com/solana/" + p.PairAddress,
		LastUpdated:    now.UTC(),
	}
}

// ToSnapshots normalizes a batch of pairs.
func ToSnapshots(pairs []Pair, now time.Time) []model.Snapshot {
	out := make([]model.Snapshot, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, ToSnapshot(p, now))
	}
	return out
}
