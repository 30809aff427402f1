package dexscreener

import (
	"encoding/json"
	"testing"
	"time"
)

// TestToSnapshot tests normalization of raw pairs into snapshots.
func TestToSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("complete pair", func(t *testing.T) {
		p := Pair{
			ChainID:     "solana",
			DexID:       "raydium",
			PairAddress: "PAIRADDR",
			BaseToken:   Token{Address: "MiNtAddRess", Name: "Test Token", Symbol: "TST"},
			PriceUSD:    1.25,
			Volume:      PeriodStats{H24: 9000},
			PriceChange: PeriodStats{H24: -3.5},
			Liquidity:   &Liquidity{USD: 50000},
		}

		s := ToSnapshot(p, now)
		if s.Address != "mintaddress" {
			t.Errorf("Address = %q, want lower-cased %q", s.Address, "mintaddress")
		}
		if s.Symbol != "TST" || s.Name != "Test Token" {
			t.Errorf("identity fields = %q/%q", s.Symbol, s.Name)
		}
		if s.Price != 1.25 {
			t.Errorf("Price = %v, want 1.25", s.Price)
		}
		if s.PriceChange24h != -3.5 {
			t.Errorf("PriceChange24h = %v, want -3.5", s.PriceChange24h)
		}
		if s.Volume24h != 9000 {
			t.Errorf("Volume24h = %v, want 9000", s.Volume24h)
		}
		if s.Liquidity != 50000 {
			t.Errorf("Liquidity = %v, want 50000", s.Liquidity)
		}
		if s.URL != "https://dexscreener.com/solana/PAIRADDR" {
			t.Errorf("URL = %q", s.URL)
		}
		if !s.LastUpdated.Equal(now) {
			t.Errorf("LastUpdated = %v, want %v", s.LastUpdated, now)
		}
	})

	t.Run("missing liquidity collapses to zero", func(t *testing.T) {
		p := Pair{
			BaseToken: Token{Address: "addr"},
			Liquidity: nil,
		}
		s := ToSnapshot(p, now)
		if s.Liquidity != 0 {
			t.Errorf("Liquidity = %v, want 0", s.Liquidity)
		}
	})

	t.Run("unparsable wire numerics collapse to zero", func(t *testing.T) {
		raw := []byte(`{
			"chainId": "solana",
			"dexId": "orca",
			"pairAddress": "P1",
			"baseToken": {"address": "ADDR", "symbol": "X", "name": "X Token"},
			"priceUsd": "not-a-number",
			"volume": {"h24": null},
			"priceChange": {"h24": "??"},
			"liquidity": {"usd": "12345.6"}
		}`)

		var p Pair
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		s := ToSnapshot(p, now)
		if s.Price != 0 {
			t.Errorf("Price = %v, want 0", s.Price)
		}
		if s.Volume24h != 0 {
			t.Errorf("Volume24h = %v, want 0", s.Volume24h)
		}
		if s.PriceChange24h != 0 {
			t.Errorf("PriceChange24h = %v, want 0", s.PriceChange24h)
		}
		if s.Liquidity != 12345.6 {
			t.Errorf("Liquidity = %v, want 12345.6", s.Liquidity)
		}
	})

	t.Run("batch conversion preserves order", func(t *testing.T) {
		pairs := []Pair{
			{BaseToken: Token{Address: "A"}},
			{BaseToken: Token{Address: "B"}},
			{BaseToken: Token{Address: "C"}},
		}
		out := ToSnapshots(pairs, now)
		if len(out) != 3 {
			t.Fatalf("len = %d, want 3", len(out))
		}
		if out[0].Address != "a" || out[1].Address != "b" || out[2].Address != "c" {
			t.Errorf("order not preserved: %v", out)
		}
	})
}
