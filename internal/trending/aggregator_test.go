package trending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/solindex/trending-data/internal/dexscreener"
	"github.com/solindex/trending-data/internal/model"
)

// fakeClient serves canned search results keyed by query string.
type fakeClient struct {
	mu      sync.Mutex
	calls   int
	results map[string][]dexscreener.Pair
	errs    map[string]error
}

func (f *fakeClient) Search(ctx context.Context, q string) ([]dexscreener.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[q]; ok {
		return nil, err
	}
	return f.results[q], nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pair(address string, volume, liquidity float64) dexscreener.Pair {
	return dexscreener.Pair{
		ChainID:     "solana",
		DexID:       "raydium",
		PairAddress: "pair-" + address,
		BaseToken:   dexscreener.Token{Address: address, Symbol: address, Name: address},
		Volume:      dexscreener.PeriodStats{H24: dexscreener.Numeric(volume)},
		Liquidity:   &dexscreener.Liquidity{USD: dexscreener.Numeric(liquidity)},
	}
}

func newTestAggregator(client SearchClient, terms ...string) *Aggregator {
	cfg := DefaultConfig()
	if len(terms) > 0 {
		cfg.Terms = terms
	}
	return New(cfg, client, nil)
}

// TestAggregator_FirstSeenDedup verifies that for duplicate addresses
// the earliest record by term order wins, even when a later duplicate
// has more volume.
func TestAggregator_FirstSeenDedup(t *testing.T) {
	xyz := pair("XYZ", 3000, 20000)
	abcEarly := pair("ABC", 500, 20000)
	abcLate := pair("ABC", 9000, 20000)

	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"raydium": {abcEarly, xyz},
		"orca":    {abcLate},
	}}

	a := newTestAggregator(client, "raydium", "orca")
	set := a.ComputeTrendingSet(context.Background())

	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}
	if set[0].Address != "xyz" {
		t.Errorf("set[0].Address = %q, want %q", set[0].Address, "xyz")
	}
	if set[1].Address != "abc" {
		t.Errorf("set[1].Address = %q, want %q", set[1].Address, "abc")
	}
	if set[1].Volume24h != 500 {
		t.Errorf("set[1].Volume24h = %v, want first-seen 500", set[1].Volume24h)
	}
}

// TestAggregator_AllTermsFail verifies a total upstream outage yields an
// empty set rather than an error.
func TestAggregator_AllTermsFail(t *testing.T) {
	client := &fakeClient{errs: map[string]error{
		"raydium": errors.New("timeout"),
		"orca":    errors.New("timeout"),
		"jupiter": errors.New("timeout"),
	}}

	a := newTestAggregator(client)
	set := a.ComputeTrendingSet(context.Background())

	if len(set) != 0 {
		t.Errorf("len(set) = %d, want 0", len(set))
	}
}

// TestAggregator_PartialTermFailure verifies one failed term does not
// suppress the others' contributions.
func TestAggregator_PartialTermFailure(t *testing.T) {
	client := &fakeClient{
		results: map[string][]dexscreener.Pair{
			"raydium": {pair("AAA", 1000, 20000)},
			"jupiter": {pair("BBB", 2000, 20000)},
		},
		errs: map[string]error{
			"orca": errors.New("503"),
		},
	}

	a := newTestAggregator(client)
	set := a.ComputeTrendingSet(context.Background())

	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}
	if set[0].Address != "bbb" || set[1].Address != "aaa" {
		t.Errorf("order = [%s, %s], want [bbb, aaa]", set[0].Address, set[1].Address)
	}
}

// TestAggregator_FilterInvariant verifies chain, volume, and liquidity
// filters exclude ineligible pairs.
func TestAggregator_FilterInvariant(t *testing.T) {
	wrongChain := pair("CHAIN", 5000, 50000)
	wrongChain.ChainID = "ethereum"

	zeroVolume := pair("ZEROVOL", 0, 50000)
	lowLiquidity := pair("LOWLIQ", 5000, 9999)
	noLiquidity := pair("NOLIQ", 5000, 0)
	noLiquidity.Liquidity = nil
	keeper := pair("KEEP", 5000, 10001)

	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"raydium": {wrongChain, zeroVolume, lowLiquidity, noLiquidity, keeper},
	}}

	a := newTestAggregator(client, "raydium")
	set := a.ComputeTrendingSet(context.Background())

	if len(set) != 1 {
		t.Fatalf("len(set) = %d, want 1", len(set))
	}
	if set[0].Address != "keep" {
		t.Errorf("survivor = %q, want %q", set[0].Address, "keep")
	}
	for _, s := range set {
		if s.Volume24h <= 0 || s.Liquidity <= 10000 {
			t.Errorf("filter invariant violated: %+v", s)
		}
	}
}

// TestAggregator_RankAndTruncate verifies descending volume order,
// stable ties, and the top-10 cap.
func TestAggregator_RankAndTruncate(t *testing.T) {
	var pairs []dexscreener.Pair
	for i := 0; i < 12; i++ {
		pairs = append(pairs, pair(fmt.Sprintf("TOK%02d", i), float64(100*(i+1)), 20000))
	}
	// Two equal-volume pairs; discovery order must hold between them.
	pairs = append(pairs,
		pair("TIEA", 650, 20000),
		pair("TIEB", 650, 20000),
	)

	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"raydium": pairs,
	}}

	a := newTestAggregator(client, "raydium")
	set := a.ComputeTrendingSet(context.Background())

	if len(set) != 10 {
		t.Fatalf("len(set) = %d, want 10", len(set))
	}
	for i := 1; i < len(set); i++ {
		if set[i].Volume24h > set[i-1].Volume24h {
			t.Errorf("not sorted at %d: %v > %v", i, set[i].Volume24h, set[i-1].Volume24h)
		}
	}

	// Find the tie; tiea must precede tieb.
	ia, ib := -1, -1
	for i, s := range set {
		switch s.Address {
		case "tiea":
			ia = i
		case "tieb":
			ib = i
		}
	}
	if ia == -1 || ib == -1 || ia > ib {
		t.Errorf("tie order: tiea at %d, tieb at %d", ia, ib)
	}
}

// TestAggregator_Determinism verifies identical inputs produce identical
// output across runs despite concurrent term queries.
func TestAggregator_Determinism(t *testing.T) {
	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"raydium": {pair("AAA", 1000, 20000), pair("BBB", 1000, 20000)},
		"orca":    {pair("CCC", 1000, 20000)},
		"jupiter": {pair("DDD", 2000, 20000)},
	}}

	a := newTestAggregator(client)
	first := a.ComputeTrendingSet(context.Background())

	for run := 0; run < 20; run++ {
		got := a.ComputeTrendingSet(context.Background())
		if len(got) != len(first) {
			t.Fatalf("run %d: len = %d, want %d", run, len(got), len(first))
		}
		for i := range got {
			if got[i].Address != first[i].Address {
				t.Fatalf("run %d: position %d = %q, want %q", run, i, got[i].Address, first[i].Address)
			}
		}
	}
}

// TestAggregator_LookupPrefersVolume verifies the single-address lookup
// picks the highest-volume matching pair rather than the first seen.
func TestAggregator_LookupPrefersVolume(t *testing.T) {
	low := pair("MINT1", 100, 20000)
	high := pair("MINT1", 4000, 20000)
	high.PairAddress = "pair-best"

	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"MINT1 raydium": {low},
		"MINT1 orca":    {high},
	}}

	a := newTestAggregator(client, "raydium", "orca")
	snap, err := a.Lookup(context.Background(), "MINT1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Volume24h != 4000 {
		t.Errorf("Volume24h = %v, want 4000", snap.Volume24h)
	}
	if snap.PairAddress != "pair-best" {
		t.Errorf("PairAddress = %q, want %q", snap.PairAddress, "pair-best")
	}
}

// TestAggregator_LookupNotFound verifies the explicit not-found signal.
func TestAggregator_LookupNotFound(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		a := newTestAggregator(&fakeClient{})
		_, err := a.Lookup(context.Background(), "UNKNOWN")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("wrong chain excluded", func(t *testing.T) {
		p := pair("MINT1", 4000, 20000)
		p.ChainID = "ethereum"
		client := &fakeClient{results: map[string][]dexscreener.Pair{
			"MINT1 raydium": {p},
		}}

		a := newTestAggregator(client, "raydium")
		_, err := a.Lookup(context.Background(), "MINT1")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("address match is case-insensitive", func(t *testing.T) {
		client := &fakeClient{results: map[string][]dexscreener.Pair{
			"MiNt1 raydium": {pair("mInT1", 500, 20000)},
		}}

		a := newTestAggregator(client, "raydium")
		snap, err := a.Lookup(context.Background(), "MiNt1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Address != "mint1" {
			t.Errorf("Address = %q, want %q", snap.Address, "mint1")
		}
	})

	t.Run("empty address", func(t *testing.T) {
		a := newTestAggregator(&fakeClient{})
		_, err := a.Lookup(context.Background(), "  ")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

// TestRefresher_Current verifies the read-through cache behavior.
func TestRefresher_Current(t *testing.T) {
	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"raydium": {pair("AAA", 1000, 20000)},
	}}

	a := newTestAggregator(client, "raydium")
	cache := NewCache(30 * time.Second)
	r := NewRefresher(a, cache)

	set, refreshed := r.Current(context.Background())
	if !refreshed {
		t.Error("first call should refresh")
	}
	if len(set) != 1 {
		t.Fatalf("len(set) = %d, want 1", len(set))
	}
	firstCalls := client.callCount()

	// Within the freshness window: served from cache, no new queries.
	set, refreshed = r.Current(context.Background())
	if refreshed {
		t.Error("second call within threshold should not refresh")
	}
	if len(set) != 1 {
		t.Fatalf("len(set) = %d, want 1", len(set))
	}
	if client.callCount() != firstCalls {
		t.Errorf("upstream calls = %d, want %d", client.callCount(), firstCalls)
	}

	// Age the entry past the threshold: next call recomputes.
	cache.now = func() time.Time { return time.Now().Add(31 * time.Second) }
	_, refreshed = r.Current(context.Background())
	if !refreshed {
		t.Error("stale entry should trigger refresh")
	}
	if client.callCount() == firstCalls {
		t.Error("stale refresh should hit upstream again")
	}
}

type recordingSink struct {
	mu   sync.Mutex
	sets []model.TrendingSet
}

func (s *recordingSink) ConsumeTrendingSet(set model.TrendingSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, set)
}

// TestRefresher_SinksSeeOnlyRecomputations verifies sinks observe each
// fresh computation and nothing on cache hits.
func TestRefresher_SinksSeeOnlyRecomputations(t *testing.T) {
	client := &fakeClient{results: map[string][]dexscreener.Pair{
		"raydium": {pair("AAA", 1000, 20000)},
	}}

	sink := &recordingSink{}
	a := newTestAggregator(client, "raydium")
	r := NewRefresher(a, NewCache(30*time.Second), sink)

	r.Current(context.Background())
	r.Current(context.Background()) // cache hit

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.sets) != 1 {
		t.Fatalf("sink saw %d sets, want 1", len(sink.sets))
	}
	if len(sink.sets[0]) != 1 || sink.sets[0][0].Address != "aaa" {
		t.Errorf("sink set = %+v", sink.sets[0])
	}
}
