package trending

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solindex/trending-data/internal/dexscreener"
	"github.com/solindex/trending-data/internal/metrics"
	"github.com/solindex/trending-data/internal/model"
)

// ErrNotFound is returned by Lookup when no pair matches the address.
var ErrNotFound = errors.New("token not found")

// SearchClient issues one upstream search query per term.
type SearchClient interface {
	Search(ctx context.Context, term string) ([]dexscreener.Pair, error)
}

// Config holds aggregator configuration.
type Config struct {
	Terms        []string      // DEX search terms, in preference order
	Chain        string        // Target chain ID (default: solana)
	MinLiquidity float64       // Liquidity floor in USD (default: 10000)
	TopN         int           // Max trending set size (default: 10)
	QueryTimeout time.Duration // Per-term query timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Terms:        []string{"raydium", "orca", "jupiter"},
		Chain:        "solana",
		MinLiquidity: 10000,
		TopN:         10,
		QueryTimeout: 30 * time.Second,
	}
}

// Aggregator merges multi-term search results into a ranked trending set.
type Aggregator struct {
	cfg    Config
	client SearchClient
	logger *slog.Logger

	now func() time.Time
}

// New creates a new Aggregator. Zero-valued config fields take defaults.
func New(cfg Config, client SearchClient, logger *slog.Logger) *Aggregator {
	def := DefaultConfig()
	if len(cfg.Terms) == 0 {
		cfg.Terms = def.Terms
	}
	if cfg.Chain == "" {
		cfg.Chain = def.Chain
	}
	if cfg.MinLiquidity == 0 {
		cfg.MinLiquidity = def.MinLiquidity
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = def.QueryTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		cfg:    cfg,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// ComputeTrendingSet runs the full aggregation pipeline. It never
// returns an error: a failed term contributes nothing, and a total
// upstream outage yields an empty set.
func (a *Aggregator) ComputeTrendingSet(ctx context.Context) model.TrendingSet {
	start := a.now()
	metrics.AggregationRuns.Inc()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	merged := a.queryAll(ctx, a.cfg.Terms)
	deduped := dedupeFirstSeen(merged)
	eligible := a.filterEligible(deduped)

	// Stable sort keeps discovery order for equal volumes.
	sort.SliceStable(eligible, func(i, j int) bool {
		return float64(eligible[i].Volume.H24) > float64(eligible[j].Volume.H24)
	})

	if len(eligible) > a.cfg.TopN {
		eligible = eligible[:a.cfg.TopN]
	}

	set := model.TrendingSet(dexscreener.ToSnapshots(eligible, a.now()))

	a.logger.Info("trending set computed",
		"candidates", len(merged),
		"deduped", len(deduped),
		"eligible", len(eligible),
		"size", len(set),
		"duration", time.Since(start),
	)

	return set
}

// Lookup finds a single token by its mint address. Queries are
// parameterized by address plus each term; among address-matching pairs
// on the target chain, the one with the highest 24h volume wins. This
// is a different tie-break than the set-level first-seen dedupe and is
// deliberate: a direct lookup should surface the most active pair.
func (a *Aggregator) Lookup(ctx context.Context, address string) (model.Snapshot, error) {
	addr := strings.ToLower(strings.TrimSpace(address))
	if addr == "" {
		return model.Snapshot{}, ErrNotFound
	}

	queries := make([]string, len(a.cfg.Terms))
	for i, term := range a.cfg.Terms {
		queries[i] = address + " " + term
	}

	var best *dexscreener.Pair
	for _, p := range a.queryAll(ctx, queries) {
		if p.ChainID != a.cfg.Chain {
			continue
		}
		if strings.ToLower(p.BaseToken.Address) != addr {
			continue
		}
		if best == nil || float64(p.Volume.H24) > float64(best.Volume.H24) {
			q := p
			best = &q
		}
	}

	if best == nil {
		a.logger.Debug("no matching pairs for token", "address", addr)
		return model.Snapshot{}, ErrNotFound
	}

	return dexscreener.ToSnapshot(*best, a.now()), nil
}

// queryAll issues one search per query concurrently and merges the
// results in query order. Failures are logged and swallowed so a bad
// term never cancels its siblings.
func (a *Aggregator) queryAll(ctx context.Context, queries []string) []dexscreener.Pair {
	results := make([][]dexscreener.Pair, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(ctx, a.cfg.QueryTimeout)
			defer cancel()

			pairs, err := a.client.Search(qctx, q)
			if err != nil {
				a.logger.Warn("term query failed",
					"query", q,
					"err", err,
				)
				metrics.TermQueryErrors.WithLabelValues(q).Inc()
				return nil
			}

			results[i] = pairs
			return nil
		})
	}
	g.Wait()

	var merged []dexscreener.Pair
	for _, pairs := range results {
		merged = append(merged, pairs...)
	}
	return merged
}

// dedupeFirstSeen drops pairs whose base-token address was already seen,
// case-insensitively. Pairs with no base-token address are dropped.
func dedupeFirstSeen(pairs []dexscreener.Pair) []dexscreener.Pair {
	seen := make(map[string]struct{}, len(pairs))
	out := pairs[:0:0]

	for _, p := range pairs {
		addr := strings.ToLower(p.BaseToken.Address)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, p)
	}
	return out
}

// filterEligible keeps pairs on the target chain with positive 24h
// volume and liquidity above the floor. Unparsable numerics decode as 0
// and fail these checks.
func (a *Aggregator) filterEligible(pairs []dexscreener.Pair) []dexscreener.Pair {
	out := pairs[:0:0]
	for _, p := range pairs {
		if p.ChainID != a.cfg.Chain {
			continue
		}
		if float64(p.Volume.H24) <= 0 {
			continue
		}
		var liq float64
		if p.Liquidity != nil {
			liq = float64(p.Liquidity.USD)
		}
		if liq <= a.cfg.MinLiquidity {
			continue
		}
		out = append(out, p)
	}
	return out
}
