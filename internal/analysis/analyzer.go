// Package analysis produces opaque risk annotations for token
// snapshots. It is an enrichment collaborator: the trending computation
// never depends on it, and every caller must tolerate a rate-limit
// refusal or an error.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/solindex/trending-data/internal/model"
)

// ErrRateLimited is returned when the per-minute request budget is
// exhausted. Callers skip enrichment rather than wait.
var ErrRateLimited = errors.New("analysis rate limit reached")

// Risk scoring thresholds.
const (
	lowLiquidityFloor = 10000
	lowVolumeFloor    = 5000
	volatilityCeiling = 50 // percent, absolute
	riskyScoreCeiling = 30
)

// Annotator enriches a snapshot with a qualitative annotation.
type Annotator interface {
	Annotate(ctx context.Context, snap model.Snapshot) (model.Analysis, error)
}

// Analyzer scores tokens with local market-metric heuristics, bounded
// by a fixed-window requests-per-minute limit.
type Analyzer struct {
	limiter *rateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnalyzer creates an Analyzer allowing rpmLimit requests per minute.
func NewAnalyzer(rpmLimit int, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		limiter: newRateLimiter(rpmLimit),
		logger:  logger,
		now:     time.Now,
	}
}

// Annotate scores one snapshot. It returns ErrRateLimited when the
// minute budget is spent.
func (a *Analyzer) Annotate(ctx context.Context, snap model.Snapshot) (model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return model.Analysis{}, err
	}
	if !a.limiter.allow() {
		return model.Analysis{}, ErrRateLimited
	}

	result := a.score(snap)
	a.logger.Debug("token analyzed",
		"address", snap.Address,
		"risk_score", result.RiskScore,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// score applies the metric heuristics. Warnings add to the risk score;
// healthy metrics land in positive signals instead.
func (a *Analyzer) score(snap model.Snapshot) model.Analysis {
	result := model.Analysis{
		Warnings:        []string{},
		PositiveSignals: []string{},
		Sentiment:       "Neutral",
		LastUpdated:     a.now().UTC(),
	}

	if snap.Liquidity < lowLiquidityFloor {
		result.Warnings = append(result.Warnings, "Low liquidity")
		result.RiskScore += 20
	} else {
		result.PositiveSignals = append(result.PositiveSignals, "Good liquidity")
	}

	if math.Abs(snap.PriceChange24h) > volatilityCeiling {
		result.Warnings = append(result.Warnings, "Extreme price volatility")
		result.RiskScore += 15
	} else if snap.PriceChange24h > 0 {
		result.PositiveSignals = append(result.PositiveSignals, "Positive price trend")
	}

	if snap.Volume24h < lowVolumeFloor {
		result.Warnings = append(result.Warnings, "Low trading volume")
		result.RiskScore += 10
	} else {
		result.PositiveSignals = append(result.PositiveSignals, "Healthy trading volume")
	}

	if result.RiskScore > riskyScoreCeiling {
		result.MarketStatus = "risky"
	} else {
		result.MarketStatus = "normal"
	}

	return result
}

// rateLimiter is a fixed one-minute window counter.
type rateLimiter struct {
	mu          sync.Mutex
	limit       int
	count       int
	windowStart time.Time
	now         func() time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit: limit,
		now:   time.Now,
	}
}

func (l *rateLimiter) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= time.Minute {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}
