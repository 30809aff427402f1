package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solindex/trending-data/internal/model"
)

// highProfileFollowers is the follower count at which a verifying
// account is flagged high-profile.
const highProfileFollowers = 100000

// Repo persists per-token history rows.
type Repo struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewRepo creates a Repo over an existing pool.
func NewRepo(db *pgxpool.Pool, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{db: db, logger: logger}
}

// RecordVerification upserts the token row and appends one social
// verification event to its history.
func (r *Repo) RecordVerification(ctx context.Context, address string, v model.Verification) error {
	if err := r.upsertToken(ctx, address, "", ""); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO token_verifications (address, platform, username, profile_url, follower_count, is_high_profile, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, address, v.Platform, v.Username, v.ProfileURL, v.FollowerCount,
		v.FollowerCount > highProfileFollowers, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}

	return nil
}

// UpdateAnalysis upserts the token row and replaces its current
// analysis annotation.
func (r *Repo) UpdateAnalysis(ctx context.Context, address string, a model.Analysis) error {
	if err := r.upsertToken(ctx, address, "", ""); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO token_analysis (address, risk_score, warnings, positive_signals, market_status, sentiment, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (address) DO UPDATE SET
			risk_score = EXCLUDED.risk_score,
			warnings = EXCLUDED.warnings,
			positive_signals = EXCLUDED.positive_signals,
			market_status = EXCLUDED.market_status,
			sentiment = EXCLUDED.sentiment,
			last_updated = EXCLUDED.last_updated
	`, address, a.RiskScore, a.Warnings, a.PositiveSignals, a.MarketStatus, a.Sentiment, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}

	return nil
}

// upsertToken ensures a token row exists, refreshing its identity
// fields when known.
func (r *Repo) upsertToken(ctx context.Context, address, symbol, name string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tokens (address, symbol, name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE SET
			symbol = CASE WHEN EXCLUDED.symbol <> '' THEN EXCLUDED.symbol ELSE tokens.symbol END,
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE tokens.name END,
			updated_at = EXCLUDED.updated_at
	`, address, symbol, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}
