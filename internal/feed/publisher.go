// Package feed publishes trending sets to Redis for sibling services
// that want the data without holding a websocket open.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solindex/trending-data/internal/config"
	"github.com/solindex/trending-data/internal/model"
)

// latestKey holds the most recent trending set as a JSON blob.
const latestKey = "trending:latest"

const publishTimeout = 5 * time.Second

// Publisher mirrors each computed trending set into Redis: the latest
// set under a fixed key, plus a pub/sub notification on the configured
// channel.
type Publisher struct {
	rdb     *redis.Client
	channel string
	logger  *slog.Logger
}

// NewPublisher creates a Publisher from feed config.
func NewPublisher(cfg config.FeedConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	return &Publisher{
		rdb:     rdb,
		channel: cfg.Channel,
		logger:  logger,
	}
}

// Publish stores the set under the latest key and notifies subscribers.
func (p *Publisher) Publish(ctx context.Context, set model.TrendingSet) error {
	if set == nil {
		set = model.TrendingSet{}
	}
	payload, err := json.Marshal(set)
	if err != nil {
		return err
	}

	if err := p.rdb.Set(ctx, latestKey, payload, 0).Err(); err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

// ConsumeTrendingSet lets the publisher act as a refresh sink. The
// publish happens off-caller since Redis is not on the hot path.
func (p *Publisher) ConsumeTrendingSet(set model.TrendingSet) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, set); err != nil {
			p.logger.Warn("feed publish failed", "err", err)
		}
	}()
}

// Close releases the Redis client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
