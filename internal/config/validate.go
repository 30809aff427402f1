package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServerConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if len(c.Trending.SearchTerms) == 0 {
		return errors.New("trending.search_terms must not be empty")
	}
	if c.Trending.MinLiquidity < 0 {
		return errors.New("trending.min_liquidity must be >= 0")
	}
	if c.Trending.TopN < 1 {
		return errors.New("trending.top_n must be >= 1")
	}
	if c.Trending.RefreshThreshold <= 0 {
		return errors.New("trending.refresh_threshold must be positive")
	}

	if c.Broadcast.Interval <= 0 {
		return errors.New("broadcast.interval must be positive")
	}

	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}

	if c.Database.Enabled {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
		if c.Database.Writer.BatchSize < 1 {
			return errors.New("database.writer.batch_size must be >= 1")
		}
		if c.Database.Writer.BufferSize < 1 {
			return errors.New("database.writer.buffer_size must be >= 1")
		}
	}

	if c.Feed.Enabled && c.Feed.Addr == "" {
		return errors.New("feed.addr is required when feed is enabled")
	}

	if c.Analysis.Enabled && c.Analysis.RPMLimit < 1 {
		return errors.New("analysis.rpm_limit must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
