package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultProviderBaseURL  = "https://api.dexscreener.com/latest/dex"
	DefaultProviderTimeout  = 30 * time.Second
	DefaultMaxRetries       = 2
	DefaultChain            = "solana"
	DefaultMinLiquidity     = 10000
	DefaultTopN             = 10
	DefaultRefreshThreshold = 30 * time.Second
	DefaultBroadcastPeriod  = 30 * time.Second
	DefaultHTTPAddr         = ":8080"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultBatchSize        = 100
	DefaultFlushInterval    = 5 * time.Second
	DefaultBufferSize       = 1000
	DefaultFeedChannel      = "trending:updates"
	DefaultAnalysisRPM      = 50
	DefaultSettingsPath     = "settings.json"
)

// DefaultSearchTerms are the DEX names queried when none are configured.
var DefaultSearchTerms = []string{"raydium", "orca", "jupiter"}

func (c *ServerConfig) applyDefaults() {
	// Provider defaults
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultProviderBaseURL
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultProviderTimeout
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}

	// Trending defaults
	if len(c.Trending.SearchTerms) == 0 {
		c.Trending.SearchTerms = append([]string(nil), DefaultSearchTerms...)
	}
	if c.Trending.Chain == "" {
		c.Trending.Chain = DefaultChain
	}
	if c.Trending.MinLiquidity == 0 {
		c.Trending.MinLiquidity = DefaultMinLiquidity
	}
	if c.Trending.TopN == 0 {
		c.Trending.TopN = DefaultTopN
	}
	if c.Trending.RefreshThreshold == 0 {
		c.Trending.RefreshThreshold = DefaultRefreshThreshold
	}

	// Broadcast defaults
	if c.Broadcast.Interval == 0 {
		c.Broadcast.Interval = DefaultBroadcastPeriod
	}

	// HTTP defaults
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = DefaultIdleTimeout
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)
	if c.Database.Writer.BatchSize == 0 {
		c.Database.Writer.BatchSize = DefaultBatchSize
	}
	if c.Database.Writer.FlushInterval == 0 {
		c.Database.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Database.Writer.BufferSize == 0 {
		c.Database.Writer.BufferSize = DefaultBufferSize
	}

	// Feed defaults
	if c.Feed.Channel == "" {
		c.Feed.Channel = DefaultFeedChannel
	}

	// Analysis defaults
	if c.Analysis.RPMLimit == 0 {
		c.Analysis.RPMLimit = DefaultAnalysisRPM
	}

	// Settings defaults
	if c.Settings.Path == "" {
		c.Settings.Path = DefaultSettingsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
