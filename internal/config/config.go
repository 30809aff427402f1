package config

import "time"

// ServerConfig is the root configuration for a trending data server.
type ServerConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Provider  ProviderConfig  `yaml:"provider"`
	Trending  TrendingConfig  `yaml:"trending"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Feed      FeedConfig      `yaml:"feed"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Settings  SettingsConfig  `yaml:"settings"`
}

// InstanceConfig identifies this server instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ProviderConfig holds upstream market-data provider settings.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// TrendingConfig holds aggregation pipeline settings.
type TrendingConfig struct {
	SearchTerms      []string      `yaml:"search_terms"`
	Chain            string        `yaml:"chain"`
	MinLiquidity     float64       `yaml:"min_liquidity"`
	TopN             int           `yaml:"top_n"`
	RefreshThreshold time.Duration `yaml:"refresh_threshold"`
}

// BroadcastConfig holds websocket fan-out settings.
type BroadcastConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// HTTPConfig holds the public HTTP listener settings.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig holds the optional snapshot/history persistence sink.
type DatabaseConfig struct {
	Enabled  bool         `yaml:"enabled"`
	Postgres DBConfig     `yaml:"postgres"`
	Writer   WriterConfig `yaml:"writer"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WriterConfig holds snapshot write-behind batching settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// FeedConfig holds the optional Redis trending-set feed.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
	Channel string `yaml:"channel"`
}

// AnalysisConfig holds the token enrichment settings.
type AnalysisConfig struct {
	Enabled  bool `yaml:"enabled"`
	RPMLimit int  `yaml:"rpm_limit"`
}

// SettingsConfig holds the runtime settings store location.
type SettingsConfig struct {
	Path string `yaml:"path"`
}
