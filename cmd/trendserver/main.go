package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solindex/trending-data/internal/analysis"
	"github.com/solindex/trending-data/internal/broadcast"
	"github.com/solindex/trending-data/internal/config"
	"github.com/solindex/trending-data/internal/dexscreener"
	"github.com/solindex/trending-data/internal/feed"
	"github.com/solindex/trending-data/internal/server"
	"github.com/solindex/trending-data/internal/settings"
	"github.com/solindex/trending-data/internal/store"
	"github.com/solindex/trending-data/internal/trending"
	"github.com/solindex/trending-data/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty for defaults)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting trendserver",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var cfg *config.ServerConfig
	if *configPath == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"provider_url", cfg.Provider.BaseURL,
		"search_terms", cfg.Trending.SearchTerms,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create upstream provider client
	client := dexscreener.NewClient(
		cfg.Provider.BaseURL,
		dexscreener.WithTimeout(cfg.Provider.Timeout),
		dexscreener.WithRetries(cfg.Provider.MaxRetries, 500*time.Millisecond),
		dexscreener.WithLogger(logger),
	)

	// Optional sinks fed by every recomputed trending set
	var sinks []trending.Sink

	var writer *store.SnapshotWriter
	var repo *store.Repo
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)

		p, err := store.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		pool = p
		defer pool.Close()

		writer = store.NewSnapshotWriter(cfg.Database.Writer, pool, logger)
		if err := writer.Start(ctx); err != nil {
			logger.Error("failed to start snapshot writer", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, writer)
		repo = store.NewRepo(pool, logger)

		logger.Info("database connected")
	}

	var publisher *feed.Publisher
	if cfg.Feed.Enabled {
		publisher = feed.NewPublisher(cfg.Feed, logger)
		defer publisher.Close()
		sinks = append(sinks, publisher)

		logger.Info("feed publisher enabled",
			"addr", cfg.Feed.Addr,
			"channel", cfg.Feed.Channel,
		)
	}

	// Aggregation pipeline
	agg := trending.New(trending.Config{
		Terms:        cfg.Trending.SearchTerms,
		Chain:        cfg.Trending.Chain,
		MinLiquidity: cfg.Trending.MinLiquidity,
		TopN:         cfg.Trending.TopN,
		QueryTimeout: cfg.Provider.Timeout,
	}, client, logger)

	cache := trending.NewCache(cfg.Trending.RefreshThreshold)
	refresher := trending.NewRefresher(agg, cache, sinks...)

	// Websocket broadcast hub
	hub := broadcast.NewHub(refresher, cfg.Broadcast.Interval, logger)
	if err := hub.Start(ctx); err != nil {
		logger.Error("failed to start broadcast hub", "error", err)
		os.Exit(1)
	}

	// Optional collaborators
	opts := server.Options{WSHandler: hub.Handler()}

	if cfg.Analysis.Enabled {
		opts.Analyzer = analysis.NewAnalyzer(cfg.Analysis.RPMLimit, logger)
	}
	if repo != nil {
		opts.Recorder = repo
		opts.DB = pool
	}

	settingsStore, err := settings.NewStore(cfg.Settings.Path, logger)
	if err != nil {
		logger.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	opts.Settings = settingsStore

	// HTTP server
	srv := server.New(refresher, opts, logger)
	httpServer := srv.HTTPServer(cfg.HTTP)

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	logger.Info("trendserver running",
		"instance_id", cfg.Instance.ID,
		"addr", cfg.HTTP.Addr,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := hub.Stop(shutdownCtx); err != nil {
		logger.Error("broadcast hub stop error", "error", err)
	}
	if writer != nil {
		if err := writer.Stop(shutdownCtx); err != nil {
			logger.Error("snapshot writer stop error", "error", err)
		}
	}

	logger.Info("trendserver stopped")
}
