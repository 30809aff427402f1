package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solindex/trending-data/internal/config"
	"github.com/solindex/trending-data/internal/metrics"
	"github.com/solindex/trending-data/internal/model"
)

// WriterMetrics tracks write-behind counters.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}

// snapshotRow is the flattened table shape of one observed snapshot.
type snapshotRow struct {
	Address        string
	Symbol         string
	Name           string
	Price          float64
	PriceChange24h float64
	Volume24h      float64
	Liquidity      float64
	DexID          string
	PairAddress    string
	URL            string
	ObservedAt     int64 // microseconds
}

// SnapshotWriter batches trending snapshots into the token_snapshots
// table. Enqueue never blocks the caller; when the buffer is full the
// snapshot is dropped, since history is best-effort.
type SnapshotWriter struct {
	cfg    config.WriterConfig
	logger *slog.Logger

	input chan model.Snapshot
	db    *pgxpool.Pool

	batch       []snapshotRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewSnapshotWriter creates a new SnapshotWriter.
func NewSnapshotWriter(cfg config.WriterConfig, db *pgxpool.Pool, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = config.DefaultFlushInterval
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = config.DefaultBufferSize
	}

	return &SnapshotWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.Snapshot, cfg.BufferSize),
		batch:  make([]snapshotRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming snapshots and writing to the database.
func (w *SnapshotWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *SnapshotWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("snapshot writer stopped")
	case <-ctx.Done():
		w.logger.Warn("snapshot writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Enqueue queues every snapshot in the set for persistence.
func (w *SnapshotWriter) Enqueue(set model.TrendingSet) {
	for _, snap := range set {
		select {
		case w.input <- snap:
		default:
			w.logger.Warn("snapshot buffer full, dropping", "address", snap.Address)
		}
	}
}

// ConsumeTrendingSet lets the writer act as a refresh sink.
func (w *SnapshotWriter) ConsumeTrendingSet(set model.TrendingSet) {
	w.Enqueue(set)
}

// Stats returns current counters.
func (w *SnapshotWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input channel and accumulates batches.
func (w *SnapshotWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case snap := <-w.input:
			w.handleSnapshot(snap)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *SnapshotWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleSnapshot transforms and adds a snapshot to the batch.
func (w *SnapshotWriter) handleSnapshot(snap model.Snapshot) {
	row := w.transform(snap)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// transform converts a Snapshot to a snapshotRow.
func (w *SnapshotWriter) transform(snap model.Snapshot) snapshotRow {
	return snapshotRow{
		Address:        snap.Address,
		Symbol:         snap.Symbol,
		Name:           snap.Name,
		Price:          snap.Price,
		PriceChange24h: snap.PriceChange24h,
		Volume24h:      snap.Volume24h,
		Liquidity:      snap.Liquidity,
		DexID:          snap.DexID,
		PairAddress:    snap.PairAddress,
		URL:            snap.URL,
		ObservedAt:     snap.LastUpdated.UnixMicro(),
	}
}

// flush writes the current batch to the database.
func (w *SnapshotWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]snapshotRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	inserted := len(batch) - conflicts
	metrics.SnapshotWrites.Add(float64(inserted))

	w.batchMu.Lock()
	w.metrics.Inserts += int64(inserted)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed snapshots",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *SnapshotWriter) batchInsert(rows []snapshotRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO token_snapshots (address, symbol, name, price, price_change_24h, volume_24h, liquidity, dex_id, pair_address, url, observed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (address, observed_at) DO NOTHING
		`, r.Address, r.Symbol, r.Name, r.Price, r.PriceChange24h, r.Volume24h, r.Liquidity, r.DexID, r.PairAddress, r.URL, r.ObservedAt)
	}

	results := w.db.SendBatch(w.ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
