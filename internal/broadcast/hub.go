package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/solindex/trending-data/internal/metrics"
	"github.com/solindex/trending-data/internal/model"
	"github.com/solindex/trending-data/internal/trending"
)

// DefaultBroadcastInterval is the timer period between refresh attempts.
const DefaultBroadcastInterval = 30 * time.Second

// updateMessage is the wire envelope for every server-to-client message.
type updateMessage struct {
	Type string            `json:"type"`
	Data model.TrendingSet `json:"data"`
}

// refreshResult carries a completed aggregation back onto the run loop.
// A nil target means fan out to every open subscriber.
type refreshResult struct {
	set    model.TrendingSet
	target *Subscriber
}

// Hub owns the subscriber set and the broadcast timer. All state is
// confined to the run loop goroutine.
type Hub struct {
	refresher *trending.Refresher
	interval  time.Duration
	logger    *slog.Logger

	register   chan *Subscriber
	unregister chan *Subscriber
	results    chan refreshResult

	subscribers map[*Subscriber]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewHub creates a hub over the given refresher. A non-positive
// interval falls back to DefaultBroadcastInterval.
func NewHub(refresher *trending.Refresher, interval time.Duration, logger *slog.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		refresher:   refresher,
		interval:    interval,
		logger:      logger,
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		results:     make(chan refreshResult),
		subscribers: make(map[*Subscriber]struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the run loop.
func (h *Hub) Start(ctx context.Context) error {
	h.ctx, h.cancel = context.WithCancel(ctx)

	h.wg.Add(1)
	go h.run()

	h.logger.Info("broadcast hub started", "interval", h.interval)
	return nil
}

// Stop shuts the hub down: the timer stops, every open connection is
// closed best-effort, and the subscriber set is cleared.
func (h *Hub) Stop(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}

	stopped := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		h.logger.Info("broadcast hub stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the single writer for the subscriber set.
func (h *Hub) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case sub := <-h.register:
			h.handleConnect(sub)

		case sub := <-h.unregister:
			h.drop(sub)

		case res := <-h.results:
			h.handleResult(res)

		case <-ticker.C:
			h.handleTick()
		}
	}
}

// add hands a freshly upgraded connection to the run loop and starts
// its pumps.
func (h *Hub) add(conn wsConn) {
	sub := newSubscriber(h, conn)

	select {
	case h.register <- sub:
		go sub.writePump()
		go sub.readPump()
	case <-h.done:
		conn.Close()
	}
}

// remove requests eviction of a subscriber. Safe to call from any
// goroutine, any number of times, including after shutdown.
func (h *Hub) remove(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// handleConnect adds the subscriber and delivers its initial snapshot:
// cached data when fresh, otherwise the result of an async refresh.
// The refresh never blocks the loop, so concurrent connects proceed.
func (h *Hub) handleConnect(sub *Subscriber) {
	h.subscribers[sub] = struct{}{}
	metrics.Subscribers.Set(float64(len(h.subscribers)))
	h.logger.Info("subscriber connected",
		"subscriber", sub.id,
		"total", len(h.subscribers),
	)

	if set, ok := h.refresher.Cached(); ok {
		h.enqueue(sub, marshalUpdate(set))
		return
	}
	h.refreshAsync(sub)
}

// handleResult delivers a completed aggregation: to one subscriber for
// a connect-time refresh, or to everyone for a timer-driven one.
func (h *Hub) handleResult(res refreshResult) {
	payload := marshalUpdate(res.set)

	if res.target != nil {
		// The target may have disconnected while the refresh ran.
		if _, ok := h.subscribers[res.target]; ok {
			h.enqueue(res.target, payload)
		}
		return
	}

	h.logger.Debug("broadcasting trending set",
		"tokens", len(res.set),
		"subscribers", len(h.subscribers),
	)
	for sub := range h.subscribers {
		h.enqueue(sub, payload)
	}
}

// handleTick skips when a recent connect already refreshed the cache,
// otherwise kicks off a refresh whose result fans out to everyone.
func (h *Hub) handleTick() {
	if !h.refresher.Stale() {
		h.logger.Debug("cache fresh, skipping scheduled refresh")
		return
	}
	h.refreshAsync(nil)
}

// refreshAsync recomputes off-loop and posts the result back as an
// event so delivery stays serialized.
func (h *Hub) refreshAsync(target *Subscriber) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		set, _ := h.refresher.Current(h.ctx)
		select {
		case h.results <- refreshResult{set: set, target: target}:
		case <-h.done:
		}
	}()
}

// enqueue appends a payload to the subscriber's FIFO. A full queue
// means the client is not keeping up; it is evicted like a failed send.
func (h *Hub) enqueue(sub *Subscriber, payload []byte) {
	select {
	case sub.send <- payload:
	default:
		h.logger.Warn("subscriber queue full, dropping", "subscriber", sub.id)
		metrics.BroadcastSendErrors.Inc()
		h.drop(sub)
	}
}

// drop removes a subscriber from the set and closes its send channel,
// which ends its write pump. Dropping an absent subscriber is a no-op.
func (h *Hub) drop(sub *Subscriber) {
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.send)

	metrics.Subscribers.Set(float64(len(h.subscribers)))
	h.logger.Info("subscriber disconnected",
		"subscriber", sub.id,
		"total", len(h.subscribers),
	)
}

// closeAll evicts every subscriber during shutdown.
func (h *Hub) closeAll() {
	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		close(sub.send)
	}
	metrics.Subscribers.Set(0)
}

// marshalUpdate encodes the wire envelope. An empty set encodes as [],
// not null.
func marshalUpdate(set model.TrendingSet) []byte {
	if set == nil {
		set = model.TrendingSet{}
	}
	payload, err := json.Marshal(updateMessage{Type: "token_update", Data: set})
	if err != nil {
		// Snapshot fields are all plain values; this cannot fail.
		return []byte(`{"type":"token_update","data":[]}`)
	}
	return payload
}
