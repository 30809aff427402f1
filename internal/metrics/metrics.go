package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AggregationRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_aggregation_runs_total",
		Help: "Number of trending set computations",
	})

	AggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trending_aggregation_duration_seconds",
		Help:    "Time to compute one trending set across all search terms",
		Buckets: prometheus.DefBuckets,
	})

	TermQueryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trending_term_query_errors_total",
		Help: "Number of failed upstream search queries by term",
	}, []string{"term"})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_cache_hits_total",
		Help: "Number of refresh decisions served from the cache",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_cache_misses_total",
		Help: "Number of refresh decisions that triggered recomputation",
	})

	Subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trending_subscribers",
		Help: "Number of live websocket subscribers",
	})

	BroadcastsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_broadcasts_sent_total",
		Help: "Number of token_update messages delivered to subscribers",
	})

	BroadcastSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_broadcast_send_errors_total",
		Help: "Number of subscriber sends that failed and evicted the subscriber",
	})

	SnapshotWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_snapshot_writes_total",
		Help: "Number of token snapshots written to the database",
	})
)

func init() {
	prometheus.MustRegister(
		AggregationRuns,
		AggregationDuration,
		TermQueryErrors,
		CacheHits,
		CacheMisses,
		Subscribers,
		BroadcastsSent,
		BroadcastSendErrors,
		SnapshotWrites,
	)
}
