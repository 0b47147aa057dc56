package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImageGenerationLatency records upstream generation latency by outcome.
	ImageGenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptfeed_image_generation_duration_seconds",
		Help:    "Image generation round trip latency in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"model", "outcome"})

	// StoreOperationLatency records store load/save latency by operation and backend.
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptfeed_store_operation_duration_seconds",
		Help:    "Feed store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "backend"})

	// StoreRecoveries counts corrupt documents replaced by the seed document.
	StoreRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptfeed_store_recoveries_total",
		Help: "Total number of corrupt feed documents replaced by seed data",
	}, []string{"backend"})

	// OrphanedGenerations counts generated images that could not be persisted.
	OrphanedGenerations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptfeed_orphaned_generations_total",
		Help: "Total number of generated images lost to persistence failures",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptfeed_websocket_backpressure_drops_total",
		Help: "Total number of websocket messages dropped due to full client buffers",
	}, []string{"hub"})
)

// TrackStoreOperation returns a function that records latency when called (e.g. defer).
func TrackStoreOperation(operation, backend string) func() {
	start := time.Now()
	return func() {
		StoreOperationLatency.WithLabelValues(operation, backend).Observe(time.Since(start).Seconds())
	}
}

// ObserveGeneration records one generation attempt.
func ObserveGeneration(model, outcome string, elapsed time.Duration) {
	ImageGenerationLatency.WithLabelValues(model, outcome).Observe(elapsed.Seconds())
}
