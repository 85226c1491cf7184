package metrics

import (
	"fmt"

	"github.com/gaze-network/near-indexer/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LogErrorMalformed   = "malformed"
	LogErrorPersistence = "persistence"
)

// IndexerMetrics tracks block processing progress. A nil *IndexerMetrics is valid and records nothing.
type IndexerMetrics struct {
	syncedHeightGauge    prometheus.Gauge
	processedBlocksCount prometheus.Counter
	processedReceipts    prometheus.Counter
	handledEvents        *prometheus.CounterVec
	logErrors            *prometheus.CounterVec
	blockDuration        prometheus.Histogram
	saleVolumeNear       prometheus.Counter
}

func NewIndexerMetrics(namespace string, registerer prometheus.Registerer) *IndexerMetrics {
	factory := promauto.With(registerer)
	return &IndexerMetrics{
		syncedHeightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_synced_height", namespace),
			Help: "The latest fully processed block height",
		}),
		processedBlocksCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_processed_block_count", namespace),
			Help: "The total number of processed blocks",
		}),
		processedReceipts: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_processed_receipt_count", namespace),
			Help: "The total number of processed receipts with logs",
		}),
		handledEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_handled_event_count", namespace),
			Help: "The total number of dispatched events by standard, version and event",
		}, []string{"standard", "version", "event"}),
		logErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_log_error_count", namespace),
			Help: "The total number of log lines that failed to apply",
		}, []string{"kind"}),
		blockDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_block_duration_seconds", namespace),
			Help:    "Time spent processing one block",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		saleVolumeNear: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_sale_volume_near", namespace),
			Help: "The total NEAR-denominated volume of indexed sales",
		}),
	}
}

func (m *IndexerMetrics) SetSyncedHeight(height int64) {
	if m == nil {
		return
	}
	m.syncedHeightGauge.Set(float64(height))
	m.processedBlocksCount.Inc()
}

func (m *IndexerMetrics) AddProcessedReceipts(count int) {
	if m == nil {
		return
	}
	m.processedReceipts.Add(float64(count))
}

func (m *IndexerMetrics) IncHandledEvent(standard, version, event string) {
	if m == nil {
		return
	}
	m.handledEvents.WithLabelValues(standard, version, event).Inc()
}

func (m *IndexerMetrics) IncLogError(kind string) {
	if m == nil {
		return
	}
	m.logErrors.WithLabelValues(kind).Inc()
}

func (m *IndexerMetrics) ObserveBlockDuration(seconds float64) {
	if m == nil {
		return
	}
	m.blockDuration.Observe(seconds)
}

// AddSaleVolume records a sale price given in yoctoNEAR.
func (m *IndexerMetrics) AddSaleVolume(price uint128.Uint128) {
	if m == nil {
		return
	}
	volume, _ := decimals.YoctoToNear(price).Float64()
	m.saleVolumeNear.Add(volume)
}

// NotifierMetrics tracks the enrichment side channel. A nil *NotifierMetrics is valid and records nothing.
type NotifierMetrics struct {
	sentCount    prometheus.Counter
	failedCount  prometheus.Counter
	droppedCount prometheus.Counter
}

func NewNotifierMetrics(namespace string, registerer prometheus.Registerer) *NotifierMetrics {
	factory := promauto.With(registerer)
	return &NotifierMetrics{
		sentCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_enrichment_sent_count", namespace),
			Help: "The total number of delivered enrichment messages",
		}),
		failedCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_enrichment_failed_count", namespace),
			Help: "The total number of enrichment messages that failed after retries",
		}),
		droppedCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_enrichment_dropped_count", namespace),
			Help: "The total number of enrichment messages dropped because the queue was full",
		}),
	}
}

func (m *NotifierMetrics) IncSent() {
	if m == nil {
		return
	}
	m.sentCount.Inc()
}

func (m *NotifierMetrics) IncFailed() {
	if m == nil {
		return
	}
	m.failedCount.Inc()
}

func (m *NotifierMetrics) IncDropped() {
	if m == nil {
		return
	}
	m.droppedCount.Inc()
}
