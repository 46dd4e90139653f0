package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RoundsCommitted counts rounds whose aggregate was published
	RoundsCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rssi",
			Name:      "rounds_committed_total",
			Help:      "Total number of sampling rounds committed by the sync engine",
		},
	)

	// Rebuilds counts full engine reconstructions
	Rebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssi",
			Name:      "engine_rebuilds_total",
			Help:      "Total number of engine rebuilds after a membership change",
		},
		[]string{"reason"},
	)

	// ActiveAdapters reports the number of adapters in the current generation
	ActiveAdapters = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rssi",
			Name:      "active_adapters",
			Help:      "Number of adapters sampled by the current engine generation",
		},
	)

	// TrackedNetworks reports the number of networks with a rolling history
	TrackedNetworks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rssi",
			Name:      "tracked_networks",
			Help:      "Number of networks present in the aggregate state",
		},
	)

	// ScanFailures counts workers that stopped because their adapter failed
	ScanFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssi",
			Name:      "scan_failures_total",
			Help:      "Total number of adapter scans that failed or returned nothing",
		},
		[]string{"adapter"},
	)

	// BusyRetries counts scan retries while an adapter reported busy
	BusyRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssi",
			Name:      "scan_busy_retries_total",
			Help:      "Total number of scan retries caused by a busy adapter",
		},
		[]string{"adapter"},
	)

	// RoundDuration observes the time between round start and commit
	RoundDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rssi",
			Name:      "round_duration_seconds",
			Help:      "Time spent waiting for all adapters and committing a round",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// Anomalies counts jump and divergence flags raised by the analyzer
	Anomalies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssi",
			Name:      "anomalies_total",
			Help:      "Total number of anomalies detected per kind",
		},
		[]string{"kind"},
	)

	// SettingsRejected counts configuration updates refused by validation
	SettingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssi",
			Name:      "settings_rejected_total",
			Help:      "Total number of rejected analysis setting updates",
		},
		[]string{"source"},
	)

	// StreamClients reports connected WebSocket and gRPC watchers
	StreamClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rssi",
			Name:      "stream_clients",
			Help:      "Number of connected streaming clients",
		},
		[]string{"transport"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// It is idempotent.
func InitMetrics() {
	once.Do(func() {
		// Errors are ignored so that a second registry user does not panic
		prometheus.DefaultRegisterer.Register(RoundsCommitted)
		prometheus.DefaultRegisterer.Register(Rebuilds)
		prometheus.DefaultRegisterer.Register(ActiveAdapters)
		prometheus.DefaultRegisterer.Register(TrackedNetworks)
		prometheus.DefaultRegisterer.Register(ScanFailures)
		prometheus.DefaultRegisterer.Register(BusyRetries)
		prometheus.DefaultRegisterer.Register(RoundDuration)
		prometheus.DefaultRegisterer.Register(Anomalies)
		prometheus.DefaultRegisterer.Register(SettingsRejected)
		prometheus.DefaultRegisterer.Register(StreamClients)
	})
}
