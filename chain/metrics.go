package chain

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client's prometheus instrumentation. All collectors are
// registered against the injected Registerer at construction.
type Metrics struct {
	snapshotDuration *prometheus.HistogramVec
	snapshotsTotal   prometheus.Counter
	snapshotErrors   prometheus.Counter
	droppedSnapshots prometheus.Counter
}

// NewMetrics creates and registers the client metrics.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		snapshotDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taocli",
			Subsystem: "chain",
			Name:      "snapshot_duration_seconds",
			Help:      "Time spent fetching and decoding one pool snapshot.",
			Buckets:   prometheus.DefBuckets,
		}, []string{}),
		snapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taocli",
			Subsystem: "chain",
			Name:      "snapshots_total",
			Help:      "Number of pool snapshots fetched successfully.",
		}),
		snapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taocli",
			Subsystem: "chain",
			Name:      "snapshot_errors_total",
			Help:      "Number of snapshot fetches that failed.",
		}),
		droppedSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taocli",
			Subsystem: "chain",
			Name:      "dropped_snapshots_total",
			Help:      "Snapshots discarded because the consumer buffer was full.",
		}),
	}

	registry.MustRegister(m.snapshotDuration, m.snapshotsTotal, m.snapshotErrors, m.droppedSnapshots)
	return m
}
