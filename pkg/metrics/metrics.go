package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for one harness invocation. Using promauto for automatic
// registration with the default registry; WriteTextfile exports the final
// state for the node-exporter textfile collector.
var (
	// JobsTotal counts executed jobs by scenario, mode and status.
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "harness",
			Subsystem: "jobs",
			Name:      "total",
			Help:      "Total number of matrix jobs by status",
		},
		[]string{"scenario", "mode", "status"},
	)

	// JobDuration tracks entrypoint wall-clock duration.
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "harness",
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Duration of scenario entrypoints in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1h
		},
		[]string{"scenario", "mode"},
	)

	// PortsReaped counts listeners cleared before jobs.
	PortsReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "harness",
			Subsystem: "cleanup",
			Name:      "ports_reaped_total",
			Help:      "Total listening processes cleared from tracked ports",
		},
	)

	// ContainersRemoved counts containers removed before jobs.
	ContainersRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "harness",
			Subsystem: "cleanup",
			Name:      "containers_removed_total",
			Help:      "Total containers removed during environment resets",
		},
	)

	// CleanupWarnings counts best-effort cleanup steps that could not
	// confirm a clean state.
	CleanupWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "harness",
			Subsystem: "cleanup",
			Name:      "warnings_total",
			Help:      "Cleanup steps that failed and were skipped",
		},
		[]string{"step"},
	)

	// ArtifactsCollected counts relocated log directories.
	ArtifactsCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "harness",
			Subsystem: "artifacts",
			Name:      "collected_total",
			Help:      "Total log directories preserved as artifacts",
		},
	)

	// ArtifactsMissing counts jobs whose entrypoint produced no logs.
	ArtifactsMissing = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "harness",
			Subsystem: "artifacts",
			Name:      "missing_total",
			Help:      "Total jobs that finished without a log directory",
		},
	)
)

// RecordJob records metrics for one completed job.
func RecordJob(scenario, mode, status string, durationSeconds float64) {
	JobsTotal.WithLabelValues(scenario, mode, status).Inc()
	JobDuration.WithLabelValues(scenario, mode).Observe(durationSeconds)
}

// WriteTextfile dumps the default registry to path in exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
