package cleanup

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	config "e2eharness/configs"
	"e2eharness/pkg/logger"
	"e2eharness/pkg/metrics"
	"e2eharness/pkg/runner"
)

// Reset is the single gateway through which ambient host state (ports,
// containers, snapshot and log files) is mutated. It runs before every job,
// not once per run: a prior job's containers would otherwise collide with
// the next job's ports. Idempotent; a second call against a clean host does
// nothing.
type Reset struct {
	cfg        *config.Config
	logs       LogCleaner
	containers *ContainerReaper
	ports      *PortReaper
	snapshot   SnapshotCleaner
	log        *zap.Logger
}

func NewReset(cfg *config.Config, run runner.Runner) *Reset {
	return &Reset{
		cfg:        cfg,
		containers: NewContainerReaper(cfg, run),
		ports:      NewPortReaper(cfg),
		log:        logger.WithFields(zap.String("component", "reset")),
	}
}

// Run brings the host to a known-clean state relative to the scenario
// directory. Log clearing goes first so it precedes the new run's writes;
// containers, ports and snapshot are order-independent. Every step is
// best-effort: a warning never blocks the job.
func (r *Reset) Run(ctx context.Context, scenarioDir string) {
	if err := r.logs.Clean(filepath.Join(scenarioDir, r.cfg.LogDirName)); err != nil {
		r.log.Warn("log cleanup failed", zap.Error(err))
		metrics.CleanupWarnings.WithLabelValues("logs").Inc()
	}

	r.containers.Reap(ctx)
	r.ports.Reap(ctx)

	if err := r.snapshot.Clean(filepath.Join(scenarioDir, r.cfg.SnapshotFile)); err != nil {
		r.log.Warn("snapshot cleanup failed", zap.Error(err))
		metrics.CleanupWarnings.WithLabelValues("snapshot").Inc()
	}
}
