package cleanup

import (
	"context"
	"strings"

	"go.uber.org/zap"

	config "e2eharness/configs"
	"e2eharness/pkg/logger"
	"e2eharness/pkg/metrics"
	"e2eharness/pkg/runner"
)

// ContainerReaper stops and removes every container and tears down the test
// network. "Nothing to do" is success: a host with zero containers and no
// network is already in the target state.
type ContainerReaper struct {
	cfg *config.Config
	run runner.Runner
	log *zap.Logger
}

func NewContainerReaper(cfg *config.Config, run runner.Runner) *ContainerReaper {
	return &ContainerReaper{
		cfg: cfg,
		run: run,
		log: logger.WithFields(zap.String("component", "container-reaper")),
	}
}

func (r *ContainerReaper) Reap(ctx context.Context) {
	ids := r.containerIDs(ctx)
	if len(ids) > 0 {
		r.docker(ctx, append([]string{"stop"}, ids...))
		r.docker(ctx, append([]string{"rm", "-f"}, ids...))
		metrics.ContainersRemoved.Add(float64(len(ids)))
		r.log.Debug("removed containers", zap.Int("count", len(ids)))
	}

	// The network may not exist; that is the clean state, not a failure.
	res := r.run.Run(ctx, runner.Spec{
		Command: r.cfg.DockerBinary,
		Args:    []string{"network", "rm", r.cfg.DockerNetwork},
	})
	if res.ExitCode != 0 && !notFound(res.Stderr) {
		r.log.Warn("failed to remove network",
			zap.String("network", r.cfg.DockerNetwork),
			zap.String("stderr", strings.TrimSpace(res.Stderr)))
		metrics.CleanupWarnings.WithLabelValues("containers").Inc()
	}
}

func (r *ContainerReaper) containerIDs(ctx context.Context) []string {
	res := r.run.Run(ctx, runner.Spec{
		Command: r.cfg.DockerBinary,
		Args:    []string{"ps", "-aq"},
	})
	if res.ExitCode != 0 {
		// Docker missing or daemon down. In direct mode that is fine.
		r.log.Debug("docker unavailable", zap.String("stderr", strings.TrimSpace(res.Stderr)))
		return nil
	}
	var ids []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}

func (r *ContainerReaper) docker(ctx context.Context, args []string) {
	res := r.run.Run(ctx, runner.Spec{Command: r.cfg.DockerBinary, Args: args})
	if res.ExitCode != 0 && !notFound(res.Stderr) {
		r.log.Warn("docker command failed",
			zap.Strings("args", args),
			zap.String("stderr", strings.TrimSpace(res.Stderr)))
		metrics.CleanupWarnings.WithLabelValues("containers").Inc()
	}
}

func notFound(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no such") || strings.Contains(s, "not found")
}
