package scenario

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	config "e2eharness/configs"
	"e2eharness/pkg/logger"
	"e2eharness/pkg/models"
	tracing "e2eharness/pkg/observability"
	"e2eharness/pkg/runner"
)

// Resetter brings the host to a known-clean state before a job.
type Resetter interface {
	Run(ctx context.Context, scenarioDir string)
}

// Runner executes one job: reset the environment, invoke the scenario's
// entrypoint with the mode markers set, and capture its exit status. A
// nonzero exit is a failed outcome, never a harness error: one broken
// example must not stop the rest of the matrix.
type Runner struct {
	cfg   *config.Config
	reset Resetter
	run   runner.Runner
	log   *zap.Logger
}

func NewRunner(cfg *config.Config, reset Resetter, run runner.Runner) *Runner {
	return &Runner{
		cfg:   cfg,
		reset: reset,
		run:   run,
		log:   logger.WithFields(zap.String("component", "scenario-runner")),
	}
}

func (r *Runner) Run(ctx context.Context, job models.Job) models.RunOutcome {
	ctx, span := tracing.StartSpan(ctx, "scenario.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("scenario", job.Scenario.Name),
		attribute.String("mode", job.Mode.String()),
	)

	r.reset.Run(ctx, job.Scenario.Path)

	env := []string{"TEST_MODE=1"}
	if job.Mode == models.ModeDocker {
		env = append(env, "USE_CONTAINERS=1")
	}

	r.log.Info("running scenario",
		zap.String("scenario", job.Scenario.Name),
		zap.String("mode", job.Mode.String()))

	// Relative command paths are resolved against Dir, so the entrypoint
	// is invoked exactly as if the harness had cd'd into the scenario.
	res := r.run.Run(ctx, runner.Spec{
		Command: "./" + r.cfg.EntrypointScript,
		Dir:     job.Scenario.Path,
		Env:     env,
	})

	outcome := models.RunOutcome{
		Job:      job,
		ExitCode: res.ExitCode,
		Duration: res.Duration,
	}
	if res.ExitCode == -1 {
		// The entrypoint never started; there is no exit status to judge.
		outcome.Err = res.Err
	}

	if !outcome.Passed() {
		tracing.SetError(ctx, res.Err)
		r.log.Warn("scenario failed",
			zap.String("scenario", job.Scenario.Name),
			zap.String("mode", job.Mode.String()),
			zap.Int("exit_code", res.ExitCode),
			zap.Duration("duration", res.Duration))
	} else {
		r.log.Info("scenario passed",
			zap.String("scenario", job.Scenario.Name),
			zap.String("mode", job.Mode.String()),
			zap.Duration("duration", res.Duration))
	}

	return outcome
}
