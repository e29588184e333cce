package orchestrator

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	config "e2eharness/configs"
	"e2eharness/pkg/artifacts"
	"e2eharness/pkg/catalog"
	"e2eharness/pkg/cleanup"
	"e2eharness/pkg/history"
	"e2eharness/pkg/logger"
	"e2eharness/pkg/metrics"
	"e2eharness/pkg/models"
	tracing "e2eharness/pkg/observability"
	"e2eharness/pkg/report"
	"e2eharness/pkg/runner"
	"e2eharness/pkg/scenario"
)

// JobRunner executes one job to an outcome.
type JobRunner interface {
	Run(ctx context.Context, job models.Job) models.RunOutcome
}

// ArtifactCollector preserves one job's logs.
type ArtifactCollector interface {
	Collect(ctx context.Context, run models.Run, job models.Job) (string, error)
}

// Orchestrator drives the whole matrix:
//
//	Discover → {Reset → Execute → Collect}* → Aggregate → Exit
//
// Jobs run strictly one at a time. They share fixed host ports and container
// names, so sequencing is a correctness requirement, not a throughput choice.
// The loop is fail-soft: a failed job is recorded and the matrix continues.
type Orchestrator struct {
	cfg       *config.Config
	runner    JobRunner
	collector ArtifactCollector
	reporter  *report.Reporter
	hist      *history.Store // nil means history disabled
	log       *zap.Logger
}

func New(cfg *config.Config, runner JobRunner, collector ArtifactCollector, reporter *report.Reporter, hist *history.Store) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		runner:    runner,
		collector: collector,
		reporter:  reporter,
		hist:      hist,
		log:       logger.WithFields(zap.String("component", "orchestrator")),
	}
}

// Run executes the matrix and returns the summary. Only catalog errors are
// returned; everything below the catalog is absorbed into outcomes per the
// fail-soft contract.
func (o *Orchestrator) Run(ctx context.Context, filter string, mode catalog.ModeFilter) (models.Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "harness.run")
	defer span.End()

	jobs, err := catalog.Discover(o.cfg.ExamplesDir, filter, mode)
	if err != nil {
		return models.Summary{}, err
	}
	span.SetAttributes(attribute.Int("jobs", len(jobs)))
	o.log.Info("discovered matrix",
		zap.Int("jobs", len(jobs)),
		zap.String("filter", filter))

	run := models.NewRun()
	if o.hist != nil {
		if err := o.hist.RecordRun(ctx, run); err != nil {
			o.log.Warn("history disabled for this run", zap.Error(err))
			o.hist = nil
		}
	}

	var sum models.Summary
	for i, job := range jobs {
		o.reporter.StartJob(i+1, len(jobs), job)

		outcome := o.runner.Run(ctx, job)

		path, err := o.collector.Collect(ctx, run, job)
		if err != nil {
			// The job's verdict comes from its exit status alone.
			o.log.Warn("artifact collection failed",
				zap.String("job", job.String()),
				zap.Error(err))
		}
		outcome.ArtifactPath = path

		sum.Record(outcome)
		o.recordOutcome(ctx, run, outcome)
		o.reporter.FinishJob(outcome)
	}

	o.reporter.Summary(sum)
	o.finish(ctx, run, sum)
	return sum, nil
}

func (o *Orchestrator) recordOutcome(ctx context.Context, run models.Run, outcome models.RunOutcome) {
	status := "pass"
	if !outcome.Passed() {
		status = "fail"
	}
	metrics.RecordJob(outcome.Job.Scenario.Name, outcome.Job.Mode.String(), status, outcome.Duration.Seconds())

	if o.hist != nil {
		if err := o.hist.RecordOutcome(ctx, run, outcome); err != nil {
			o.log.Warn("failed to record outcome", zap.Error(err))
		}
	}
}

func (o *Orchestrator) finish(ctx context.Context, run models.Run, sum models.Summary) {
	if o.hist != nil {
		if err := o.hist.FinishRun(ctx, run, sum); err != nil {
			o.log.Warn("failed to finalize run history", zap.Error(err))
		}
	}
	if o.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(o.cfg.MetricsFile); err != nil {
			o.log.Warn("failed to write metrics textfile", zap.Error(err))
		}
	}
}

// Close releases the orchestrator's durable resources.
func (o *Orchestrator) Close() error {
	if o.hist != nil {
		return o.hist.Close()
	}
	return nil
}

// Build wires the default production dependency graph from config.
func Build(cfg *config.Config) (*Orchestrator, error) {
	shell := runner.NewShellRunner()
	reset := cleanup.NewReset(cfg, shell)
	jobRunner := scenario.NewRunner(cfg, reset, shell)

	var store artifacts.Store
	if cfg.S3Bucket != "" {
		s3store, err := artifacts.NewS3Store(artifacts.S3StoreConfig{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		store = s3store
	}
	collector := artifacts.NewCollector(cfg, store)

	var hist *history.Store
	if cfg.HistoryDB != "" {
		h, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		hist = h
	}

	return New(cfg, jobRunner, collector, report.NewReporter(os.Stdout), hist), nil
}
