package artifacts

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	config "e2eharness/configs"
	"e2eharness/pkg/logger"
	"e2eharness/pkg/metrics"
	"e2eharness/pkg/models"
)

// Collector relocates each job's working log directory into the durable
// per-scenario, per-mode artifact layout, and optionally archives it to a
// Store. A missing log directory is a warning, not a job failure: an
// entrypoint that crashed before creating logs is exactly what the harness
// exists to surface.
type Collector struct {
	cfg   *config.Config
	store Store // nil means no archive
	log   *zap.Logger
}

func NewCollector(cfg *config.Config, store Store) *Collector {
	return &Collector{
		cfg:   cfg,
		store: store,
		log:   logger.WithFields(zap.String("component", "artifacts")),
	}
}

// Collect moves <scenario>/logs to <artifact-root>/<name>/<mode-id>/ and
// returns the destination. Runs for failed jobs too; post-mortem logs are
// most valuable exactly then.
func (c *Collector) Collect(ctx context.Context, run models.Run, job models.Job) (string, error) {
	src := filepath.Join(job.Scenario.Path, c.cfg.LogDirName)
	if _, err := os.Stat(src); err != nil {
		c.log.Warn("entrypoint produced no log directory",
			zap.String("scenario", job.Scenario.Name),
			zap.String("mode", job.Mode.String()))
		metrics.ArtifactsMissing.Inc()
		return "", nil
	}

	dest := filepath.Join(c.cfg.ArtifactDir, job.Scenario.Name, job.Mode.ID())
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact parents: %w", err)
	}
	// A leftover tree from an earlier invocation must not merge with this
	// run's logs.
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("failed to clear artifact dir: %w", err)
	}
	if err := move(src, dest); err != nil {
		return "", fmt.Errorf("failed to relocate logs: %w", err)
	}
	metrics.ArtifactsCollected.Inc()

	if c.store != nil {
		c.archive(ctx, run, job, dest)
	}
	return dest, nil
}

// archive uploads the relocated tree file by file. Best-effort: the on-disk
// artifact already exists, so upload failures only cost the remote copy.
func (c *Collector) archive(ctx context.Context, run models.Run, job models.Job, dest string) {
	err := filepath.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dest, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%s/%s/%s/%s",
			run.ID, job.Scenario.Name, job.Mode.ID(), filepath.ToSlash(rel))
		_, err = c.store.Put(ctx, key, data)
		return err
	})
	if err != nil {
		c.log.Warn("artifact archive incomplete",
			zap.String("scenario", job.Scenario.Name),
			zap.Error(err))
	}
}

// move renames src to dest, falling back to copy+delete when the artifact
// root is on a different filesystem.
func move(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyTree(src, dest); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}
