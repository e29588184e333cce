package cleanup

import (
	"fmt"
	"os"
)

// SnapshotCleaner removes a stale on-disk state file left by a previous
// run's storage service. Absence is success.
type SnapshotCleaner struct{}

func (SnapshotCleaner) Clean(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove snapshot %s: %w", path, err)
	}
	return nil
}

// LogCleaner removes the working log directory so the next entrypoint
// starts from an empty one. Kept separate from SnapshotCleaner: callers
// that reuse the log directory compose only the pieces they need.
type LogCleaner struct{}

func (LogCleaner) Clean(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove log dir %s: %w", dir, err)
	}
	return nil
}
