package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCleanerRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.rdb")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, SnapshotCleaner{}.Clean(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotCleanerToleratesAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.rdb")

	// Idempotent: a second pass over a clean host is a no-op.
	require.NoError(t, SnapshotCleaner{}.Clean(path))
	require.NoError(t, SnapshotCleaner{}.Clean(path))
}

func TestLogCleanerRemovesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node1", "out.log"), []byte("x"), 0644))

	require.NoError(t, LogCleaner{}.Clean(dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestLogCleanerToleratesAbsence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, LogCleaner{}.Clean(dir))
	require.NoError(t, LogCleaner{}.Clean(dir))
}
