package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirtyScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs", "node1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "node1", "out.log"), []byte("old"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dump.rdb"), []byte("stale"), 0644))
	return dir
}

func TestResetClearsScenarioState(t *testing.T) {
	cfg := testConfig()
	stub := &stubRunner{}
	r := NewReset(cfg, stub)
	// Keep the reaper away from the real host's process table.
	r.ports.listeners = func(context.Context) ([]Listener, error) { return nil, nil }

	dir := dirtyScenario(t)
	r.Run(context.Background(), dir)

	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "dump.rdb"))
	assert.True(t, os.IsNotExist(err))

	// Containers were asked about even with nothing on disk.
	assert.NotEmpty(t, stub.argsFor("ps"))
}

func TestResetIsIdempotent(t *testing.T) {
	cfg := testConfig()
	stub := &stubRunner{}
	r := NewReset(cfg, stub)
	r.ports.listeners = func(context.Context) ([]Listener, error) { return nil, nil }

	dir := dirtyScenario(t)
	r.Run(context.Background(), dir)
	r.Run(context.Background(), dir)

	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}
