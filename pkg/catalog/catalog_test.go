package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"e2eharness/pkg/models"
)

func makeExamples(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.Mkdir(filepath.Join(root, n), 0755))
	}
	return root
}

func TestDiscoverDerivesTwoJobsPerScenario(t *testing.T) {
	root := makeExamples(t, "xrp", "eth-settlement")

	jobs, err := Discover(root, "", AllModes)
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	// Sorted by scenario name, direct before docker within a scenario.
	assert.Equal(t, "eth-settlement", jobs[0].Scenario.Name)
	assert.Equal(t, models.ModeDirect, jobs[0].Mode)
	assert.Equal(t, "eth-settlement", jobs[1].Scenario.Name)
	assert.Equal(t, models.ModeDocker, jobs[1].Mode)
	assert.Equal(t, "xrp", jobs[2].Scenario.Name)
	assert.Equal(t, "xrp", jobs[3].Scenario.Name)
}

func TestDiscoverDeterministicOrder(t *testing.T) {
	root := makeExamples(t, "charlie", "alpha", "bravo")

	first, err := Discover(root, "", AllModes)
	require.NoError(t, err)
	second, err := Discover(root, "", AllModes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "alpha", first[0].Scenario.Name)
	assert.Equal(t, "bravo", first[2].Scenario.Name)
	assert.Equal(t, "charlie", first[4].Scenario.Name)
}

func TestDiscoverNameFilter(t *testing.T) {
	root := makeExamples(t, "eth-settlement", "xrp-settlement", "simple")

	jobs, err := Discover(root, "*-settlement", AllModes)
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	for _, j := range jobs {
		assert.Contains(t, j.Scenario.Name, "-settlement")
	}
}

func TestDiscoverModeFilter(t *testing.T) {
	root := makeExamples(t, "simple")

	direct, err := Discover(root, "", DirectOnly)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, models.ModeDirect, direct[0].Mode)

	docker, err := Discover(root, "", DockerOnly)
	require.NoError(t, err)
	require.Len(t, docker, 1)
	assert.Equal(t, models.ModeDocker, docker[0].Mode)
}

func TestDiscoverIgnoresFiles(t *testing.T) {
	root := makeExamples(t, "simple")
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644))

	jobs, err := Discover(root, "", AllModes)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestDiscoverEmptyRootIsValid(t *testing.T) {
	jobs, err := Discover(t.TempDir(), "", AllModes)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestDiscoverMissingRootIsFatal(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), "", AllModes)
	assert.Error(t, err)
}

func TestDiscoverBadFilter(t *testing.T) {
	root := makeExamples(t, "simple")
	_, err := Discover(root, "[", AllModes)
	assert.Error(t, err)
}
