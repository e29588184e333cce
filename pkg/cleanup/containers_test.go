package cleanup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "e2eharness/configs"
	"e2eharness/pkg/runner"
)

func testConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.DockerNetwork = "testnet"
	cfg.DockerBinary = "docker"
	return cfg
}

func TestContainerReaperStopsAndRemovesAll(t *testing.T) {
	stub := &stubRunner{results: map[string]runner.Result{
		"ps": {ExitCode: 0, Stdout: "abc123\ndef456\n"},
	}}
	NewContainerReaper(testConfig(), stub).Reap(context.Background())

	stops := stub.argsFor("stop")
	require.Len(t, stops, 1)
	assert.Equal(t, []string{"stop", "abc123", "def456"}, stops[0])

	rms := stub.argsFor("rm")
	require.Len(t, rms, 1)
	assert.Equal(t, []string{"rm", "-f", "abc123", "def456"}, rms[0])

	nets := stub.argsFor("network")
	require.Len(t, nets, 1)
	assert.Equal(t, []string{"network", "rm", "testnet"}, nets[0])
}

func TestContainerReaperToleratesEmptyHost(t *testing.T) {
	stub := &stubRunner{results: map[string]runner.Result{
		"ps":      {ExitCode: 0, Stdout: "\n"},
		"network": {ExitCode: 1, Stderr: `Error: No such network: testnet`},
	}}
	NewContainerReaper(testConfig(), stub).Reap(context.Background())

	// No containers means no stop/rm round trips.
	assert.Empty(t, stub.argsFor("stop"))
	assert.Empty(t, stub.argsFor("rm"))
}

func TestContainerReaperToleratesMissingDocker(t *testing.T) {
	stub := &stubRunner{results: map[string]runner.Result{
		"ps":      {ExitCode: -1, Stderr: "docker: command not found"},
		"network": {ExitCode: -1, Stderr: "docker: command not found"},
	}}
	NewContainerReaper(testConfig(), stub).Reap(context.Background())
	assert.Empty(t, stub.argsFor("stop"))
}
