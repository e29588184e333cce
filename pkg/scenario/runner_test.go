package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "e2eharness/configs"
	"e2eharness/pkg/models"
	"e2eharness/pkg/runner"
)

type stubReset struct {
	dirs []string
}

func (s *stubReset) Run(_ context.Context, dir string) {
	s.dirs = append(s.dirs, dir)
}

type stubExec struct {
	spec   runner.Spec
	result runner.Result
}

func (s *stubExec) Run(_ context.Context, spec runner.Spec) runner.Result {
	s.spec = spec
	return s.result
}

func testJob(mode models.Mode) models.Job {
	return models.Job{
		Scenario: models.Scenario{Name: "eth-settlement", Path: "/examples/eth-settlement"},
		Mode:     mode,
	}
}

func TestRunResetsBeforeExecuting(t *testing.T) {
	reset := &stubReset{}
	exec := &stubExec{}
	r := NewRunner(config.LoadConfig(), reset, exec)

	r.Run(context.Background(), testJob(models.ModeDirect))
	assert.Equal(t, []string{"/examples/eth-settlement"}, reset.dirs)
}

func TestRunSetsModeMarkers(t *testing.T) {
	exec := &stubExec{}
	r := NewRunner(config.LoadConfig(), &stubReset{}, exec)

	r.Run(context.Background(), testJob(models.ModeDirect))
	assert.Equal(t, []string{"TEST_MODE=1"}, exec.spec.Env)

	r.Run(context.Background(), testJob(models.ModeDocker))
	assert.Equal(t, []string{"TEST_MODE=1", "USE_CONTAINERS=1"}, exec.spec.Env)
}

func TestRunInvokesEntrypointInScenarioDir(t *testing.T) {
	exec := &stubExec{}
	r := NewRunner(config.LoadConfig(), &stubReset{}, exec)

	r.Run(context.Background(), testJob(models.ModeDirect))
	assert.Equal(t, "./run.sh", exec.spec.Command)
	assert.Equal(t, "/examples/eth-settlement", exec.spec.Dir)
}

func TestRunNonzeroExitIsFailedOutcomeNotError(t *testing.T) {
	exec := &stubExec{result: runner.Result{ExitCode: 5}}
	r := NewRunner(config.LoadConfig(), &stubReset{}, exec)

	outcome := r.Run(context.Background(), testJob(models.ModeDirect))
	require.NoError(t, outcome.Err)
	assert.Equal(t, 5, outcome.ExitCode)
	assert.False(t, outcome.Passed())
}

func TestRunZeroExitPasses(t *testing.T) {
	exec := &stubExec{result: runner.Result{ExitCode: 0}}
	r := NewRunner(config.LoadConfig(), &stubReset{}, exec)

	outcome := r.Run(context.Background(), testJob(models.ModeDocker))
	assert.True(t, outcome.Passed())
}

func TestRunStartFailureIsRecordedOnOutcome(t *testing.T) {
	exec := &stubExec{result: runner.Result{ExitCode: -1, Err: assert.AnError}}
	r := NewRunner(config.LoadConfig(), &stubReset{}, exec)

	outcome := r.Run(context.Background(), testJob(models.ModeDirect))
	assert.Error(t, outcome.Err)
	assert.False(t, outcome.Passed())
}
