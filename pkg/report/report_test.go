package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"e2eharness/pkg/models"
)

func job(name string, mode models.Mode) models.Job {
	return models.Job{Scenario: models.Scenario{Name: name}, Mode: mode}
}

func TestStartJobShowsProgress(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).StartJob(2, 6, job("eth-settlement", models.ModeDocker))

	assert.Contains(t, buf.String(), "[2/6]")
	assert.Contains(t, buf.String(), "eth-settlement/docker")
}

func TestFinishJobVerdicts(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.FinishJob(models.RunOutcome{Job: job("a", models.ModeDirect), ExitCode: 0})
	assert.Contains(t, buf.String(), "PASS")

	buf.Reset()
	r.FinishJob(models.RunOutcome{Job: job("a", models.ModeDirect), ExitCode: 7})
	assert.Contains(t, buf.String(), "FAIL (exit 7)")
}

func TestSummaryTally(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Summary(models.Summary{Total: 3, Failed: 1})
	assert.Contains(t, buf.String(), "2/3 passed")

	buf.Reset()
	r.Summary(models.Summary{Total: 2})
	assert.Contains(t, buf.String(), "2/2 passed")

	buf.Reset()
	r.Summary(models.Summary{})
	assert.Contains(t, buf.String(), "0/0 passed")
}
