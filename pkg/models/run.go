package models

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Mode defines the execution environment of a job.
type Mode int

const (
	// ModeDirect runs the scenario's processes natively on the host.
	ModeDirect Mode = iota
	// ModeDocker runs them inside containers on the test network.
	ModeDocker
)

func (m Mode) String() string {
	switch m {
	case ModeDocker:
		return "docker"
	default:
		return "direct"
	}
}

// ID is the stable artifact path segment for the mode.
func (m Mode) ID() string {
	return strconv.Itoa(int(m))
}

// Scenario is one example integration test, identified by its directory.
// Discovered once per run, immutable afterwards.
type Scenario struct {
	Name string
	Path string
}

// NewScenario derives the scenario name from the last path segment.
func NewScenario(path string) Scenario {
	return Scenario{Name: filepath.Base(path), Path: path}
}

// Job is one (Scenario, Mode) execution unit. It owns no resources; it is
// a pure scheduling value.
type Job struct {
	Scenario Scenario
	Mode     Mode
}

func (j Job) String() string {
	return j.Scenario.Name + "/" + j.Mode.String()
}

// RunOutcome records the result of one completed job. Produced once, never
// mutated afterwards.
type RunOutcome struct {
	Job          Job
	ExitCode     int
	Duration     time.Duration
	ArtifactPath string
	// Err is set only when the entrypoint could not be started at all.
	// A nonzero ExitCode from a started entrypoint is not an error here.
	Err error
}

// Passed reports whether the job's entrypoint exited cleanly. Pass/fail is
// determined solely by exit status, not by artifact collection.
func (o RunOutcome) Passed() bool {
	return o.Err == nil && o.ExitCode == 0
}

// Run identifies one full matrix invocation, for history and artifact keys.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
}

func NewRun() Run {
	return Run{ID: uuid.New(), StartedAt: time.Now()}
}

// Summary accumulates pass/fail counts as jobs complete. It is the sole
// authority for the run's overall success signal.
type Summary struct {
	Total  int
	Failed int
}

func (s *Summary) Record(o RunOutcome) {
	s.Total++
	if !o.Passed() {
		s.Failed++
	}
}

func (s Summary) PassedCount() int {
	return s.Total - s.Failed
}

func (s Summary) AllPassed() bool {
	return s.Failed == 0
}

// ExitCode maps the summary to the process exit code. A zero-job run passes.
func (s Summary) ExitCode() int {
	if s.Failed == 0 {
		return 0
	}
	return 1
}
