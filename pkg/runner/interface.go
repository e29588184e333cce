package runner

import (
	"context"
	"time"
)

// Spec describes one command invocation.
type Spec struct {
	Command string
	Args    []string
	// Dir is the working directory for the child. Empty means inherit.
	Dir string
	// Env entries ("KEY=VALUE") are appended to the inherited environment.
	Env []string
	// Timeout bounds the invocation. Zero means no intrinsic timeout.
	Timeout time.Duration
}

// Result captures the outcome of a command execution.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error // detailed go error if any
}

// Runner executes a single external command to completion.
type Runner interface {
	// Run executes the spec within the context and returns a Result
	// containing exit code and captured output.
	Run(ctx context.Context, spec Spec) Result
}
