package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// ShellRunner runs commands in their own process group so the whole spawned
// subtree can be reaped, not just the direct child. Entrypoint scripts
// background service processes; killing only the script would leave those
// bound to the ports the next job needs.
type ShellRunner struct{}

func NewShellRunner() *ShellRunner {
	return &ShellRunner{}
}

func (s *ShellRunner) Run(ctx context.Context, spec Spec) Result {
	start := time.Now()

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	// New PGID for the child. Waiting on buffered pipes blocks until every
	// descendant that inherited them has exited, and the group kill below
	// covers anything that detached its fds.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return Result{
			ExitCode: -1,
			Duration: time.Since(start),
			Err:      err,
		}
	}

	pgid := cmd.Process.Pid
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
		case <-done:
		}
	}()

	err := cmd.Wait()
	close(done)

	// Reap stragglers that survived the direct child. ESRCH means the group
	// is already gone, which is the common case.
	_ = syscall.Kill(-pgid, syscall.SIGKILL)

	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return Result{
		ExitCode: exitCode,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: duration,
		Err:      err,
	}
}
