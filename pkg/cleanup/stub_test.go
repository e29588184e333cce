package cleanup

import (
	"context"

	"e2eharness/pkg/runner"
)

// stubRunner replays canned results keyed by the leading docker subcommand
// and records every invocation.
type stubRunner struct {
	results map[string]runner.Result
	calls   []runner.Spec
}

func (s *stubRunner) Run(_ context.Context, spec runner.Spec) runner.Result {
	s.calls = append(s.calls, spec)
	if len(spec.Args) > 0 {
		if res, ok := s.results[spec.Args[0]]; ok {
			return res
		}
	}
	return runner.Result{ExitCode: 0}
}

func (s *stubRunner) argsFor(sub string) [][]string {
	var out [][]string
	for _, c := range s.calls {
		if len(c.Args) > 0 && c.Args[0] == sub {
			out = append(out, c.Args)
		}
	}
	return out
}
