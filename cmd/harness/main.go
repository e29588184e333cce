package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	config "e2eharness/configs"
	"e2eharness/pkg/catalog"
	"e2eharness/pkg/history"
	"e2eharness/pkg/logger"
	tracing "e2eharness/pkg/observability"
	"e2eharness/pkg/orchestrator"
)

// exitError carries the matrix verdict out of cobra without bypassing the
// deferred cleanup in RunE.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			// The tally line was already printed; the code is the signal.
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "harness",
		Short:         "End-to-end example matrix runner",
		Long:          "Runs every example scenario in direct-process and containerized mode\nagainst a freshly reset host, preserving per-scenario logs as artifacts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newHistoryCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	var (
		filter string
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			modeFilter, err := parseMode(mode)
			if err != nil {
				return err
			}

			cfg := config.LoadConfig()
			if _, err := logger.Init(logger.Config{
				Level:    cfg.LogLevel,
				Encoding: cfg.LogEncoding,
				Service:  "harness",
			}); err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			tp, err := tracing.Init(ctx, cfg.OTLPEndpoint)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()

			orch, err := orchestrator.Build(cfg)
			if err != nil {
				return err
			}
			defer orch.Close()

			sum, err := orch.Run(ctx, filter, modeFilter)
			if err != nil {
				return err
			}
			// The summary is the sole authority for the process exit code.
			if code := sum.ExitCode(); code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "glob restricting which scenario names run (default: all)")
	cmd.Flags().StringVar(&mode, "mode", "all", "restrict the matrix to one mode (direct|docker|all)")
	return cmd
}

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if cfg.HistoryDB == "" {
				return fmt.Errorf("HARNESS_HISTORY_DB is not configured")
			}
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d/%d passed\n",
					r.StartedAt.Format(time.RFC3339), r.ID, r.Total-r.Failed, r.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func parseMode(mode string) (catalog.ModeFilter, error) {
	switch mode {
	case "all", "":
		return catalog.AllModes, nil
	case "direct":
		return catalog.DirectOnly, nil
	case "docker":
		return catalog.DockerOnly, nil
	default:
		return catalog.AllModes, fmt.Errorf("invalid mode %q: must be direct, docker or all", mode)
	}
}
