package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wizard/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID     string `json:"run_id"`
	Algorithm string `json:"algorithm"`
	Ticks     int    `json:"ticks"`
	Recorded  string `json:"recorded_digest"`
	Replayed  string `json:"replayed_digest"`
	Matched   bool   `json:"matched"`
}

// ReplayResult holds the overall replay outcome.
type ReplayResult struct {
	Runs       []ReplayRunResult `json:"runs"`
	TotalRuns  int               `json:"total_runs"`
	AllMatched bool              `json:"all_matched"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute recorded runs and verify their digests",
		Long: `Re-execute recorded runs from their stored algorithm, element count and
seed, and verify that each regenerated trace has the recorded digest.

Every replay is recorded in the database with its outcome.

Exit codes:
  0 - All replays matched
  1 - One or more replays diverged
  2 - Command error (database not found, unknown run, etc.)

Examples:
  wizard replay --db ./wizard.db
  wizard replay --db ./wizard.db --run 0190a3c1-...
  wizard replay --db ./wizard.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay only this run")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, sql.ErrNoRows) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, store.ListOptions{})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:       make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:  len(runs),
		AllMatched: true,
	}
	if len(runs) == 0 {
		if formatter.JSON() {
			return formatter.Success(result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	for _, run := range runs {
		formatter.VerboseLog("Replaying run %s (%s, seed %d)", run.ID, run.Algorithm, run.Seed)
		runResult, err := replayRun(ctx, st, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Matched {
			result.AllMatched = false
		}
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayRun re-executes one run and records the outcome.
func replayRun(ctx context.Context, st *store.Store, run store.Run) (ReplayRunResult, error) {
	eng, err := rebuild(run)
	if err != nil {
		return ReplayRunResult{}, err
	}
	sum, err := eng.Run(ctx)
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("re-execution failed: %w", err)
	}

	matched := sum.Digest == run.Digest && sum.Ticks == run.Ticks
	if err := st.WriteReplay(ctx, store.Replay{
		RunID:   run.ID,
		Digest:  sum.Digest,
		Matched: matched,
	}); err != nil {
		return ReplayRunResult{}, err
	}

	return ReplayRunResult{
		RunID:     run.ID,
		Algorithm: run.Algorithm.String(),
		Ticks:     sum.Ticks,
		Recorded:  run.Digest,
		Replayed:  sum.Digest,
		Matched:   matched,
	}, nil
}

func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	if result.AllMatched {
		return formatter.Success(result)
	}
	if err := formatter.Failure(ErrCodeMismatch, "replay verification failed", result); err != nil {
		return err
	}
	return NewExitError(ExitFailure, "replay verification failed")
}

func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Matched {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s\n", status, run.RunID)
		fmt.Fprintf(w, "  %s, %d ticks\n", run.Algorithm, run.Ticks)
		if verbose || !run.Matched {
			fmt.Fprintf(w, "  Recorded: %s\n", run.Recorded)
			fmt.Fprintf(w, "  Replayed: %s\n", run.Replayed)
		}
		if !run.Matched {
			fmt.Fprintln(w, "  Warning: replay diverged from the recorded run!")
		}
		fmt.Fprintln(w)
	}

	if result.AllMatched {
		fmt.Fprintln(w, "✓ All runs replayed identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay verification failed")
}
