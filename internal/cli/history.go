package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/wizard/internal/stepper"
	"github.com/roach88/wizard/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database  string
	Algorithm string
	Limit     int
}

// HistoryEntry is one recorded run as listed by the history command.
type HistoryEntry struct {
	RunID      string  `json:"run_id"`
	Algorithm  string  `json:"algorithm"`
	Elements   int     `json:"elements"`
	Seed       uint64  `json:"seed"`
	Speed      float64 `json:"speed"`
	IntervalMS int64   `json:"interval_ms"`
	Ticks      int     `json:"ticks"`
	Sorted     bool    `json:"sorted"`
	Digest     string  `json:"digest"`
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs  []HistoryEntry `json:"runs"`
	Total int            `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded in a database, oldest first.

Examples:
  wizard history --db ./wizard.db
  wizard history --db ./wizard.db --algorithm quick --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "only list runs of this algorithm")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show at most this many recent runs (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	listOpts := store.ListOptions{Limit: opts.Limit}
	if opts.Algorithm != "" {
		alg, err := stepper.ParseAlgorithm(opts.Algorithm)
		if err != nil {
			return configExit(err)
		}
		listOpts.Algorithm = alg
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("limit must be non-negative, got %d", opts.Limit))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, listOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	result := HistoryResult{Runs: make([]HistoryEntry, len(runs)), Total: len(runs)}
	for i, r := range runs {
		result.Runs[i] = HistoryEntry{
			RunID:      r.ID,
			Algorithm:  r.Algorithm.String(),
			Elements:   r.Elements,
			Seed:       r.Seed,
			Speed:      r.Speed,
			IntervalMS: r.IntervalMS,
			Ticks:      r.Ticks,
			Sorted:     r.Sorted,
			Digest:     r.Digest,
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tALGORITHM\tELEMENTS\tSEED\tSPEED\tTICKS\tSORTED\tDIGEST")
	for _, e := range result.Runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%g\t%d\t%t\t%s\n",
			e.RunID, e.Algorithm, e.Elements, e.Seed, e.Speed, e.Ticks, e.Sorted, shortDigest(e.Digest))
	}
	return tw.Flush()
}

// shortDigest truncates a digest for table display.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
