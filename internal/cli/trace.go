package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/stepper"
	"github.com/roach88/wizard/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	RunFlags

	Database string
	RunID    string
}

// TraceResult is the JSON payload of the trace command.
type TraceResult struct {
	RunID  string          `json:"run_id,omitempty"`
	Digest string          `json:"digest"`
	Ticks  int             `json:"ticks"`
	Trace  json.RawMessage `json:"trace"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Export the canonical trace of a sort",
		Long: `Drive a sort to completion without pacing or rendering and print its
canonical JSON trace: the initial array followed by one frame per tick with
the array state and the compared, swapped, pivot and sorted roles.

Text output is the canonical trace on one line followed by its digest.
The same algorithm and seed always produce byte-identical output.

With --db and --run the trace of a recorded run is regenerated from its
stored seed.

Examples:
  wizard trace --algorithm insertion --input 5,6,1,2,3
  wizard trace -a quick -n 16 --seed 42
  wizard trace --db ./wizard.db --run 0190a3c1-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	opts.RunFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (with --run)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "recorded run to regenerate (requires --db)")
	cmd.MarkFlagsRequiredTogether("db", "run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	var (
		eng *engine.Engine
		err error
	)
	if opts.RunID != "" {
		eng, err = traceRecorded(ctx, opts)
	} else {
		eng, err = traceConfigured(opts, cmd)
	}
	if err != nil {
		return err
	}

	if _, err := eng.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	data, err := eng.Trace().MarshalCanonical()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode trace", err)
	}
	digest, err := eng.Trace().Digest()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to digest trace", err)
	}

	if formatter.JSON() {
		return formatter.Success(TraceResult{
			RunID:  opts.RunID,
			Digest: digest,
			Ticks:  len(eng.Trace().Frames),
			Trace:  data,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, string(data))
	fmt.Fprintf(w, "digest: %s\n", digest)
	return nil
}

func traceConfigured(opts *TraceOptions, cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return nil, configExit(err)
	}
	s, err := opts.build(cfg)
	if err != nil {
		return nil, configExit(err)
	}
	return engine.New(s,
		engine.WithInterval(0),
		engine.WithMaxTicks(cfg.MaxTicks),
		engine.WithLogger(discardLogger()),
	), nil
}

func traceRecorded(ctx context.Context, opts *TraceOptions) (*engine.Engine, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		return nil, WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return rebuild(run)
}

// rebuild returns an unpaced engine that re-executes a recorded run. The
// run keeps its original id.
func rebuild(run store.Run) (*engine.Engine, error) {
	seed := run.Seed
	s, err := stepper.New(stepper.Config{
		Algorithm: run.Algorithm,
		Elements:  run.Elements,
		Speed:     run.Speed,
		Seed:      &seed,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("cannot rebuild run %s", run.ID), err)
	}
	return engine.New(s,
		engine.WithInterval(0),
		engine.WithSpeed(run.Speed),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(run.ID)),
		engine.WithLogger(discardLogger()),
	), nil
}
