package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/render"
	"github.com/roach88/wizard/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	RunFlags

	Database string
	JSONL    bool
	Width    int

	// RunIDGenerator overrides the run id source (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// RunReport is the outcome of a run as printed by the CLI.
type RunReport struct {
	RunID     string  `json:"run_id"`
	Algorithm string  `json:"algorithm"`
	Elements  int     `json:"elements"`
	Seed      uint64  `json:"seed"`
	Speed     float64 `json:"speed"`
	Ticks     int     `json:"ticks"`
	Sorted    bool    `json:"sorted"`
	Final     []int   `json:"final"`
	Digest    string  `json:"digest,omitempty"`
	Recorded  bool    `json:"recorded"`
}

func (r RunReport) String() string {
	return fmt.Sprintf("Run %s: %s, %d elements, seed %d, %d ticks, sorted=%t\nDigest: %s",
		r.RunID, r.Algorithm, r.Elements, r.Seed, r.Ticks, r.Sorted, r.Digest)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate a sorting algorithm",
		Long: `Animate a sorting algorithm in the terminal.

A random array (or the --input values) is sorted one step per tick. Each
frame shows the array as bars: compared and swapped elements in red, the
pivot in orange and finalized elements in green. The delay between ticks
is --interval divided by --speed.

With --db the run summary and trace digest are recorded so the run can be
replayed later. Interrupting with Ctrl-C stops the run without recording.

Examples:
  wizard run --algorithm quick --elements 40
  wizard run -a bogo -n 6 --max-ticks 5000 --speed 10
  wizard run --config wizard.cue --db ./wizard.db
  wizard run -a merge --seed 7 --jsonl --interval 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, cmd)
		},
	}

	opts.RunFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().BoolVar(&opts.JSONL, "jsonl", false, "render frames as JSON lines instead of bars")
	cmd.Flags().IntVar(&opts.Width, "width", render.DefaultWidth, "columns used by the tallest bar")

	return cmd
}

func runSort(opts *RunOptions, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	formatter := opts.formatter(cmd)

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return configExit(err)
	}
	if cmd.Flags().Changed("db") {
		cfg.DB = opts.Database
	}

	if cfg.DB != "" && opts.Input != nil {
		return NewExitError(ExitCommandError, "runs with explicit --input cannot be recorded: replay rebuilds the array from the seed")
	}

	s, err := opts.build(cfg)
	if err != nil {
		return configExit(err)
	}

	var st *store.Store
	if cfg.DB != "" {
		logger.Debug("opening database", "path", cfg.DB)
		st, err = store.Open(cfg.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	gen := opts.RunIDGenerator
	if gen == nil {
		gen = engine.UUIDv7Generator{}
	}
	eng := engine.New(s,
		engine.WithInterval(cfg.Interval),
		engine.WithSpeed(cfg.Speed),
		engine.WithMaxTicks(cfg.MaxTicks),
		engine.WithRenderer(frameRenderer(cmd.OutOrStdout(), opts)),
		engine.WithRunIDGenerator(gen),
		engine.WithLogger(logger),
	)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sum, err := eng.Run(ctx)
	report := newRunReport(sum)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Info("run stopped", "run_id", sum.RunID, "ticks", sum.Ticks)
			return nil
		}
		_ = formatter.Failure(ErrCodeRunFailed, err.Error(), report)
		return WrapExitError(ExitFailure, "run failed", err)
	}

	if st != nil {
		if err := st.WriteRun(ctx, store.FromSummary(sum)); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		report.Recorded = true
		logger.Info("run recorded", "run_id", sum.RunID, "db", cfg.DB)
	}

	return formatter.Success(report)
}

func newRunReport(sum engine.Summary) RunReport {
	return RunReport{
		RunID:     sum.RunID,
		Algorithm: sum.Algorithm.String(),
		Elements:  sum.Elements,
		Seed:      sum.Seed,
		Speed:     sum.Speed,
		Ticks:     sum.Ticks,
		Sorted:    sum.Sorted,
		Final:     sum.Final,
		Digest:    sum.Digest,
	}
}

// frameRenderer picks the frame output for w. Bars redraw in place only on
// a terminal.
func frameRenderer(w io.Writer, opts *RunOptions) engine.Renderer {
	if opts.JSONL {
		return render.NewJSONLines(w)
	}
	return render.NewBars(w,
		render.WithWidth(opts.Width),
		render.WithClear(isTerminal(w)),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// discardLogger is used by commands whose output must not interleave with
// engine logs.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
