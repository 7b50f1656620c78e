package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/store"
	"github.com/roach88/wizard/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory ledger. The engine is
// unpaced and uses a fixed run id, so the same scenario always yields the
// same trace.
//
// Execution flow:
// 1. Build the stepper from input or elements+seed
// 2. Drive it to completion (or failure) with the engine
// 3. Record the summary in the ledger and read it back
// 4. Evaluate assertions against the trace and summary
//
// A returned error means the scenario could not be executed at all. A run
// that fails while executing is reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	s, err := scenario.build()
	if err != nil {
		return nil, fmt.Errorf("failed to build stepper: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	result := NewResult()
	result.DoneAtStart = s.IsDone()

	eng := engine.New(s,
		engine.WithInterval(0),
		engine.WithMaxTicks(scenario.MaxTicks),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	sum, runErr := eng.Run(ctx)
	result.Trace = eng.Trace()
	result.Summary = sum
	result.RunErr = runErr

	if runErr == nil {
		rec, err := record(ctx, st, sum)
		if err != nil {
			return nil, err
		}
		result.Record = rec
	} else if !scenario.expectsError() {
		result.AddError(fmt.Sprintf("run failed: %v", runErr))
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// record writes the summary to the ledger and reads it back.
func record(ctx context.Context, st *store.Store, sum engine.Summary) (*store.Run, error) {
	run := store.FromSummary(sum)
	if err := st.WriteRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	got, err := st.ReadRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back run: %w", err)
	}
	return &got, nil
}
