package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/stepper"
)

// Run is the ledger record of one driven sort.
type Run struct {
	Seq        int64
	ID         string
	Algorithm  stepper.Algorithm
	Elements   int
	Seed       uint64
	Speed      float64
	IntervalMS int64
	Ticks      int
	Sorted     bool
	Digest     string
}

// FromSummary converts an engine summary into a ledger row.
func FromSummary(sum engine.Summary) Run {
	return Run{
		ID:         sum.RunID,
		Algorithm:  sum.Algorithm,
		Elements:   sum.Elements,
		Seed:       sum.Seed,
		Speed:      sum.Speed,
		IntervalMS: sum.Interval.Milliseconds(),
		Ticks:      sum.Ticks,
		Sorted:     sum.Sorted,
		Digest:     sum.Digest,
	}
}

// Replay is the outcome of re-executing a stored run.
type Replay struct {
	Seq     int64
	RunID   string
	Digest  string
	Matched bool
}

// WriteRun inserts a run. Writing the same id twice is a no-op, so a run
// recorded from a retried command is stored once.
//
// The seed is stored as decimal text: SQLite integers are signed 64-bit and
// seeds use the full uint64 range.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	if !r.Algorithm.Valid() {
		return fmt.Errorf("write run %s: invalid algorithm %d", r.ID, int(r.Algorithm))
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, algorithm, elements, seed, speed, interval_ms, ticks, sorted, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		r.Algorithm.String(),
		r.Elements,
		strconv.FormatUint(r.Seed, 10),
		r.Speed,
		r.IntervalMS,
		r.Ticks,
		boolToInt(r.Sorted),
		r.Digest,
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", r.ID, err)
	}
	return nil
}

// WriteReplay records a replay verification. The run must exist.
func (s *Store) WriteReplay(ctx context.Context, r Replay) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO replays (run_id, digest, matched)
		VALUES (?, ?, ?)
	`, r.RunID, r.Digest, boolToInt(r.Matched))
	if err != nil {
		return fmt.Errorf("write replay for run %s: %w", r.RunID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
