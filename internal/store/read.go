package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/roach88/wizard/internal/stepper"
)

const runColumns = `seq, id, algorithm, elements, seed, speed, interval_ms, ticks, sorted, digest`

// ReadRun retrieves a run by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListOptions filters ListRuns.
type ListOptions struct {
	// Algorithm restricts results to one algorithm when set.
	Algorithm stepper.Algorithm

	// Limit keeps only the most recent Limit runs. Zero returns all.
	Limit int
}

// ListRuns returns runs ordered by seq ASC, id ASC. With a limit, the most
// recent runs are kept and still returned oldest first.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if opts.Algorithm.Valid() {
		query += ` WHERE algorithm = ?`
		args = append(args, opts.Algorithm.String())
	}
	if opts.Limit > 0 {
		query = `SELECT * FROM (` + query + ` ORDER BY seq DESC LIMIT ?)`
		args = append(args, opts.Limit)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadReplays returns the replay records of a run, oldest first.
func (s *Store) ReadReplays(ctx context.Context, runID string) ([]Replay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, run_id, digest, matched
		FROM replays
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query replays: %w", err)
	}
	defer rows.Close()

	replays := []Replay{}
	for rows.Next() {
		var r Replay
		var matched int
		if err := rows.Scan(&r.Seq, &r.RunID, &r.Digest, &matched); err != nil {
			return nil, fmt.Errorf("scan replay: %w", err)
		}
		r.Matched = matched == 1
		replays = append(replays, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replays: %w", err)
	}
	return replays, nil
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var alg, seed string
	var sorted int

	if err := sc.Scan(
		&r.Seq, &r.ID, &alg, &r.Elements, &seed,
		&r.Speed, &r.IntervalMS, &r.Ticks, &sorted, &r.Digest,
	); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	a, err := stepper.ParseAlgorithm(alg)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	r.Algorithm = a

	r.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: parse seed %q: %w", r.ID, seed, err)
	}
	r.Sorted = sorted == 1
	return r, nil
}
