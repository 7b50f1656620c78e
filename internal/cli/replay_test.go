package cli

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wizard/internal/stepper"
	"github.com/roach88/wizard/internal/store"
)

// seedRuns records one run per algorithm through the run command.
func seedRuns(t *testing.T, db string, algorithms ...string) []store.Run {
	t.Helper()
	for i, alg := range algorithms {
		_, _, err := execute(t, "run", "-a", alg, "-n", "9", "--seed", strconv.Itoa(i+1),
			"--interval", "0", "--jsonl", "--db", db)
		require.NoError(t, err)
	}
	return recordedRuns(t, db)
}

func writeForgedRun(t *testing.T, db string) {
	t.Helper()
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.WriteRun(context.Background(), store.Run{
		ID:         "forged",
		Algorithm:  stepper.QuickSort,
		Elements:   8,
		Seed:       1,
		Speed:      1,
		IntervalMS: 100,
		Ticks:      9,
		Sorted:     true,
		Digest:     "not-the-digest",
	}))
}

func readReplays(t *testing.T, db, runID string) []store.Replay {
	t.Helper()
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	replays, err := st.ReadReplays(context.Background(), runID)
	require.NoError(t, err)
	return replays
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(t, "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "db")
}

func TestReplayEmptyDatabase(t *testing.T) {
	out, _, err := execute(t, "replay", "--db", tempDB(t))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found in database.")
}

func TestReplayAllRunsMatch(t *testing.T) {
	db := tempDB(t)
	runs := seedRuns(t, db, "bubble", "quick", "merge")
	require.Len(t, runs, 3)

	out, _, err := execute(t, "replay", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "Replay Summary: 3 run(s)")
	for _, r := range runs {
		assert.Contains(t, out, "✓ Run: "+r.ID)

		replays := readReplays(t, db, r.ID)
		require.Len(t, replays, 1)
		assert.True(t, replays[0].Matched)
		assert.Equal(t, r.Digest, replays[0].Digest)
	}
	assert.Contains(t, out, "✓ All runs replayed identically")
}

func TestReplaySpecificRunJSON(t *testing.T) {
	db := tempDB(t)
	runs := seedRuns(t, db, "insertion", "selection")
	require.Len(t, runs, 2)

	out, _, err := execute(t, "--format", "json", "replay", "--db", db, "--run", runs[1].ID)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllMatched)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, runs[1].ID, resp.Data.Runs[0].RunID)
	assert.Equal(t, "selection", resp.Data.Runs[0].Algorithm)
	assert.Equal(t, 9, resp.Data.Runs[0].Ticks)

	assert.Empty(t, readReplays(t, db, runs[0].ID), "only the requested run is replayed")
}

func TestReplayDetectsDivergence(t *testing.T) {
	db := tempDB(t)
	writeForgedRun(t, db)

	out, _, err := execute(t, "replay", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ Run: forged")
	assert.Contains(t, out, "Recorded: not-the-digest")
	assert.Contains(t, out, "Warning: replay diverged")
	assert.Contains(t, out, "✗ Replay verification failed")

	replays := readReplays(t, db, "forged")
	require.Len(t, replays, 1)
	assert.False(t, replays[0].Matched)
}

func TestReplayDivergenceJSON(t *testing.T) {
	db := tempDB(t)
	writeForgedRun(t, db)

	out, _, err := execute(t, "--format", "json", "replay", "--db", db)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeMismatch, resp.Error.Code)
}

func TestReplayUnknownRun(t *testing.T) {
	_, _, err := execute(t, "replay", "--db", tempDB(t), "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found: nope")
}

func TestReplayHelpText(t *testing.T) {
	cmd := NewReplayCommand(&RootOptions{})
	assert.Contains(t, cmd.Long, "Exit codes:")
	assert.Contains(t, cmd.Long, "wizard replay --db")
}
