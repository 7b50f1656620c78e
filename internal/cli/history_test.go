package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	out, _, err := execute(t, "history", "--db", tempDB(t))
	require.NoError(t, err)
	assert.Equal(t, "No runs found in database.\n", out)
}

func TestHistoryText(t *testing.T) {
	db := tempDB(t)
	runs := seedRuns(t, db, "bubble", "quick")

	out, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "DIGEST")
	for _, r := range runs {
		assert.Contains(t, out, r.ID)
		assert.Contains(t, out, r.Digest[:12])
		assert.NotContains(t, out, r.Digest)
	}
}

func TestHistoryFilterAndLimit(t *testing.T) {
	db := tempDB(t)
	runs := seedRuns(t, db, "bubble", "quick", "bubble", "bubble")

	out, _, err := execute(t, "--format", "json", "history", "--db", db, "-a", "BubbleSort", "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, runs[2].ID, resp.Data.Runs[0].RunID)
	assert.Equal(t, runs[3].ID, resp.Data.Runs[1].RunID)
	for _, e := range resp.Data.Runs {
		assert.Equal(t, "bubble", e.Algorithm)
		assert.Equal(t, 9, e.Elements)
	}
}

func TestHistoryRejectsBadFlags(t *testing.T) {
	_, _, err := execute(t, "history", "--db", tempDB(t), "-a", "heap")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "history", "--db", tempDB(t), "--limit", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be non-negative")
}
