package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/wizard/internal/stepper"
)

// createTestStore creates a store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with plausible values.
func createTestRun(id string, alg stepper.Algorithm, seed uint64) Run {
	return Run{
		ID:         id,
		Algorithm:  alg,
		Elements:   20,
		Seed:       seed,
		Speed:      1,
		IntervalMS: 100,
		Ticks:      20,
		Sorted:     true,
		Digest:     "d-" + id,
	}
}
