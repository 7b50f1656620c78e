package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/wizard/internal/trace"
)

// Snapshot is the golden form of a run: the scenario name, the canonical
// trace and its digest.
func Snapshot(name string, tr *trace.Trace) ([]byte, error) {
	digest, err := tr.Digest()
	if err != nil {
		return nil, err
	}
	return trace.MarshalCanonical(map[string]any{
		"scenario": name,
		"digest":   digest,
		"trace":    tr.CanonicalMap(),
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns an error if the scenario cannot be executed. A snapshot mismatch
// fails t through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return result, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
