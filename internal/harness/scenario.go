package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wizard/internal/stepper"
)

// Scenario defines one deterministic sort run and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Algorithm accepts anything stepper.ParseAlgorithm does.
	Algorithm string `yaml:"algorithm"`

	// Input is the explicit starting array. Mutually exclusive with Elements.
	Input []int `yaml:"input,omitempty"`

	// Elements generates a random array of this size from Seed.
	Elements int `yaml:"elements,omitempty"`

	// Seed drives array generation and every random choice of the stepper.
	Seed uint64 `yaml:"seed,omitempty"`

	// MaxTicks caps the run. Zero means unlimited.
	MaxTicks int `yaml:"max_ticks,omitempty"`

	// RunID fixes the run id. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Assertions validate the finished run.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a finished run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Values is the expected array (final, step).
	Values []int `yaml:"values,omitempty"`

	// Count is the expected number of ticks (ticks).
	Count *int `yaml:"count,omitempty"`

	// Tick selects the frame to check (step). Ticks count from 1.
	Tick int `yaml:"tick,omitempty"`

	// Compared, Swapped, Pivot and Sorted are the expected role sets of the
	// frame (step). Fields left out are not checked.
	Compared []int   `yaml:"compared,omitempty"`
	Swapped  [][]int `yaml:"swapped,omitempty"`
	Pivot    []int   `yaml:"pivot,omitempty"`
	Sorted   []int   `yaml:"sorted,omitempty"`

	// Done is the expected done flag (step, done_at_start).
	Done *bool `yaml:"done,omitempty"`

	// Code is the expected error code (error).
	Code string `yaml:"code,omitempty"`

	// Digest is the expected trace digest (digest).
	Digest string `yaml:"digest,omitempty"`
}

// Assertion type constants.
const (
	AssertFinal       = "final"
	AssertSorted      = "sorted"
	AssertPermutation = "permutation"
	AssertTicks       = "ticks"
	AssertStep        = "step"
	AssertDoneAtStart = "done_at_start"
	AssertError       = "error"
	AssertDigest      = "digest"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario under dir, sorted by path.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ext := filepath.Ext(path); !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if prev, dup := seen[sc.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", p, sc.Name, prev)
		}
		seen[sc.Name] = p
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if _, err := stepper.ParseAlgorithm(s.Algorithm); err != nil {
		return err
	}

	switch {
	case s.Input != nil && s.Elements != 0:
		return fmt.Errorf("input and elements are mutually exclusive")
	case s.Input == nil && s.Elements < 1:
		return fmt.Errorf("either input or elements >= 1 is required")
	}
	if s.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinal:
		if a.Values == nil {
			return fmt.Errorf("assertions[%d]: values is required for final", index)
		}
	case AssertSorted, AssertPermutation, AssertDoneAtStart:
	case AssertTicks:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for ticks", index)
		}
	case AssertStep:
		if a.Tick < 1 {
			return fmt.Errorf("assertions[%d]: tick >= 1 is required for step", index)
		}
		for j, pair := range a.Swapped {
			if len(pair) != 2 {
				return fmt.Errorf("assertions[%d]: swapped[%d] must be a pair", index, j)
			}
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	case AssertDigest:
		if a.Digest == "" {
			return fmt.Errorf("assertions[%d]: digest is required for digest", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// expectsError reports whether the scenario asserts a run failure.
func (s *Scenario) expectsError() bool {
	for _, a := range s.Assertions {
		if a.Type == AssertError {
			return true
		}
	}
	return false
}

// build constructs the scenario's stepper.
func (s *Scenario) build() (stepper.Stepper, error) {
	alg, err := stepper.ParseAlgorithm(s.Algorithm)
	if err != nil {
		return nil, err
	}
	if s.Input != nil {
		return stepper.NewWithValues(alg, s.Input, s.Seed)
	}
	seed := s.Seed
	return stepper.New(stepper.Config{
		Algorithm: alg,
		Elements:  s.Elements,
		Speed:     stepper.DefaultSpeed,
		Seed:      &seed,
	})
}
