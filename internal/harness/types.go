package harness

import (
	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/store"
	"github.com/roach88/wizard/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held and the run did not fail
	// unexpectedly.
	Pass bool `json:"pass"`

	// Trace is the full frame record of the run.
	Trace *trace.Trace `json:"-"`

	// Summary is the engine's report. Digest is empty when the run failed.
	Summary engine.Summary `json:"-"`

	// DoneAtStart records whether the stepper was finished at construction.
	DoneAtStart bool `json:"done_at_start"`

	// RunErr is the error the run ended with, if any.
	RunErr error `json:"-"`

	// Record is the ledger row read back after a successful run.
	Record *store.Run `json:"-"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
