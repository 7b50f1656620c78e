package engine

import (
	"errors"
	"fmt"
)

// TickBudget caps the number of ticks a single run may take.
//
// Lazy sequences (quick, merge, bogo) have no length fixed up front, and a
// bogo sort of a large array may effectively never finish. The budget turns
// that into a clean error instead of an endless animation. A limit of 0
// disables the check.
type TickBudget struct {
	limit   int
	current int
}

// NewTickBudget returns a budget allowing limit ticks. Zero means unlimited.
func NewTickBudget(limit int) *TickBudget {
	return &TickBudget{limit: max(limit, 0)}
}

// Charge counts one tick against the budget and fails once the limit is
// passed.
func (b *TickBudget) Charge(runID string) error {
	b.current++
	if b.limit > 0 && b.current > b.limit {
		return &TickBudgetExceededError{
			RunID: runID,
			Ticks: b.current,
			Limit: b.limit,
		}
	}
	return nil
}

// Current returns the ticks charged so far.
func (b *TickBudget) Current() int { return b.current }

// Limit returns the configured limit, 0 when unlimited.
func (b *TickBudget) Limit() int { return b.limit }

// TickBudgetExceededError is returned when a run asks for more ticks than
// its budget allows. The stepper is left untouched for the rejected tick.
type TickBudgetExceededError struct {
	RunID string
	Ticks int
	Limit int
}

func (e *TickBudgetExceededError) Error() string {
	return fmt.Sprintf("run %s exceeded tick budget: %d ticks > %d limit",
		e.RunID, e.Ticks, e.Limit)
}

// IsTickBudgetExceededError reports whether err wraps a
// TickBudgetExceededError.
func IsTickBudgetExceededError(err error) bool {
	var be *TickBudgetExceededError
	return errors.As(err, &be)
}
