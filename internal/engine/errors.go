package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/wizard/internal/stepper"
)

// ErrFinished is returned by Step when the sequencer has no more ticks.
var ErrFinished = errors.New("engine: run finished")

// RuntimeError is a failure detected while driving a run.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// Algorithm is the stepper being driven.
	Algorithm stepper.Algorithm

	// Tick is the tick index at which the error was detected.
	Tick int

	// Details carries extra context for logs.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeBudgetExceeded indicates the run asked for more ticks than allowed.
	ErrCodeBudgetExceeded RuntimeErrorCode = "BUDGET_EXCEEDED"

	// ErrCodeSequenceMismatch indicates the sequencer and the stepper
	// disagree about whether the run is over.
	ErrCodeSequenceMismatch RuntimeErrorCode = "SEQUENCE_MISMATCH"

	// ErrCodeRenderFailed indicates a renderer rejected a frame.
	ErrCodeRenderFailed RuntimeErrorCode = "RENDER_FAILED"
)

func (e *RuntimeError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s: %s (run=%s, algorithm=%s, tick=%d)",
			e.Code, e.Message, e.RunID, e.Algorithm, e.Tick)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsBudgetError reports whether err is a tick budget failure, either as a
// RuntimeError or a bare TickBudgetExceededError.
func IsBudgetError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeBudgetExceeded
	}
	return IsTickBudgetExceededError(err)
}

// IsSequenceMismatch reports whether err is a sequencer/stepper
// disagreement.
func IsSequenceMismatch(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeSequenceMismatch
	}
	return false
}

// NewSequenceMismatchError builds the error raised when exhaustion and
// IsDone disagree after a tick.
func NewSequenceMismatchError(runID string, alg stepper.Algorithm, tick int, exhausted, done bool) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeSequenceMismatch,
		Message:   fmt.Sprintf("sequencer exhausted=%t but stepper done=%t", exhausted, done),
		RunID:     runID,
		Algorithm: alg,
		Tick:      tick,
		Details: map[string]string{
			"exhausted": fmt.Sprintf("%t", exhausted),
			"done":      fmt.Sprintf("%t", done),
		},
	}
}

// NewBudgetError wraps a TickBudgetExceededError with run context.
func NewBudgetError(cause *TickBudgetExceededError, alg stepper.Algorithm) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeBudgetExceeded,
		Message:   fmt.Sprintf("run exceeded max ticks (%d > %d)", cause.Ticks, cause.Limit),
		RunID:     cause.RunID,
		Algorithm: alg,
		Tick:      cause.Ticks,
		Details: map[string]string{
			"ticks":     fmt.Sprintf("%d", cause.Ticks),
			"max_ticks": fmt.Sprintf("%d", cause.Limit),
		},
	}
}
