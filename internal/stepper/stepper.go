package stepper

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/roach88/wizard/internal/array"
)

// Stepper is a resumable sort. Advance performs one unit of work;
// IsDone is idempotent and side-effect free.
type Stepper interface {
	Algorithm() Algorithm
	Seed() uint64
	Len() int
	Values() []int
	Advance() Result
	IsDone() bool
	State() string
}

// Counted is implemented by steppers whose number of advances is fixed at
// construction. StepCount is the total, not the remainder.
type Counted interface {
	StepCount() int
}

// DefaultSpeed leaves the driver's base tick interval unscaled.
const DefaultSpeed = 1.0

// Config describes a stepper to construct.
type Config struct {
	Algorithm Algorithm
	Elements  int
	Speed     float64
	Seed      *uint64 // nil draws a fresh seed
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	if !c.Algorithm.Valid() {
		return unknownAlgorithm(c.Algorithm.String())
	}
	if c.Elements < 1 {
		return &ConfigError{
			Code:    ErrCodeInvalidElements,
			Field:   "elements",
			Message: fmt.Sprintf("element count must be >= 1, got %d", c.Elements),
		}
	}
	if c.Speed <= 0 || math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		return &ConfigError{
			Code:    ErrCodeInvalidSpeed,
			Field:   "speed",
			Message: fmt.Sprintf("speed must be a positive finite number, got %v", c.Speed),
		}
	}
	return nil
}

// ResolveSeed returns the configured seed or a freshly drawn one.
func (c Config) ResolveSeed() uint64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return rand.Uint64()
}

// New validates cfg and builds a stepper over a freshly generated array.
// The array and every random choice the stepper makes derive from one seed.
func New(cfg Config) (Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.ResolveSeed()
	rng := array.NewSource(seed)
	return build(cfg.Algorithm, array.Fill(cfg.Elements, rng), rng, seed), nil
}

// NewWithValues builds a stepper over a copy of values. Any length is
// accepted, including zero; every value must lie in [1,100].
func NewWithValues(alg Algorithm, values []int, seed uint64) (Stepper, error) {
	if !alg.Valid() {
		return nil, unknownAlgorithm(alg.String())
	}
	for i, v := range values {
		if v < array.MinValue || v > array.MaxValue {
			return nil, &ConfigError{
				Code:    ErrCodeInvalidInput,
				Field:   fmt.Sprintf("values[%d]", i),
				Message: fmt.Sprintf("value %d outside [%d,%d]", v, array.MinValue, array.MaxValue),
			}
		}
	}
	return build(alg, array.FromValues(values), array.NewSource(seed), seed), nil
}

func build(alg Algorithm, arr *array.Array, rng *rand.Rand, seed uint64) Stepper {
	b := base{alg: alg, arr: arr, seed: seed}
	switch alg {
	case SelectionSort:
		return newSelection(b)
	case BubbleSort:
		return newBubble(b)
	case InsertionSort:
		return newInsertion(b)
	case QuickSort:
		return newQuick(b, rng)
	case MergeSort:
		return newMerge(b)
	case BogoSort:
		return newBogo(b, rng)
	}
	// Unreachable: callers validate alg first.
	panic(fmt.Sprintf("stepper: unhandled algorithm %d", alg))
}

// SafeAdvance calls s.Advance and converts a panic raised while stepping
// into an *InvariantViolation carrying the stepper's algorithm, array and
// state. Panics that are not errors are reported by their printed value.
func SafeAdvance(s Stepper) (r Result, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		var iv *InvariantViolation
		if e, ok := rec.(error); ok && errors.As(e, &iv) {
			err = iv
			return
		}
		iv = &InvariantViolation{
			Algorithm: s.Algorithm(),
			Message:   fmt.Sprint(rec),
			Values:    s.Values(),
			State:     s.State(),
		}
		if e, ok := rec.(error); ok {
			iv.Cause = e
		}
		err = iv
	}()
	return s.Advance(), nil
}

// base holds what every stepper shares: the owned array and the done flag.
type base struct {
	alg  Algorithm
	arr  *array.Array
	seed uint64
	done bool
}

func (b *base) Algorithm() Algorithm { return b.alg }
func (b *base) Seed() uint64         { return b.seed }
func (b *base) Len() int             { return b.arr.Len() }
func (b *base) Values() []int        { return b.arr.Values() }
func (b *base) IsDone() bool         { return b.done }

// finish marks the sort complete and finalizes every index in r.
func (b *base) finish(r *Result) {
	b.done = true
	r.Done = true
	r.Sorted = span(0, b.arr.Len())
}

// terminal is returned by Advance once the sort is complete. It performs no
// mutation.
func (b *base) terminal() Result {
	return Result{Done: true, Sorted: span(0, b.arr.Len())}
}

// violate panics with an *InvariantViolation describing the current state.
func (b *base) violate(state, format string, args ...any) {
	panic(&InvariantViolation{
		Algorithm: b.alg,
		Message:   fmt.Sprintf(format, args...),
		Values:    b.arr.Values(),
		State:     state,
	})
}
