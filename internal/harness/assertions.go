package harness

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/stepper"
	"github.com/roach88/wizard/internal/trace"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Trace    *trace.Trace
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Trace != nil {
		fmt.Fprintf(&buf, "\nTrace (%s, initial %v):\n", e.Trace.Algorithm, e.Trace.Initial)
		for _, f := range e.Trace.Frames {
			fmt.Fprintf(&buf, "  [%d] %v\n", f.Tick, f.Values)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFinal:
		return assertFinal(result, a)
	case AssertSorted:
		return assertSorted(result)
	case AssertPermutation:
		return assertPermutation(result)
	case AssertTicks:
		return assertTicks(result, a)
	case AssertStep:
		return assertStep(result, a)
	case AssertDoneAtStart:
		return assertDoneAtStart(result, a)
	case AssertError:
		return assertError(result, a)
	case AssertDigest:
		return assertDigest(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertFinal(result *Result, a Assertion) error {
	got := result.Trace.Final()
	if slices.Equal(nonNil(got), nonNil(a.Values)) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinal,
		Expected: fmt.Sprint(a.Values),
		Actual:   fmt.Sprint(got),
		Trace:    result.Trace,
	}
}

func assertSorted(result *Result) error {
	got := result.Trace.Final()
	if slices.IsSorted(got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSorted,
		Expected: "ascending final array",
		Actual:   fmt.Sprint(got),
		Trace:    result.Trace,
	}
}

func assertPermutation(result *Result) error {
	initial := slices.Clone(result.Trace.Initial)
	final := result.Trace.Final()
	slices.Sort(initial)
	slices.Sort(final)
	if slices.Equal(nonNil(initial), nonNil(final)) {
		return nil
	}
	return &AssertionError{
		Type:     AssertPermutation,
		Expected: fmt.Sprintf("permutation of %v", result.Trace.Initial),
		Actual:   fmt.Sprint(result.Trace.Final()),
		Trace:    result.Trace,
	}
}

func assertTicks(result *Result, a Assertion) error {
	got := len(result.Trace.Frames)
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTicks,
		Expected: fmt.Sprintf("%d ticks", *a.Count),
		Actual:   fmt.Sprintf("%d ticks", got),
	}
}

func assertStep(result *Result, a Assertion) error {
	if a.Tick > len(result.Trace.Frames) {
		return &AssertionError{
			Type:     AssertStep,
			Expected: fmt.Sprintf("frame for tick %d", a.Tick),
			Actual:   fmt.Sprintf("run has %d ticks", len(result.Trace.Frames)),
		}
	}
	f := result.Trace.Frames[a.Tick-1]

	var diffs []string
	check := func(field string, want, got []int) {
		if want != nil && !slices.Equal(want, nonNil(got)) {
			diffs = append(diffs, fmt.Sprintf("%s %v != %v", field, got, want))
		}
	}
	check("values", a.Values, f.Values)
	check("compared", a.Compared, f.Compared)
	check("pivot", a.Pivot, f.Pivot)
	check("sorted", a.Sorted, f.Sorted)

	if a.Swapped != nil {
		got := make([][]int, len(f.Swapped))
		for i, p := range f.Swapped {
			got[i] = []int{p[0], p[1]}
		}
		if !slices.EqualFunc(a.Swapped, got, slices.Equal[[]int]) {
			diffs = append(diffs, fmt.Sprintf("swapped %v != %v", got, a.Swapped))
		}
	}
	if a.Done != nil && *a.Done != f.Done {
		diffs = append(diffs, fmt.Sprintf("done %t != %t", f.Done, *a.Done))
	}

	if len(diffs) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertStep,
		Expected: fmt.Sprintf("tick %d to match", a.Tick),
		Actual:   strings.Join(diffs, "; "),
	}
}

func assertDoneAtStart(result *Result, a Assertion) error {
	want := true
	if a.Done != nil {
		want = *a.Done
	}
	if result.DoneAtStart == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertDoneAtStart,
		Expected: fmt.Sprintf("done at construction = %t", want),
		Actual:   fmt.Sprintf("%t", result.DoneAtStart),
	}
}

func assertError(result *Result, a Assertion) error {
	got := ErrorCode(result.RunErr)
	if got == a.Code {
		return nil
	}
	actual := "run succeeded"
	if result.RunErr != nil {
		actual = fmt.Sprintf("%s (%v)", got, result.RunErr)
	}
	return &AssertionError{
		Type:     AssertError,
		Expected: a.Code,
		Actual:   actual,
	}
}

func assertDigest(result *Result, a Assertion) error {
	got, err := result.Trace.Digest()
	if err != nil {
		return err
	}
	if got == a.Digest {
		return nil
	}
	return &AssertionError{
		Type:     AssertDigest,
		Expected: a.Digest,
		Actual:   got,
	}
}

// ErrorCode classifies a run error by the code scenarios assert on.
// Returns "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	if engine.IsTickBudgetExceededError(err) {
		return string(engine.ErrCodeBudgetExceeded)
	}
	if stepper.IsInvariantViolation(err) {
		return "INVARIANT_VIOLATION"
	}
	var ce *stepper.ConfigError
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	return "UNKNOWN"
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
