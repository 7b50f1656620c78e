package stepper

import (
	"fmt"
	"math/bits"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wizard/internal/array"
)

// drain advances s until done, failing the test if it takes more than limit
// advances. Returns the number of advances.
func drain(t *testing.T, s Stepper, limit int) int {
	t.Helper()
	steps := 0
	for !s.IsDone() {
		require.Less(t, steps, limit, "%s did not finish within %d advances (state=%s)",
			s.Algorithm(), limit, s.State())
		s.Advance()
		steps++
	}
	return steps
}

func mustNew(t *testing.T, alg Algorithm, values []int, seed uint64) Stepper {
	t.Helper()
	s, err := NewWithValues(alg, values, seed)
	require.NoError(t, err)
	return s
}

func seedPtr(v uint64) *uint64 { return &v }

func TestAllAlgorithms_SortedPermutation(t *testing.T) {
	for _, alg := range Algorithms() {
		sizes := []int{1, 2, 3, 5, 8, 13, 64}
		if alg == BogoSort {
			sizes = []int{1, 2, 3, 4, 5}
		}
		for _, n := range sizes {
			t.Run(fmt.Sprintf("%s/n=%d", alg, n), func(t *testing.T) {
				s, err := New(Config{Algorithm: alg, Elements: n, Speed: 1, Seed: seedPtr(uint64(n))})
				require.NoError(t, err)
				initial := s.Values()

				drain(t, s, 100000)

				final := s.Values()
				assert.True(t, slices.IsSorted(final), "final array not sorted: %v", final)
				assert.ElementsMatch(t, initial, final, "final array is not a permutation of the initial one")
			})
		}
	}
}

func TestAllAlgorithms_EmptyArrayIsDone(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			s := mustNew(t, alg, nil, 1)
			assert.True(t, s.IsDone())

			r := s.Advance()
			assert.True(t, r.Done)
			assert.Empty(t, r.Sorted)
			assert.Empty(t, s.Values())
		})
	}
}

func TestAllAlgorithms_SingleElementIsDone(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			s := mustNew(t, alg, []int{42}, 1)
			assert.True(t, s.IsDone())
			if c, ok := s.(Counted); ok {
				assert.Equal(t, 0, c.StepCount())
			}
		})
	}
}

func TestCountedSteppers_ExactStepCounts(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want func(n int) int
	}{
		{SelectionSort, func(n int) int { return n }},
		{BubbleSort, func(n int) int { return n }},
		{InsertionSort, func(n int) int { return n - 1 }},
	}

	for _, tt := range tests {
		for _, n := range []int{2, 3, 7, 20, 100} {
			t.Run(fmt.Sprintf("%s/n=%d", tt.alg, n), func(t *testing.T) {
				s, err := New(Config{Algorithm: tt.alg, Elements: n, Speed: 1, Seed: seedPtr(99)})
				require.NoError(t, err)

				counted, ok := s.(Counted)
				require.True(t, ok, "%s should implement Counted", tt.alg)
				assert.Equal(t, tt.want(n), counted.StepCount())

				assert.Equal(t, tt.want(n), drain(t, s, 1000))
			})
		}
	}
}

func TestCountedSteppers_PresortedStillRunsFullCount(t *testing.T) {
	sorted := []int{1, 2, 3, 4, 5, 6}
	assert.Equal(t, 6, drain(t, mustNew(t, SelectionSort, sorted, 1), 100))
	assert.Equal(t, 6, drain(t, mustNew(t, BubbleSort, sorted, 1), 100))
	assert.Equal(t, 5, drain(t, mustNew(t, InsertionSort, sorted, 1), 100))
	assert.Equal(t, 7, drain(t, mustNew(t, QuickSort, sorted, 1), 100))
	assert.Equal(t, 3, drain(t, mustNew(t, MergeSort, sorted, 1), 100))
}

func TestDynamicSteppers_NotCounted(t *testing.T) {
	for _, alg := range []Algorithm{QuickSort, MergeSort, BogoSort} {
		s := mustNew(t, alg, []int{3, 1, 2}, 1)
		_, ok := s.(Counted)
		assert.False(t, ok, "%s must not advertise a static step count", alg)
	}
}

func TestInsertion_ConcreteScenario(t *testing.T) {
	s := mustNew(t, InsertionSort, []int{5, 6, 1, 2, 3}, 0)

	want := [][]int{
		{5, 6, 1, 2, 3},
		{1, 5, 6, 2, 3},
		{1, 2, 5, 6, 3},
		{1, 2, 3, 5, 6},
	}
	var got [][]int
	for !s.IsDone() {
		s.Advance()
		got = append(got, s.Values())
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("insertion states mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertion_ResultReportsWalk(t *testing.T) {
	s := mustNew(t, InsertionSort, []int{5, 6, 1, 2, 3}, 0)

	r1 := s.Advance()
	assert.Empty(t, r1.Swapped)
	assert.Equal(t, []int{0, 1}, r1.Compared)

	r2 := s.Advance()
	assert.Equal(t, []Swap{{I: 1, J: 2}, {I: 0, J: 1}}, r2.Swapped)
	assert.Equal(t, []int{0, 1, 2}, r2.Compared)
	assert.False(t, r2.Done)

	s.Advance()
	r4 := s.Advance()
	assert.True(t, r4.Done)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, r4.Sorted)
}

func TestInsertion_WalkToFrontDoesNotReadNegativeIndex(t *testing.T) {
	s := mustNew(t, InsertionSort, []int{9, 8, 7, 6}, 0)
	for !s.IsDone() {
		_, err := SafeAdvance(s)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{6, 7, 8, 9}, s.Values())
}

func TestSelection_FirstStep(t *testing.T) {
	s := mustNew(t, SelectionSort, []int{3, 1, 2}, 0)

	r := s.Advance()
	assert.Equal(t, []int{1, 2}, r.Compared)
	assert.Equal(t, []Swap{{I: 0, J: 1}}, r.Swapped)
	assert.Equal(t, []int{1, 3, 2}, s.Values())
	assert.False(t, r.Done)

	s.Advance()
	last := s.Advance()
	assert.True(t, last.Done)
	assert.Equal(t, []Swap{{I: 2, J: 2}}, last.Swapped)
	assert.Equal(t, []int{0, 1, 2}, last.Sorted)
}

func TestBubble_OnePassPerAdvance(t *testing.T) {
	s := mustNew(t, BubbleSort, []int{3, 1, 2}, 0)

	r1 := s.Advance()
	assert.Equal(t, []Swap{{I: 0, J: 1}, {I: 1, J: 2}}, r1.Swapped)
	assert.Equal(t, []int{1, 2, 3}, s.Values())

	r2 := s.Advance()
	assert.Empty(t, r2.Swapped)
	assert.Equal(t, []int{0, 1}, r2.Compared)

	r3 := s.Advance()
	assert.Empty(t, r3.Compared)
	assert.True(t, r3.Done)
	assert.True(t, s.IsDone())
}

func TestQuick_ConcreteScenarioAcrossSeeds(t *testing.T) {
	input := []int{4, 3, 5, 2, 1, 3, 2, 3}
	for seed := uint64(0); seed < 50; seed++ {
		s := mustNew(t, QuickSort, input, seed)
		drain(t, s, 100)
		assert.Equal(t, []int{1, 2, 2, 3, 3, 3, 4, 5}, s.Values(), "seed %d", seed)
	}
}

func TestQuick_StackBounds(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		s, err := New(Config{Algorithm: QuickSort, Elements: 40, Speed: 1, Seed: seedPtr(seed)})
		require.NoError(t, err)
		q := s.(*quick)

		for !q.IsDone() {
			_, err := SafeAdvance(q)
			require.NoError(t, err, "seed %d", seed)
			assert.LessOrEqual(t, q.Depth(), q.Len())
		}
		assert.LessOrEqual(t, q.MaxDepth(), q.Len())
		assert.Equal(t, 0, q.Depth())
	}
}

func TestQuick_OnePartitionPerElementPlusTerminalTick(t *testing.T) {
	input := []int{4, 3, 5, 2, 1, 3, 2, 3}
	s := mustNew(t, QuickSort, input, 5)
	q := s.(*quick)

	steps := drain(t, s, 100)
	assert.Equal(t, len(input), q.Partitions())
	assert.Equal(t, len(input)+1, steps)
}

func TestQuick_TerminalTickAfterStackDrains(t *testing.T) {
	s := mustNew(t, QuickSort, []int{2, 1}, 3)
	q := s.(*quick)

	for q.Depth() > 0 {
		r := q.Advance()
		assert.False(t, r.Done)
		assert.Len(t, r.Pivot, 1)
	}
	assert.False(t, q.IsDone(), "terminal tick not yet applied")

	r := q.Advance()
	assert.True(t, r.Done)
	assert.Equal(t, []int{0, 1}, r.Sorted)
	assert.Empty(t, r.Swapped)
	assert.True(t, q.IsDone())
}

func TestQuick_PivotLandsInFinalPosition(t *testing.T) {
	input := []int{7, 2, 9, 4, 4, 1}
	s := mustNew(t, QuickSort, input, 11)
	want := slices.Clone(input)
	slices.Sort(want)

	for !s.IsDone() {
		r := s.Advance()
		vals := s.Values()
		for _, p := range r.Pivot {
			assert.Equal(t, want[p], vals[p], "pivot %d not in final position", p)
		}
	}
}

func TestQuick_StackOverflowIsInvariantViolation(t *testing.T) {
	b := base{alg: QuickSort, arr: array.FromValues([]int{1, 2})}
	q := &quick{base: b, rng: array.NewSource(1), stack: make([]bounds, 0, 1)}
	q.push(bounds{low: 0, high: 1})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		iv, ok := r.(*InvariantViolation)
		require.True(t, ok, "got %T", r)
		assert.Contains(t, iv.Message, "overflow")
		assert.Equal(t, QuickSort, iv.Algorithm)
		assert.Contains(t, iv.State, "(0,1)")
	}()
	q.push(bounds{low: 0, high: 0})
}

func TestQuick_PopEmptyIsInvariantViolation(t *testing.T) {
	b := base{alg: QuickSort, arr: array.FromValues([]int{1, 2})}
	q := &quick{base: b, rng: array.NewSource(1), stack: make([]bounds, 0, 2)}
	assert.Panics(t, func() { q.pop() })
}

func TestMerge_WidthDoublesEachPass(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 9, 16, 17, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s, err := New(Config{Algorithm: MergeSort, Elements: n, Speed: 1, Seed: seedPtr(3)})
			require.NoError(t, err)
			m := s.(*merge)

			var widths []int
			for !m.IsDone() {
				widths = append(widths, m.Width())
				m.Advance()
			}

			for i, w := range widths {
				assert.Equal(t, 1<<i, w)
				assert.LessOrEqual(t, w, n)
			}
			// Passes = ceil(log2 n); the last processed width is the largest
			// power of two below n.
			assert.Equal(t, bits.Len(uint(n-1)), m.Passes())
			assert.Equal(t, 1<<(bits.Len(uint(n-1))-1), widths[len(widths)-1])
			assert.True(t, slices.IsSorted(m.Values()))
			assert.Equal(t, widths[len(widths)-1], m.Width(), "width must not grow past the final pass")
			assert.LessOrEqual(t, m.Width(), n)
		})
	}
}

func TestMerge_InPlaceShiftTrace(t *testing.T) {
	s := mustNew(t, MergeSort, []int{2, 1, 4, 3}, 0)

	r1 := s.Advance()
	assert.Equal(t, []int{1, 2, 3, 4}, s.Values())
	assert.Equal(t, []Swap{{I: 0, J: 1}, {I: 2, J: 3}}, r1.Swapped)
	assert.False(t, r1.Done)

	r2 := s.Advance()
	assert.True(t, r2.Done)
	assert.Empty(t, r2.Swapped)
}

func TestMerge_RotationShiftsBlock(t *testing.T) {
	// Runs [3,5] and [1,4]: 1 rotates to the front, shifting 3,5 right.
	s := mustNew(t, MergeSort, []int{3, 5, 1, 4}, 0)
	m := s.(*merge)
	m.width = 2

	r := m.Advance()
	assert.Equal(t, []int{1, 3, 4, 5}, m.Values())
	assert.Equal(t, []Swap{{I: 0, J: 2}, {I: 2, J: 3}}, r.Swapped)
	assert.True(t, r.Done)
}

func TestBogo_PresortedDoneAtConstruction(t *testing.T) {
	s := mustNew(t, BogoSort, []int{1, 2, 2, 5}, 0)
	assert.True(t, s.IsDone())
}

func TestBogo_ReportsWholeArrayCompared(t *testing.T) {
	s := mustNew(t, BogoSort, []int{3, 2, 1}, 4)
	r := s.Advance()
	assert.Equal(t, []int{0, 1, 2}, r.Compared)
	assert.Empty(t, r.Swapped)
	assert.Equal(t, 1, s.(*bogo).Shuffles())
}

func TestIsDone_Idempotent(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			s := mustNew(t, alg, []int{4, 1, 3}, 2)
			before := s.Values()
			for i := 0; i < 5; i++ {
				assert.False(t, s.IsDone())
			}
			assert.Equal(t, before, s.Values())

			drain(t, s, 10000)
			after := s.Values()
			for i := 0; i < 5; i++ {
				assert.True(t, s.IsDone())
			}
			assert.Equal(t, after, s.Values())
		})
	}
}

func TestAdvanceAfterDone_NoMutation(t *testing.T) {
	s := mustNew(t, SelectionSort, []int{2, 1}, 0)
	drain(t, s, 10)
	vals := s.Values()

	r := s.Advance()
	assert.True(t, r.Done)
	assert.Equal(t, vals, s.Values())
}

func TestSameSeedSameTrace(t *testing.T) {
	run := func() [][]int {
		s, err := New(Config{Algorithm: QuickSort, Elements: 30, Speed: 1, Seed: seedPtr(77)})
		require.NoError(t, err)
		var states [][]int
		for !s.IsDone() {
			s.Advance()
			states = append(states, s.Values())
		}
		return states
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed produced different traces:\n%s", diff)
	}
}

func TestSafeAdvance_ConvertsBoundsPanic(t *testing.T) {
	s := &brokenStepper{base: base{alg: BubbleSort, arr: array.FromValues([]int{1, 2})}}

	_, err := SafeAdvance(s)
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))

	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, BubbleSort, iv.Algorithm)
	assert.Equal(t, []int{1, 2}, iv.Values)
	assert.Equal(t, "broken", iv.State)

	var be *array.BoundsError
	assert.ErrorAs(t, err, &be)
}

// brokenStepper reads past the end of its array.
type brokenStepper struct {
	base
}

func (b *brokenStepper) State() string { return "broken" }

func (b *brokenStepper) Advance() Result {
	b.arr.At(b.arr.Len())
	return Result{}
}
