package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wizard/internal/stepper"
)

func TestCounted(t *testing.T) {
	c := NewCounted(3)
	assert.Equal(t, 3, c.Total())

	for i := 1; i <= 3; i++ {
		require.True(t, c.HasNext())
		require.True(t, c.HasNext(), "HasNext must not consume")
		tick, ok := c.Next()
		require.True(t, ok)
		assert.Equal(t, i, tick.Index)
	}

	assert.False(t, c.HasNext())
	_, ok := c.Next()
	assert.False(t, ok)
	assert.Equal(t, 3, c.Emitted())
}

func TestCounted_EmptyAndNegative(t *testing.T) {
	assert.False(t, NewCounted(0).HasNext())
	assert.False(t, NewCounted(-4).HasNext())
	assert.Equal(t, 0, NewCounted(-4).Total())
}

func TestLazy(t *testing.T) {
	remaining := 2
	l := NewLazy(func() bool { return remaining == 0 })

	tick, ok := l.Next()
	require.True(t, ok)
	assert.Equal(t, 1, tick.Index)
	remaining--

	assert.True(t, l.HasNext())
	_, ok = l.Next()
	require.True(t, ok)
	remaining--

	assert.False(t, l.HasNext())
	_, ok = l.Next()
	assert.False(t, ok)
	assert.Equal(t, 2, l.Emitted())
}

func TestFor_AgreesWithStepper(t *testing.T) {
	for _, alg := range stepper.Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			s, err := stepper.NewWithValues(alg, []int{5, 6, 1, 2, 3}, 8)
			require.NoError(t, err)

			seq := For(s)
			ticks := 0
			for {
				_, ok := seq.Next()
				if !ok {
					break
				}
				require.False(t, s.IsDone(), "tick %d issued after stepper finished", ticks+1)
				s.Advance()
				ticks++
				require.Less(t, ticks, 100000)
			}

			assert.True(t, s.IsDone(), "sequencer exhausted before stepper finished")
			assert.Equal(t, ticks, seq.Emitted())
		})
	}
}

func TestFor_KindsByAlgorithm(t *testing.T) {
	values := []int{3, 1, 2, 5}
	counted := map[stepper.Algorithm]int{
		stepper.SelectionSort: 4,
		stepper.BubbleSort:    4,
		stepper.InsertionSort: 3,
	}

	for _, alg := range stepper.Algorithms() {
		s, err := stepper.NewWithValues(alg, values, 1)
		require.NoError(t, err)

		seq := For(s)
		if want, ok := counted[alg]; ok {
			c, isCounted := seq.(*Counted)
			require.True(t, isCounted, "%s should get a counted sequence", alg)
			assert.Equal(t, want, c.Total())
		} else {
			_, isLazy := seq.(*Lazy)
			assert.True(t, isLazy, "%s should get a lazy sequence", alg)
		}
	}
}

func TestFor_PresortedBogoHasNoTicks(t *testing.T) {
	s, err := stepper.NewWithValues(stepper.BogoSort, []int{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.False(t, For(s).HasNext())
}
