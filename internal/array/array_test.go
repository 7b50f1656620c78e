package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValuesInRange(t *testing.T) {
	a := New(500, 42)
	require.Equal(t, 500, a.Len())

	for i := 0; i < a.Len(); i++ {
		v := a.At(i)
		assert.GreaterOrEqual(t, v, MinValue)
		assert.LessOrEqual(t, v, MaxValue)
	}
}

func TestNew_SameSeedSameValues(t *testing.T) {
	a := New(50, 7)
	b := New(50, 7)
	c := New(50, 8)

	assert.Equal(t, a.Values(), b.Values())
	assert.NotEqual(t, a.Values(), c.Values())
}

func TestNew_ZeroAndNegativeLength(t *testing.T) {
	assert.Equal(t, 0, New(0, 1).Len())
	assert.Equal(t, 0, New(-3, 1).Len())
}

func TestIsSorted(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   bool
	}{
		{"empty", nil, true},
		{"single", []int{9}, true},
		{"ascending", []int{1, 2, 3}, true},
		{"duplicates", []int{2, 2, 2, 3}, true},
		{"inversion at end", []int{1, 2, 4, 3}, false},
		{"descending", []int{5, 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromValues(tt.values).IsSorted())
		})
	}
}

func TestSwap(t *testing.T) {
	a := FromValues([]int{1, 2, 3})
	a.Swap(0, 2)
	assert.Equal(t, []int{3, 2, 1}, a.Values())

	a.Swap(1, 1)
	assert.Equal(t, []int{3, 2, 1}, a.Values())
}

func TestSwap_OutOfRangePanics(t *testing.T) {
	a := FromValues([]int{1, 2, 3})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		be, ok := r.(*BoundsError)
		require.True(t, ok, "panic value should be *BoundsError, got %T", r)
		assert.Equal(t, 3, be.Index)
		assert.Equal(t, 3, be.Len)
		assert.Contains(t, be.Error(), "out of range")
	}()

	a.Swap(0, 3)
}

func TestAt_NegativeIndexPanics(t *testing.T) {
	a := FromValues([]int{1})
	assert.Panics(t, func() { a.At(-1) })
}

func TestFromValues_Copies(t *testing.T) {
	src := []int{3, 1, 2}
	a := FromValues(src)
	src[0] = 99

	assert.Equal(t, 3, a.At(0))

	out := a.Values()
	out[1] = 99
	assert.Equal(t, 1, a.At(1))
}

func TestShuffle_PreservesMultiset(t *testing.T) {
	a := FromValues([]int{1, 2, 2, 3, 5, 8})
	a.Shuffle(NewSource(3))

	assert.ElementsMatch(t, []int{1, 2, 2, 3, 5, 8}, a.Values())
}

func TestEqual(t *testing.T) {
	a := FromValues([]int{1, 2})
	assert.True(t, a.Equal([]int{1, 2}))
	assert.False(t, a.Equal([]int{2, 1}))
	assert.False(t, a.Equal([]int{1}))
}
