// Package array holds the bar values every stepper mutates.
//
// An Array is a fixed-length, index-addressable sequence of integers in
// [MinValue, MaxValue]. Its length never changes after construction.
// Out-of-range access panics with *BoundsError: the driver never supplies
// bad indices, so reaching one means the caller is defective.
package array

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Value range for generated arrays (inclusive).
const (
	MinValue = 1
	MaxValue = 100
)

// Array is an ordered, mutable sequence of bar heights.
type Array struct {
	values []int
}

// NewSource returns the deterministic random source used for a seed.
// Array filling, pivot selection and shuffling all draw from one source
// so a seed fixes an entire run.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New fills n cells with values drawn uniformly from [MinValue, MaxValue]
// using a source seeded with seed.
func New(n int, seed uint64) *Array {
	return Fill(n, NewSource(seed))
}

// Fill fills n cells from rng. Negative n is treated as zero.
func Fill(n int, rng *rand.Rand) *Array {
	if n < 0 {
		n = 0
	}
	values := make([]int, n)
	for i := range values {
		values[i] = MinValue + rng.IntN(MaxValue-MinValue+1)
	}
	return &Array{values: values}
}

// FromValues builds an Array over a copy of values.
func FromValues(values []int) *Array {
	return &Array{values: slices.Clone(values)}
}

// Len returns the number of cells.
func (a *Array) Len() int {
	return len(a.values)
}

// At returns the value at index i.
func (a *Array) At(i int) int {
	a.check("at", i)
	return a.values[i]
}

// Set stores v at index i.
func (a *Array) Set(i, v int) {
	a.check("set", i)
	a.values[i] = v
}

// Swap exchanges cells i and j.
func (a *Array) Swap(i, j int) {
	a.check("swap", i)
	a.check("swap", j)
	a.values[i], a.values[j] = a.values[j], a.values[i]
}

// Shuffle permutes the cells uniformly at random.
func (a *Array) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(a.values), func(i, j int) {
		a.values[i], a.values[j] = a.values[j], a.values[i]
	})
}

// IsSorted reports whether the sequence is non-decreasing.
// Empty and single-cell arrays are sorted.
func (a *Array) IsSorted() bool {
	for i := 1; i < len(a.values); i++ {
		if a.values[i-1] > a.values[i] {
			return false
		}
	}
	return true
}

// Values returns a copy of the cells.
func (a *Array) Values() []int {
	return slices.Clone(a.values)
}

// Equal reports whether the cells equal values element-wise.
func (a *Array) Equal(values []int) bool {
	return slices.Equal(a.values, values)
}

// String renders the cells like a Go slice.
func (a *Array) String() string {
	return fmt.Sprint(a.values)
}

func (a *Array) check(op string, i int) {
	if i < 0 || i >= len(a.values) {
		panic(&BoundsError{Op: op, Index: i, Len: len(a.values)})
	}
}

// BoundsError is the panic value for an out-of-range index.
type BoundsError struct {
	Op    string
	Index int
	Len   int
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("array %s: index %d out of range [0,%d)", e.Op, e.Index, e.Len)
}
