package stepper

import "fmt"

// selection advances one outer iteration of selection sort per call.
//
// INVARIANT: [0,cursor) holds the cursor smallest values in final order.
type selection struct {
	base
	cursor int
}

func newSelection(b base) *selection {
	s := &selection{base: b}
	if s.arr.Len() <= 1 {
		s.done = true
	}
	return s
}

// StepCount is N, one advance per position; zero when N <= 1.
func (s *selection) StepCount() int {
	if s.arr.Len() <= 1 {
		return 0
	}
	return s.arr.Len()
}

func (s *selection) State() string {
	return fmt.Sprintf("cursor=%d", s.cursor)
}

func (s *selection) Advance() Result {
	if s.done {
		return s.terminal()
	}

	n := s.arr.Len()
	c := s.cursor
	minIdx := c
	var r Result
	r.Compared = span(c+1, n)
	for j := c + 1; j < n; j++ {
		if s.arr.At(j) < s.arr.At(minIdx) {
			minIdx = j
		}
	}

	// The pair is reported even when minIdx == c so the cursor position is
	// always highlighted.
	s.arr.Swap(c, minIdx)
	r.Swapped = []Swap{{I: c, J: minIdx}}

	s.cursor++
	if s.cursor == n {
		s.finish(&r)
	}
	r.normalize()
	return r
}
