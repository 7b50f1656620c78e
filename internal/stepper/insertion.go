package stepper

import "fmt"

// insertion advances one backward insertion walk per call: the element at
// the cursor sinks into the sorted prefix [0,cursor).
type insertion struct {
	base
	cursor int
}

func newInsertion(b base) *insertion {
	s := &insertion{base: b, cursor: 1}
	if s.arr.Len() <= 1 {
		s.done = true
	}
	return s
}

// StepCount is N-1; zero when N <= 1.
func (s *insertion) StepCount() int {
	if s.arr.Len() <= 1 {
		return 0
	}
	return s.arr.Len() - 1
}

func (s *insertion) State() string {
	return fmt.Sprintf("cursor=%d", s.cursor)
}

func (s *insertion) Advance() Result {
	if s.done {
		return s.terminal()
	}

	n := s.arr.Len()
	c := s.cursor
	var r Result

	// The j >= 0 guard must be evaluated before arr[j] is read.
	j := c - 1
	for j >= 0 && s.arr.At(j) > s.arr.At(j+1) {
		s.arr.Swap(j, j+1)
		r.Swapped = append(r.Swapped, Swap{I: j, J: j + 1})
		j--
	}
	r.Compared = span(max(j, 0), c+1)

	s.cursor++
	if s.cursor == n {
		s.finish(&r)
	}
	r.normalize()
	return r
}
