package stepper

import "fmt"

// bubble advances one full bubble pass per call. A pass may swap zero or
// many adjacent pairs.
//
// INVARIANT: after pass c, [N-c-1,N) holds the largest values in final order.
type bubble struct {
	base
	pass int
}

func newBubble(b base) *bubble {
	s := &bubble{base: b}
	if s.arr.Len() <= 1 {
		s.done = true
	}
	return s
}

// StepCount is N passes; zero when N <= 1.
func (s *bubble) StepCount() int {
	if s.arr.Len() <= 1 {
		return 0
	}
	return s.arr.Len()
}

func (s *bubble) State() string {
	return fmt.Sprintf("pass=%d", s.pass)
}

func (s *bubble) Advance() Result {
	if s.done {
		return s.terminal()
	}

	n := s.arr.Len()
	limit := n - s.pass - 1
	var r Result
	if limit > 0 {
		r.Compared = span(0, limit+1)
	}
	for j := 0; j < limit; j++ {
		if s.arr.At(j) > s.arr.At(j+1) {
			s.arr.Swap(j, j+1)
			r.Swapped = append(r.Swapped, Swap{I: j, J: j + 1})
		}
	}

	s.pass++
	if s.pass == n {
		s.finish(&r)
	}
	r.normalize()
	return r
}
