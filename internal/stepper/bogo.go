package stepper

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// bogo shuffles the whole array once per Advance until it matches the
// sorted copy cached at construction. The expected number of advances
// grows factorially with N and is unbounded in the worst case, so drivers
// must poll IsDone rather than budget frames up front.
type bogo struct {
	base
	rng      *rand.Rand
	target   []int
	shuffles int
}

func newBogo(b base, rng *rand.Rand) *bogo {
	s := &bogo{
		base:   b,
		rng:    rng,
		target: slices.Sorted(slices.Values(b.arr.Values())),
	}
	if s.arr.Equal(s.target) {
		s.done = true
	}
	return s
}

// Shuffles returns the number of shuffles performed.
func (s *bogo) Shuffles() int { return s.shuffles }

func (s *bogo) State() string {
	return fmt.Sprintf("shuffles=%d", s.shuffles)
}

func (s *bogo) Advance() Result {
	if s.done {
		return s.terminal()
	}

	s.arr.Shuffle(s.rng)
	s.shuffles++

	// Shuffling is opaque: everything is reported as compared.
	r := Result{Compared: span(0, s.arr.Len())}
	if s.arr.Equal(s.target) {
		s.finish(&r)
	}
	return r
}
