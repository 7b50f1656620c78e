package stepper

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// bounds is a pending inclusive index range awaiting partition.
type bounds struct {
	low  int
	high int
}

// quick is quicksort with the recursion replaced by an explicit stack of
// pending ranges. One Advance pops one range and partitions it with the
// Lomuto scheme around a uniformly random pivot. After the stack drains,
// one more Advance applies the terminal all-sorted state.
//
// INVARIANTS:
//   - every popped range is fully partitioned before its children are pushed
//   - ranges on the stack are non-empty and pairwise disjoint, so the stack
//     never holds more than N entries; its capacity is exactly N
//   - the stack is never popped when empty
type quick struct {
	base
	rng        *rand.Rand
	stack      []bounds
	partitions int
	maxDepth   int
}

func newQuick(b base, rng *rand.Rand) *quick {
	s := &quick{base: b, rng: rng}
	n := s.arr.Len()
	if n <= 1 {
		s.done = true
		return s
	}
	s.stack = make([]bounds, 0, n)
	s.push(bounds{low: 0, high: n - 1})
	return s
}

// Depth returns the number of pending ranges.
func (s *quick) Depth() int { return len(s.stack) }

// MaxDepth returns the deepest the stack has been.
func (s *quick) MaxDepth() int { return s.maxDepth }

// Partitions returns how many ranges have been partitioned.
func (s *quick) Partitions() int { return s.partitions }

func (s *quick) State() string {
	var b strings.Builder
	b.WriteString("stack=[")
	for i, r := range s.stack {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "(%d,%d)", r.low, r.high)
	}
	fmt.Fprintf(&b, "] partitions=%d", s.partitions)
	return b.String()
}

func (s *quick) Advance() Result {
	if s.done {
		return s.terminal()
	}

	var r Result
	if len(s.stack) == 0 {
		s.finish(&r)
		return r
	}

	cur := s.pop()
	p := s.partition(cur, &r)
	s.partitions++

	// Right side is pushed last so it is partitioned next.
	if cur.low <= p-1 {
		s.push(bounds{low: cur.low, high: p - 1})
	}
	if p+1 <= cur.high {
		s.push(bounds{low: p + 1, high: cur.high})
	}

	r.normalize()
	return r
}

// partition runs one Lomuto partition of [b.low, b.high] and returns the
// pivot's final index. The pivot is drawn uniformly from the range and
// moved to b.high first.
func (s *quick) partition(b bounds, r *Result) int {
	pi := b.low + s.rng.IntN(b.high-b.low+1)
	if pi != b.high {
		s.arr.Swap(pi, b.high)
		r.Swapped = append(r.Swapped, Swap{I: pi, J: b.high})
	}
	pivot := s.arr.At(b.high)

	boundary := b.low - 1
	for j := b.low; j < b.high; j++ {
		if s.arr.At(j) <= pivot {
			boundary++
			if boundary != j {
				s.arr.Swap(boundary, j)
				r.Swapped = append(r.Swapped, Swap{I: boundary, J: j})
			}
		}
	}

	p := boundary + 1
	if p != b.high {
		s.arr.Swap(p, b.high)
		r.Swapped = append(r.Swapped, Swap{I: p, J: b.high})
	}
	r.Compared = append(r.Compared, span(b.low, b.high+1)...)
	r.Pivot = append(r.Pivot, p)
	return p
}

func (s *quick) push(b bounds) {
	if len(s.stack) >= cap(s.stack) {
		s.violate(s.State(), "partition stack overflow: pushing (%d,%d) beyond capacity %d",
			b.low, b.high, cap(s.stack))
	}
	s.stack = append(s.stack, b)
	s.maxDepth = max(s.maxDepth, len(s.stack))
}

func (s *quick) pop() bounds {
	if len(s.stack) == 0 {
		s.violate(s.State(), "pop from empty partition stack")
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}
