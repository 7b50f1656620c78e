package stepper

import "fmt"

// merge is bottom-up merge sort. One Advance merges every adjacent run
// pair of the current width across the whole array, then doubles the
// width. Merging is done in place by shifting: an out-of-order element of
// the right run is rotated into the left run by moving the block between
// them one cell right. No scratch buffer is allocated.
//
// The sort is done after the pass whose doubled width would reach N, i.e.
// the last pass processes runs of the largest power of two below N. The
// width stays a power of two no larger than N throughout.
type merge struct {
	base
	width  int
	passes int
}

func newMerge(b base) *merge {
	s := &merge{base: b, width: 1}
	if s.arr.Len() <= 1 {
		s.done = true
	}
	return s
}

// Width returns the run width the next pass will merge. Once done it is the
// width of the final pass.
func (s *merge) Width() int { return s.width }

// Passes returns the number of completed passes.
func (s *merge) Passes() int { return s.passes }

func (s *merge) State() string {
	return fmt.Sprintf("width=%d passes=%d", s.width, s.passes)
}

func (s *merge) Advance() Result {
	if s.done {
		return s.terminal()
	}

	n := s.arr.Len()
	w := s.width
	var r Result
	for left := 0; left+w < n; left += 2 * w {
		mid := left + w - 1
		right := min(left+2*w-1, n-1)
		s.mergeRuns(left, mid, right, &r)
	}

	s.passes++
	if 2*w >= n {
		s.finish(&r)
	} else {
		s.width = 2 * w
	}
	r.normalize()
	return r
}

// mergeRuns merges [left,mid] with [mid+1,right]. Each rotation grows the
// left run by one, so mid advances along with i and j.
func (s *merge) mergeRuns(left, mid, right int, r *Result) {
	i, j := left, mid+1
	for i <= mid && j <= right {
		r.Compared = append(r.Compared, i, j)
		if s.arr.At(i) <= s.arr.At(j) {
			i++
			continue
		}

		v := s.arr.At(j)
		for k := j; k > i; k-- {
			s.arr.Set(k, s.arr.At(k-1))
		}
		s.arr.Set(i, v)
		r.Swapped = append(r.Swapped, Swap{I: i, J: j})

		i++
		mid++
		j++
	}
}
