package stepper

import "slices"

// Role is the semantic part an index played in one step.
// Higher roles take precedence when an index plays several.
type Role int

const (
	RoleNone Role = iota
	RoleCompared
	RoleSwapped
	RolePivot
	RoleSorted
)

// String returns the role name used in traces.
func (r Role) String() string {
	switch r {
	case RoleCompared:
		return "compared"
	case RoleSwapped:
		return "swapped"
	case RolePivot:
		return "pivot"
	case RoleSorted:
		return "sorted"
	default:
		return "none"
	}
}

// Swap records two indices whose values were exchanged, or for merge sort a
// value moved from J down to I by a shifting rotation.
type Swap struct {
	I int
	J int
}

// Result is the report of a single Advance call.
// It is produced fresh by every call and carries no algorithmic state.
type Result struct {
	Compared []int
	Swapped  []Swap
	Pivot    []int
	Sorted   []int
	Done     bool
}

// Roles resolves the role of every index in [0,n) for this step.
// Indices outside [0,n) are ignored.
func (r Result) Roles(n int) []Role {
	roles := make([]Role, n)
	mark := func(i int, role Role) {
		if i >= 0 && i < n && roles[i] < role {
			roles[i] = role
		}
	}
	for _, i := range r.Compared {
		mark(i, RoleCompared)
	}
	for _, s := range r.Swapped {
		mark(s.I, RoleSwapped)
		mark(s.J, RoleSwapped)
	}
	for _, i := range r.Pivot {
		mark(i, RolePivot)
	}
	for _, i := range r.Sorted {
		mark(i, RoleSorted)
	}
	return roles
}

// Touched returns every index mentioned by the result, ascending, without
// duplicates.
func (r Result) Touched() []int {
	var out []int
	out = append(out, r.Compared...)
	for _, s := range r.Swapped {
		out = append(out, s.I, s.J)
	}
	out = append(out, r.Pivot...)
	out = append(out, r.Sorted...)
	slices.Sort(out)
	return slices.Compact(out)
}

// normalize sorts and deduplicates the index sets. Swapped keeps its order
// since it describes a sequence of mutations.
func (r *Result) normalize() {
	r.Compared = sortedSet(r.Compared)
	r.Pivot = sortedSet(r.Pivot)
}

func sortedSet(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	slices.Sort(xs)
	return slices.Compact(xs)
}

// span returns the indices [lo, hi).
func span(lo, hi int) []int {
	if hi <= lo {
		return nil
	}
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}
