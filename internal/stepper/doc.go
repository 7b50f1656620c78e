// Package stepper turns sorting algorithms into resumable, externally driven
// state machines.
//
// A Stepper owns one Array for the lifetime of a sort. Each call to Advance
// performs exactly one bounded slice of the algorithm, leaves the Array in a
// valid displayable state, and returns a Result describing which indices were
// compared, swapped, used as pivot, or finalized. IsDone reports completion
// and never mutates anything.
//
// UNIT OF WORK PER ADVANCE:
//
//	selection  one outer iteration: find the minimum of [c+1,N), swap into c
//	bubble     one full pass over the unsorted prefix
//	insertion  one backward insertion walk of the element at c
//	quick      one pop-and-partition of a pending range (plus one final tick)
//	merge      one full pass merging every run pair of the current width
//	bogo       one uniform shuffle
//
// Selection, bubble and insertion have a step count fixed at construction
// and implement Counted. Quick, merge and bogo finish dynamically and the
// driver must poll IsDone after every tick.
//
// ERRORS:
//
// Construction problems surface as *ConfigError before any stepper exists.
// Defects detected while stepping (out-of-range access, partition stack
// overflow) panic with *InvariantViolation; SafeAdvance converts such panics
// into errors carrying the algorithm, array contents and cursor/stack state.
package stepper
