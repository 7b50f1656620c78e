// Package harness runs sort scenarios and checks their traces.
//
// A scenario is a YAML file naming an algorithm and either an explicit input
// array or an element count and seed. The harness drives the stepper with
// the real engine (unpaced, fixed run id, discarded logs), records the run
// in an in-memory ledger and evaluates the scenario's assertions against
// the resulting trace:
//
//	name: insertion-walk
//	description: Insertion sort over a partly sorted array
//	algorithm: insertion
//	input: [5, 6, 1, 2, 3]
//	assertions:
//	  - type: ticks
//	    count: 4
//	  - type: step
//	    tick: 2
//	    values: [1, 5, 6, 2, 3]
//	  - type: sorted
//
// Golden files hold the canonical JSON of a scenario's trace together with
// its digest. Regenerate them with:
//
//	go test ./internal/harness -update
package harness
