// Package engine drives a sort stepper tick by tick.
//
// The engine is the headless animation driver: it pulls ticks from a
// sequencer, advances the stepper once per tick, records the resulting frame
// into a trace and hands it to the configured renderers.
//
// ARCHITECTURE:
//
// Single-Writer Loop:
// All stepper mutation happens on the goroutine that calls Run (or Step).
// Renderers are called synchronously from that goroutine, so a frame is
// fully rendered before the next tick begins.
//
// Tick Flow:
//  1. Sequencer yields a tick (counted or lazy, see package sequencer)
//  2. Tick budget is charged
//  3. Stepper advances once, panics are converted to InvariantViolation
//  4. Frame is stamped with the logical clock and appended to the trace
//  5. Renderers draw the frame
//  6. Sequencer exhaustion is checked against the stepper's IsDone
//
// Pacing:
// Run waits interval/speed between ticks using a time.Ticker. A zero
// interval runs unpaced, which is what tests and trace recording use.
//
// Frame order is fixed by the logical clock, never by wall-clock time, so a
// seeded run always produces the same trace and digest.
package engine
