// Package sequencer produces the ticks that pace a stepper.
//
// A sequencer answers "is there a next tick?" without touching the stepper.
// For steppers with a step count fixed at construction it is a finite
// counted sequence; for everything else it is a lazy, open-ended sequence
// that ends only when the stepper reports done. The driver checks after
// every tick that exhaustion and IsDone agree.
package sequencer

import (
	"github.com/roach88/wizard/internal/stepper"
)

// Tick is one driver cycle. Index counts from 1.
type Tick struct {
	Index int
}

// Sequencer yields ticks until exhausted.
type Sequencer interface {
	// HasNext reports whether Next would return a tick. It never advances
	// anything.
	HasNext() bool

	// Next returns the next tick, or false once the sequence is exhausted.
	Next() (Tick, bool)

	// Emitted returns the number of ticks handed out so far.
	Emitted() int
}

// Counted is a finite sequence of exactly Total ticks.
type Counted struct {
	total   int
	emitted int
}

// NewCounted returns a sequence of total ticks. Negative totals are empty.
func NewCounted(total int) *Counted {
	return &Counted{total: max(total, 0)}
}

// Total returns the fixed length of the sequence.
func (c *Counted) Total() int { return c.total }

func (c *Counted) HasNext() bool { return c.emitted < c.total }

func (c *Counted) Next() (Tick, bool) {
	if !c.HasNext() {
		return Tick{}, false
	}
	c.emitted++
	return Tick{Index: c.emitted}, true
}

func (c *Counted) Emitted() int { return c.emitted }

// Lazy is an open-ended sequence terminated by a predicate. The predicate is
// polled on every HasNext/Next call and must be side-effect free.
type Lazy struct {
	done    func() bool
	emitted int
}

// NewLazy returns a sequence that yields ticks while done() is false.
func NewLazy(done func() bool) *Lazy {
	return &Lazy{done: done}
}

func (l *Lazy) HasNext() bool { return !l.done() }

func (l *Lazy) Next() (Tick, bool) {
	if l.done() {
		return Tick{}, false
	}
	l.emitted++
	return Tick{Index: l.emitted}, true
}

func (l *Lazy) Emitted() int { return l.emitted }

// For picks the sequencer matching s: counted when s advertises a static
// step count, lazy on s.IsDone otherwise.
func For(s stepper.Stepper) Sequencer {
	if c, ok := s.(stepper.Counted); ok {
		return NewCounted(c.StepCount())
	}
	return NewLazy(s.IsDone)
}
