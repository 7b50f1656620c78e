package testutil

import (
	"fmt"

	"github.com/roach88/wizard/internal/stepper"
)

// ScriptedStepper is a fake stepper for driving the engine into states a
// real sort never reaches.
//
// It finishes after DoneAfter advances. When Claimed is non-negative it
// advertises that many steps through StepCount, which lets tests make the
// counted sequencer disagree with IsDone. PanicAt makes the given advance
// (1-based) panic.
type ScriptedStepper struct {
	Data      []int
	DoneAfter int
	Claimed   int
	PanicAt   int

	advances int
}

// NewScriptedStepper returns a stepper over values that is done after
// doneAfter advances and claims no step count.
func NewScriptedStepper(values []int, doneAfter int) *ScriptedStepper {
	return &ScriptedStepper{Data: values, DoneAfter: doneAfter, Claimed: -1}
}

func (s *ScriptedStepper) Algorithm() stepper.Algorithm { return stepper.BubbleSort }
func (s *ScriptedStepper) Seed() uint64                 { return 0 }
func (s *ScriptedStepper) Len() int                     { return len(s.Data) }

func (s *ScriptedStepper) Values() []int {
	return append([]int(nil), s.Data...)
}

func (s *ScriptedStepper) IsDone() bool { return s.advances >= s.DoneAfter }

func (s *ScriptedStepper) State() string {
	return fmt.Sprintf("advances=%d", s.advances)
}

func (s *ScriptedStepper) Advance() stepper.Result {
	if s.IsDone() {
		return stepper.Result{Done: true}
	}
	s.advances++
	if s.advances == s.PanicAt {
		panic(fmt.Sprintf("scripted panic at advance %d", s.advances))
	}
	return stepper.Result{Compared: []int{0}, Done: s.IsDone()}
}

// Advances returns how many times Advance did work.
func (s *ScriptedStepper) Advances() int { return s.advances }

// Counted wraps s so it advertises Claimed steps.
func (s *ScriptedStepper) Counted() *CountedScript {
	return &CountedScript{ScriptedStepper: s}
}

// CountedScript is a ScriptedStepper that implements stepper.Counted.
type CountedScript struct {
	*ScriptedStepper
}

// StepCount returns the claimed step count.
func (c *CountedScript) StepCount() int { return c.Claimed }
