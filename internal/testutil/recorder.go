package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/wizard/internal/engine"
)

// Recorder is an engine.Renderer that keeps every frame it is given.
//
// Safe for concurrent use so tests can inspect it while a run is in
// progress on another goroutine.
type Recorder struct {
	mu     sync.Mutex
	frames []engine.Frame

	// FailAt makes Render return an error for the frame with this tick.
	// Negative disables it.
	FailAt int
}

// NewRecorder returns a recorder that never fails.
func NewRecorder() *Recorder {
	return &Recorder{FailAt: -1}
}

// Render implements engine.Renderer.
func (r *Recorder) Render(_ context.Context, f engine.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.Tick == r.FailAt {
		return fmt.Errorf("recorder: refusing frame at tick %d", f.Tick)
	}
	r.frames = append(r.frames, f)
	return nil
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []engine.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Frame(nil), r.frames...)
}

// Ticks returns the tick index of every recorded frame, in order.
func (r *Recorder) Ticks() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticks := make([]int, len(r.frames))
	for i, f := range r.frames {
		ticks[i] = f.Tick
	}
	return ticks
}
