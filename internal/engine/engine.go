package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/wizard/internal/sequencer"
	"github.com/roach88/wizard/internal/stepper"
	"github.com/roach88/wizard/internal/trace"
)

// DefaultInterval is the base delay between ticks at speed 1.
const DefaultInterval = 100 * time.Millisecond

// Frame is what renderers receive for each tick. Tick 0 is the initial
// array before any advance.
type Frame struct {
	trace.Frame

	// Seq is the logical clock stamp. Strictly increasing within a run.
	Seq int64

	RunID     string
	Algorithm stepper.Algorithm

	// Roles holds the resolved role of every index for this frame only.
	// Roles never carry over between frames.
	Roles []stepper.Role
}

// Renderer draws frames. Render is called from the engine's loop goroutine,
// one frame at a time, in tick order.
type Renderer interface {
	Render(ctx context.Context, f Frame) error
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	RunID     string
	Algorithm stepper.Algorithm
	Elements  int
	Seed      uint64
	Speed     float64
	Interval  time.Duration
	Ticks     int
	Sorted    bool
	Final     []int
	Digest    string
}

// Engine drives one stepper to completion.
//
// Not safe for concurrent use: Step and Run must be called from a single
// goroutine.
type Engine struct {
	stepper   stepper.Stepper
	seq       sequencer.Sequencer
	clock     *Clock
	trace     *trace.Trace
	renderers []Renderer
	runIDGen  RunIDGenerator
	runID     string

	interval time.Duration
	speed    float64
	budget   *TickBudget
	maxTicks int

	logger *slog.Logger

	started bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval sets the base tick interval. Zero runs unpaced.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.interval = max(d, 0)
	}
}

// WithSpeed scales the tick rate. Values <= 0 are ignored.
func WithSpeed(speed float64) Option {
	return func(e *Engine) {
		if speed > 0 {
			e.speed = speed
		}
	}
}

// WithMaxTicks caps the run length. Zero means unlimited.
func WithMaxTicks(n int) Option {
	return func(e *Engine) {
		e.maxTicks = n
	}
}

// WithRenderer adds a renderer. Renderers are called in the order added.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		e.renderers = append(e.renderers, r)
	}
}

// WithRunIDGenerator replaces the default UUIDv7 generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDGen = g
	}
}

// WithSequencer overrides the sequencer picked by sequencer.For.
func WithSequencer(s sequencer.Sequencer) Option {
	return func(e *Engine) {
		e.seq = s
	}
}

// WithClock supplies the logical clock, for runs that continue numbering
// from an earlier position.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New builds an engine for s. The run id is drawn once, here.
func New(s stepper.Stepper, opts ...Option) *Engine {
	e := &Engine{
		stepper:  s,
		clock:    NewClock(),
		trace:    trace.New(s),
		runIDGen: UUIDv7Generator{},
		interval: DefaultInterval,
		speed:    stepper.DefaultSpeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.seq == nil {
		e.seq = sequencer.For(s)
	}
	e.budget = NewTickBudget(e.maxTicks)
	e.runID = e.runIDGen.Generate()
	return e
}

// RunID returns the id assigned to this run.
func (e *Engine) RunID() string { return e.runID }

// Trace returns the frames recorded so far.
func (e *Engine) Trace() *trace.Trace { return e.trace }

// TickInterval returns the paced delay between ticks: interval / speed.
func (e *Engine) TickInterval() time.Duration {
	if e.interval == 0 {
		return 0
	}
	return time.Duration(float64(e.interval) / e.speed)
}

// Done reports whether the run has nothing left to do.
func (e *Engine) Done() bool {
	return !e.seq.HasNext()
}

// Step performs one tick. It returns ErrFinished once the sequencer is
// exhausted. The first call also renders the initial frame.
func (e *Engine) Step(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if err := e.start(ctx); err != nil {
		return Frame{}, err
	}

	if !e.seq.HasNext() {
		if err := e.checkAgreement(e.seq.Emitted()); err != nil {
			return Frame{}, err
		}
		return Frame{}, ErrFinished
	}
	if e.stepper.IsDone() {
		return Frame{}, e.mismatch(e.seq.Emitted()+1, false, true)
	}

	if err := e.budget.Charge(e.runID); err != nil {
		var be *TickBudgetExceededError
		if errors.As(err, &be) {
			e.logger.Warn("tick budget exceeded",
				"run", e.runID,
				"algorithm", e.stepper.Algorithm().String(),
				"limit", be.Limit,
			)
			return Frame{}, NewBudgetError(be, e.stepper.Algorithm())
		}
		return Frame{}, err
	}

	tick, _ := e.seq.Next()
	r, err := stepper.SafeAdvance(e.stepper)
	if err != nil {
		logViolation(e.logger, e.runID, tick.Index, err)
		return Frame{}, fmt.Errorf("tick %d: %w", tick.Index, err)
	}

	tf := trace.NewFrame(tick.Index, e.stepper.Values(), r)
	e.trace.Append(tf)
	f := e.frame(tf, r)

	e.logger.Debug("tick",
		"run", e.runID,
		"seq", f.Seq,
		"tick", tick.Index,
		"algorithm", f.Algorithm.String(),
		"done", r.Done,
	)

	if err := e.render(ctx, f); err != nil {
		return f, err
	}
	if err := e.checkAgreement(tick.Index); err != nil {
		return f, err
	}
	return f, nil
}

// Run steps until the sequencer is exhausted, pacing ticks by
// TickInterval. Cancelling ctx stops the run between ticks; the array is
// left in a valid intermediate state and the partial summary is returned
// with ctx's error.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	e.logger.Info("run starting",
		"run", e.runID,
		"algorithm", e.stepper.Algorithm().String(),
		"elements", e.stepper.Len(),
		"seed", e.stepper.Seed(),
		"interval", e.TickInterval(),
	)

	if err := e.start(ctx); err != nil {
		return e.partial(), err
	}

	var wait <-chan time.Time
	if d := e.TickInterval(); d > 0 {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		wait = ticker.C
	}

	for e.seq.HasNext() {
		if wait != nil {
			select {
			case <-ctx.Done():
				e.logger.Info("run stopping: context cancelled", "run", e.runID, "ticks", e.seq.Emitted())
				return e.partial(), ctx.Err()
			case <-wait:
			}
		}
		if _, err := e.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				e.logger.Info("run stopping: context cancelled", "run", e.runID, "ticks", e.seq.Emitted())
			}
			return e.partial(), err
		}
	}

	if err := e.checkAgreement(e.seq.Emitted()); err != nil {
		return e.partial(), err
	}

	sum, err := e.Summary()
	if err != nil {
		return sum, err
	}
	e.logger.Info("run finished",
		"run", e.runID,
		"ticks", sum.Ticks,
		"sorted", sum.Sorted,
		"digest", sum.Digest,
	)
	return sum, nil
}

// Summary reports the run's current position and the digest of the frames
// recorded so far.
func (e *Engine) Summary() (Summary, error) {
	sum := e.partial()
	digest, err := e.trace.Digest()
	if err != nil {
		return sum, fmt.Errorf("summary for run %s: %w", e.runID, err)
	}
	sum.Digest = digest
	return sum, nil
}

func (e *Engine) partial() Summary {
	final := e.stepper.Values()
	return Summary{
		RunID:     e.runID,
		Algorithm: e.stepper.Algorithm(),
		Elements:  e.stepper.Len(),
		Seed:      e.stepper.Seed(),
		Speed:     e.speed,
		Interval:  e.TickInterval(),
		Ticks:     len(e.trace.Frames),
		Sorted:    slices.IsSorted(final),
		Final:     final,
	}
}

// start renders the initial frame once.
func (e *Engine) start(ctx context.Context) error {
	if e.started {
		return nil
	}
	e.started = true

	var r stepper.Result
	if e.stepper.IsDone() {
		r = stepper.Result{Done: true}
		for i := range e.stepper.Len() {
			r.Sorted = append(r.Sorted, i)
		}
	}
	tf := trace.NewFrame(0, e.stepper.Values(), r)
	return e.render(ctx, e.frame(tf, r))
}

func (e *Engine) frame(tf trace.Frame, r stepper.Result) Frame {
	return Frame{
		Frame:     tf,
		Seq:       e.clock.Next(),
		RunID:     e.runID,
		Algorithm: e.stepper.Algorithm(),
		Roles:     r.Roles(len(tf.Values)),
	}
}

func (e *Engine) render(ctx context.Context, f Frame) error {
	for _, r := range e.renderers {
		if err := r.Render(ctx, f); err != nil {
			return &RuntimeError{
				Code:      ErrCodeRenderFailed,
				Message:   err.Error(),
				RunID:     e.runID,
				Algorithm: f.Algorithm,
				Tick:      f.Tick,
			}
		}
	}
	return nil
}

// checkAgreement fails when the sequencer and the stepper disagree about
// whether the run is over.
func (e *Engine) checkAgreement(tick int) error {
	exhausted := !e.seq.HasNext()
	done := e.stepper.IsDone()
	if exhausted != done {
		return e.mismatch(tick, exhausted, done)
	}
	return nil
}

func (e *Engine) mismatch(tick int, exhausted, done bool) error {
	err := NewSequenceMismatchError(e.runID, e.stepper.Algorithm(), tick, exhausted, done)
	e.logger.Error("sequence mismatch",
		"run", e.runID,
		"algorithm", e.stepper.Algorithm().String(),
		"tick", tick,
		"exhausted", exhausted,
		"done", done,
		"state", e.stepper.State(),
	)
	return err
}

// logViolation records an invariant violation with the context needed to
// reproduce it.
func logViolation(logger *slog.Logger, runID string, tick int, err error) {
	var iv *stepper.InvariantViolation
	if errors.As(err, &iv) {
		logger.Error("invariant violation",
			"run", runID,
			"tick", tick,
			"algorithm", iv.Algorithm.String(),
			"state", iv.State,
			"values", fmt.Sprint(iv.Values),
			"error", iv.Message,
		)
		return
	}
	logger.Error("advance failed", "run", runID, "tick", tick, "error", err)
}
