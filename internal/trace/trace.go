// Package trace records the frames of a driven sort and serializes them
// canonically.
//
// A Trace holds the algorithm, seed, the initial array and one Frame per
// tick. Its canonical JSON form is stable across runs: the same seed and
// algorithm always produce byte-identical output and the same Digest, which
// is what replay verification and golden files compare.
package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/roach88/wizard/internal/stepper"
)

// DomainTrace separates trace digests from any other hash.
const DomainTrace = "wizard/trace/v1"

// Frame is the state after one tick.
type Frame struct {
	Tick     int
	Values   []int
	Compared []int
	Swapped  [][2]int
	Pivot    []int
	Sorted   []int
	Done     bool
}

// NewFrame captures the array state and step report for a tick.
func NewFrame(tick int, values []int, r stepper.Result) Frame {
	f := Frame{
		Tick:     tick,
		Values:   slices.Clone(values),
		Compared: slices.Clone(r.Compared),
		Pivot:    slices.Clone(r.Pivot),
		Sorted:   slices.Clone(r.Sorted),
		Done:     r.Done,
	}
	for _, s := range r.Swapped {
		f.Swapped = append(f.Swapped, [2]int{s.I, s.J})
	}
	return f
}

// Trace is the full record of one sort.
type Trace struct {
	Algorithm stepper.Algorithm
	Seed      uint64
	Initial   []int
	Frames    []Frame
}

// New starts a trace for s before its first advance.
func New(s stepper.Stepper) *Trace {
	return &Trace{
		Algorithm: s.Algorithm(),
		Seed:      s.Seed(),
		Initial:   s.Values(),
	}
}

// Append adds a frame.
func (t *Trace) Append(f Frame) {
	t.Frames = append(t.Frames, f)
}

// Final returns the array after the last frame, or the initial array when
// no frames were recorded.
func (t *Trace) Final() []int {
	if len(t.Frames) == 0 {
		return slices.Clone(t.Initial)
	}
	return slices.Clone(t.Frames[len(t.Frames)-1].Values)
}

// CanonicalMap converts the trace to the generic form accepted by
// MarshalCanonical. Empty role sets are omitted.
func (t *Trace) CanonicalMap() map[string]any {
	frames := make([]any, len(t.Frames))
	for i, f := range t.Frames {
		frames[i] = f.canonicalMap()
	}
	return map[string]any{
		"algorithm": t.Algorithm.String(),
		"seed":      t.Seed,
		"initial":   nonNil(t.Initial),
		"frames":    frames,
	}
}

func (f Frame) canonicalMap() map[string]any {
	m := map[string]any{
		"tick":   f.Tick,
		"values": nonNil(f.Values),
		"done":   f.Done,
	}
	if len(f.Compared) > 0 {
		m["compared"] = f.Compared
	}
	if len(f.Swapped) > 0 {
		pairs := make([]any, len(f.Swapped))
		for i, p := range f.Swapped {
			pairs[i] = []int{p[0], p[1]}
		}
		m["swapped"] = pairs
	}
	if len(f.Pivot) > 0 {
		m["pivot"] = f.Pivot
	}
	if len(f.Sorted) > 0 {
		m["sorted"] = f.Sorted
	}
	return m
}

// MarshalCanonical returns the canonical JSON encoding of the trace.
func (t *Trace) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(t.CanonicalMap())
}

// Digest returns the hex SHA-256 of the canonical trace, domain separated.
func (t *Trace) Digest() (string, error) {
	data, err := t.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("trace digest: %w", err)
	}
	return hashWithDomain(DomainTrace, data), nil
}

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
