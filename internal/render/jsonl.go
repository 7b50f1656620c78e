package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/wizard/internal/engine"
)

// JSONLines writes one JSON object per frame, newline terminated.
type JSONLines struct {
	enc *json.Encoder
}

// NewJSONLines returns a renderer writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

type frameRecord struct {
	RunID     string   `json:"run_id"`
	Seq       int64    `json:"seq"`
	Tick      int      `json:"tick"`
	Algorithm string   `json:"algorithm"`
	Values    []int    `json:"values"`
	Roles     []string `json:"roles"`
	Done      bool     `json:"done"`
}

// Render implements engine.Renderer.
func (j *JSONLines) Render(_ context.Context, f engine.Frame) error {
	rec := frameRecord{
		RunID:     f.RunID,
		Seq:       f.Seq,
		Tick:      f.Tick,
		Algorithm: f.Algorithm.String(),
		Values:    f.Values,
		Roles:     make([]string, len(f.Roles)),
		Done:      f.Done,
	}
	if rec.Values == nil {
		rec.Values = []int{}
	}
	for i, r := range f.Roles {
		rec.Roles[i] = r.String()
	}
	if err := j.enc.Encode(rec); err != nil {
		return fmt.Errorf("render json frame %d: %w", f.Tick, err)
	}
	return nil
}
