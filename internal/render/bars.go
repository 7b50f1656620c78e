package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/roach88/wizard/internal/array"
	"github.com/roach88/wizard/internal/engine"
	"github.com/roach88/wizard/internal/stepper"
)

// DefaultWidth is the column count of a bar holding array.MaxValue.
const DefaultWidth = 50

const barGlyph = "█"

// Bars renders frames as colored horizontal bars.
type Bars struct {
	w       io.Writer
	out     *termenv.Output
	r       *lipgloss.Renderer
	palette Palette
	width   int
	clear   bool

	header lipgloss.Style
	label  lipgloss.Style
	styles map[stepper.Role]lipgloss.Style
}

// BarsOption configures Bars.
type BarsOption func(*Bars)

// WithPalette replaces DefaultPalette.
func WithPalette(p Palette) BarsOption {
	return func(b *Bars) { b.palette = p }
}

// WithWidth sets the bar length for the largest possible value.
func WithWidth(cols int) BarsOption {
	return func(b *Bars) {
		if cols > 0 {
			b.width = cols
		}
	}
}

// WithClear clears the screen before each frame so the animation redraws in
// place. Only useful on a terminal.
func WithClear(clear bool) BarsOption {
	return func(b *Bars) { b.clear = clear }
}

// WithColorProfile forces a color profile instead of detecting one from w.
func WithColorProfile(p termenv.Profile) BarsOption {
	return func(b *Bars) { b.r.SetColorProfile(p) }
}

// NewBars returns a bar renderer writing to w. Color support is detected
// from w, so output to a pipe or buffer is plain text.
func NewBars(w io.Writer, opts ...BarsOption) *Bars {
	b := &Bars{
		w:       w,
		out:     termenv.NewOutput(w),
		r:       lipgloss.NewRenderer(w),
		palette: DefaultPalette,
		width:   DefaultWidth,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.header = b.r.NewStyle().Bold(true)
	b.label = b.r.NewStyle().Width(4).Align(lipgloss.Right)
	b.styles = make(map[stepper.Role]lipgloss.Style)
	for _, role := range []stepper.Role{
		stepper.RoleNone, stepper.RoleCompared, stepper.RoleSwapped,
		stepper.RolePivot, stepper.RoleSorted,
	} {
		b.styles[role] = b.r.NewStyle().Foreground(b.palette.Color(role))
	}
	return b
}

// Render implements engine.Renderer.
func (b *Bars) Render(_ context.Context, f engine.Frame) error {
	if b.clear {
		b.out.ClearScreen()
	}
	if _, err := io.WriteString(b.w, b.Frame(f)); err != nil {
		return fmt.Errorf("render bars: %w", err)
	}
	return nil
}

// Frame returns the text for one frame, ending in a newline.
func (b *Bars) Frame(f engine.Frame) string {
	var sb strings.Builder

	title := fmt.Sprintf("%s  tick %d", f.Algorithm.DisplayName(), f.Tick)
	if f.Done {
		title += "  done"
	}
	sb.WriteString(b.header.Render(title))
	sb.WriteByte('\n')

	for i, v := range f.Values {
		role := stepper.RoleNone
		if i < len(f.Roles) {
			role = f.Roles[i]
		}
		sb.WriteString(b.label.Render(fmt.Sprint(v)))
		sb.WriteString(" ")
		sb.WriteString(b.styles[role].Render(strings.Repeat(barGlyph, b.barLen(v))))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// barLen scales v so array.MaxValue fills the configured width. Every
// in-range value gets at least one column.
func (b *Bars) barLen(v int) int {
	n := v * b.width / array.MaxValue
	return max(n, 1)
}
