// Package render draws engine frames.
//
// Bars is the terminal renderer: one horizontal bar per element, colored by
// the role the element played in the current frame. JSONLines writes one
// JSON object per frame for piping into other tools.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/wizard/internal/stepper"
)

// Palette maps roles to bar colors.
type Palette struct {
	Default  lipgloss.Color
	Compared lipgloss.Color
	Swapped  lipgloss.Color
	Pivot    lipgloss.Color
	Sorted   lipgloss.Color
}

// DefaultPalette colors touched bars red, the pivot orange and finished bars
// green on a blue base.
var DefaultPalette = Palette{
	Default:  lipgloss.Color("#1f77b4"),
	Compared: lipgloss.Color("#d62728"),
	Swapped:  lipgloss.Color("#d62728"),
	Pivot:    lipgloss.Color("#ff7f0e"),
	Sorted:   lipgloss.Color("#2ca02c"),
}

// Color returns the color for role.
func (p Palette) Color(role stepper.Role) lipgloss.Color {
	switch role {
	case stepper.RoleCompared:
		return p.Compared
	case stepper.RoleSwapped:
		return p.Swapped
	case stepper.RolePivot:
		return p.Pivot
	case stepper.RoleSorted:
		return p.Sorted
	default:
		return p.Default
	}
}
