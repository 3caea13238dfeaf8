// Package layout provides the interfaces composable TUI components share
// for focus, sizing and positioning. Hosts such as forms use them to drive
// children without knowing their concrete types.
package layout

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Focusable defines components that can receive and lose focus.
type Focusable interface {
	Focus() tea.Cmd
	Blur() tea.Cmd
	Focused() bool
}

// Sizeable defines components that adapt to the viewport size.
type Sizeable interface {
	// SetSize updates the viewport dimensions the component lays itself out
	// in. Components with open overlays close them.
	SetSize(width, height int) tea.Cmd
	GetSize() (width, height int)
}

// Positional defines components placed at an absolute position by a host.
// The host reports where the component's first line was drawn.
type Positional interface {
	SetPosition(x, y int) tea.Cmd
}

// Help defines components that provide keybinding documentation.
type Help interface {
	Bindings() []key.Binding
}

// Overlay is implemented by components that draw a floating surface above
// their host. Overlays are composited after the host view is assembled.
type Overlay interface {
	// OverlayView returns the surface and its top-left cell, or ok=false when
	// nothing should be drawn.
	OverlayView() (view string, x, y int, ok bool)
}

// Field is a focusable, sizeable, positional component that can be stacked
// in a form.
type Field interface {
	tea.Model
	Focusable
	Sizeable
	Positional
	Help
	Overlay
}
