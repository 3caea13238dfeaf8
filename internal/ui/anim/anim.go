// Package anim plays the short show/hide animations of dropdown overlays.
// Animations are named presets; timing is fixed.
package anim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Preset names an overlay animation.
type Preset string

const (
	None    Preset = "none"
	FadeIn  Preset = "fadeIn"
	FadeOut Preset = "fadeOut"
	Pulse   Preset = "pulse"
)

// ParsePreset maps a name to a preset. Unknown names yield None.
func ParsePreset(name string) Preset {
	switch p := Preset(name); p {
	case FadeIn, FadeOut, Pulse:
		return p
	}
	return None
}

// Interval is the frame interval of every preset.
const Interval = 60 * time.Millisecond

type frame func(lipgloss.Style) lipgloss.Style

func faint(s lipgloss.Style) lipgloss.Style { return s.Faint(true) }
func bold(s lipgloss.Style) lipgloss.Style  { return s.Bold(true) }
func plain(s lipgloss.Style) lipgloss.Style { return s }

var frames = map[Preset][]frame{
	FadeIn:  {faint, faint},
	FadeOut: {faint, faint},
	Pulse:   {bold, plain, bold},
}

// TickMsg triggers animation frame advancement.
type TickMsg struct {
	ID string
}

// Model is a running (or finished) animation.
type Model struct {
	id     string
	preset Preset
	frame  int
	active bool
}

// New creates an inactive animation. The id routes tick messages when
// several animations share a program.
func New(id string, p Preset) Model {
	return Model{id: id, preset: p}
}

// ID returns the animation's identifier.
func (m Model) ID() string {
	return m.id
}

// Preset returns the animation's preset.
func (m Model) Preset() Preset {
	return m.preset
}

// Start rewinds and activates the animation. Presets without frames finish
// immediately and return nil.
func (m *Model) Start() tea.Cmd {
	m.frame = 0
	m.active = len(frames[m.preset]) > 0
	if !m.active {
		return nil
	}
	return m.tick()
}

// Stop deactivates the animation.
func (m *Model) Stop() {
	m.active = false
}

// IsActive returns whether the animation is running.
func (m Model) IsActive() bool {
	return m.active
}

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(Interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id}
	})
}

// Update handles tick messages to advance the animation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || !m.active {
		return m, nil
	}
	m.frame++
	if m.frame >= len(frames[m.preset]) {
		m.active = false
		return m, nil
	}
	return m, m.tick()
}

// Style applies the current frame to s. Inactive animations leave s as is.
func (m Model) Style(s lipgloss.Style) lipgloss.Style {
	if !m.active {
		return s
	}
	fs := frames[m.preset]
	if m.frame >= len(fs) {
		return s
	}
	return fs[m.frame](s)
}
