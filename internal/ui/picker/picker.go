// Package picker runs a single dropdown as a standalone program: the
// overlay opens as soon as the terminal size is known and the program ends
// on the first selection or dismissal.
package picker

import (
	"context"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexcabrera/pickr/internal/logging"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/pipe"
	"github.com/alexcabrera/pickr/internal/ui/dropdown"
	"github.com/alexcabrera/pickr/internal/ui/layout"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
	"github.com/alexcabrera/pickr/internal/ui/styles"
)

const (
	padX = 1
	padY = 1
)

// LoadFunc fetches options while the overlay shows the loading indicator.
type LoadFunc func(ctx context.Context) ([]option.Option[string], error)

type loadedMsg struct {
	data []option.Option[string]
	err  error
}

// Model hosts one dropdown.
type Model struct {
	dd     *dropdown.Model[string]
	events <-chan pubsub.Event[pubsub.DropdownEvent]
	ctx    context.Context
	cancel context.CancelFunc
	load   LoadFunc
	theme  *styles.Theme
	// initial is the terminal size read before the program starts.
	initial *tea.WindowSizeMsg

	ready    bool
	selected bool
	done     bool
	value    string
	label    string
	err      error
}

// New creates a picker over dd. When load is set it runs on start and the
// dropdown shows the loading indicator until it returns.
func New(ctx context.Context, dd *dropdown.Model[string], load LoadFunc) *Model {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		dd:     dd,
		events: dd.Events().Subscribe(ctx),
		ctx:    ctx,
		cancel: cancel,
		load:   load,
		theme:  styles.CurrentTheme(),
	}
	dd.Focus()
	return m
}

// Selected returns the chosen value, or ok=false when the picker was
// dismissed.
func (m *Model) Selected() (value, label string, ok bool) {
	return m.value, m.label, m.selected
}

// Err returns the error reported by the load function, if any.
func (m *Model) Err() error { return m.err }

// SetInitialSize opens the dropdown at the given terminal size on start,
// without waiting for the first resize event.
func (m *Model) SetInitialSize(width, height int) {
	m.initial = &tea.WindowSizeMsg{Width: width, Height: height}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if size := m.initial; size != nil {
		cmds = append(cmds, func() tea.Msg { return *size })
	}
	if m.load != nil {
		m.dd.SetLoading(true)
		ctx, load := m.ctx, m.load
		cmds = append(cmds, func() tea.Msg {
			data, err := load(ctx)
			return loadedMsg{data: data, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Resizing closes the overlay; reopen it at the new geometry.
		_, c1 := m.dd.Update(msg)
		c2 := m.dd.SetPosition(padX, padY)
		c3 := m.dd.SetOpen(true)
		m.discard()
		m.ready = true
		return m, tea.Batch(c1, c2, c3)

	case loadedMsg:
		if msg.err != nil {
			slog.Error("load options", "error", msg.err)
			m.err = msg.err
			return m, m.finish()
		}
		m.dd.SetData(msg.data)
		return m, m.dd.SetLoading(false)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.finish()
		}
	}

	_, cmd := m.dd.Update(msg)
	if !m.drain() {
		return m, cmd
	}
	if _, ok := m.dd.Value(); !ok && m.dd.Required() {
		// A required picker stays up until something is chosen.
		m.dd.SetError(true)
		reopen := m.dd.SetOpen(true)
		m.discard()
		return m, tea.Batch(cmd, reopen)
	}
	return m, tea.Batch(cmd, m.finish())
}

// drain consumes pending dropdown events and reports whether the overlay
// closed.
func (m *Model) drain() bool {
	for {
		select {
		case e, ok := <-m.events:
			if !ok {
				return true
			}
			logging.Trace("dropdown event", "type", e.Type, "id", e.Payload.ID, "value", e.Payload.Value)
			switch e.Type {
			case pubsub.ChangedEvent:
				m.selected = true
				m.value, _ = e.Payload.Value.(string)
				m.label = e.Payload.Label
			case pubsub.ClosedEvent:
				return true
			}
		default:
			return false
		}
	}
}

// discard drops pending events caused by the host itself.
func (m *Model) discard() {
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

func (m *Model) finish() tea.Cmd {
	m.done = true
	m.cancel()
	return tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || !m.ready {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.dd.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.S().Subtle.Render(m.dd.HelpView()))

	view := lipgloss.NewStyle().Padding(padY, padX).Render(b.String())
	if ov, x, y, ok := m.dd.OverlayView(); ok {
		view = layout.PlaceOverlay(view, ov, x, y)
	}
	return view
}

// Run runs the picker full screen, drawing on out. Input is read from the
// terminal even when stdin is piped.
func (m *Model) Run(out *os.File) error {
	if w, h, ok := pipe.TerminalSize(out); ok {
		m.SetInitialSize(w, h)
	}
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(out),
		tea.WithInputTTY(),
	)
	_, err := p.Run()
	m.cancel()
	if err != nil {
		return err
	}
	return m.err
}
