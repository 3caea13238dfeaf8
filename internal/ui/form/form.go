// Package form hosts several dropdowns stacked vertically in one program.
// It moves focus between them, hands them the terminal size, tells each
// where it was drawn and composites the open overlay over the stack.
package form

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexcabrera/pickr/internal/ui/layout"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
	"github.com/alexcabrera/pickr/internal/ui/styles"
)

// Field is a form entry. Dropdown models of any value type satisfy it.
type Field interface {
	layout.Field
	Name() string
	Required() bool
	AnyValue() (any, bool)
	SetError(bool)
	IsOpen() bool
}

// keyMap implements help.KeyMap for the form.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Quit   key.Binding
	field  []key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(slices.Clone(k.field), k.Next, k.Submit, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.field, {k.Next, k.Prev, k.Submit, k.Quit}}
}

var defaultKeyMap = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "back")),
	Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

const (
	padX = 2
	padY = 1
	// fieldGap is the number of blank lines between fields.
	fieldGap = 1
)

// Model is the form host.
type Model struct {
	title  string
	fields []Field
	// focus indexes fields; len(fields) is the submit button.
	focus  int
	keys   keyMap
	help   help.Model
	theme  *styles.Theme
	events *pubsub.Broker[pubsub.FormEvent]

	width, height int

	invalid   []string
	result    map[string]any
	submitted bool
	aborted   bool
}

// New creates a form over fields. The first field gets focus.
func New(title string, fields ...Field) *Model {
	m := &Model{
		title:  title,
		fields: fields,
		keys:   defaultKeyMap,
		help:   help.New(),
		theme:  styles.CurrentTheme(),
		events: pubsub.NewBroker[pubsub.FormEvent](4),
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return m
}

// Events returns the broker submissions are published on.
func (m *Model) Events() *pubsub.Broker[pubsub.FormEvent] { return m.events }

// Submitted reports whether the form was submitted successfully.
func (m *Model) Submitted() bool { return m.submitted }

// Aborted reports whether the user quit the form.
func (m *Model) Aborted() bool { return m.aborted }

// Result maps field names to their selected values. Fields without a
// selection are left out.
func (m *Model) Result() map[string]any { return m.result }

// Invalid lists the required fields that were empty on the last submit.
func (m *Model) Invalid() []string { return m.invalid }

// Focused returns the focused field, or nil when the submit button has
// focus.
func (m *Model) Focused() Field {
	if m.focus < len(m.fields) {
		return m.fields[m.focus]
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.fields))
	for _, f := range m.fields {
		cmds = append(cmds, f.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmd = m.setSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	default:
		cmds := make([]tea.Cmd, 0, len(m.fields))
		for _, f := range m.fields {
			_, c := f.Update(msg)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)
	}
	if m.submitted || m.aborted {
		return m, cmd
	}
	m.clearResolved()
	return m, tea.Batch(cmd, m.reflow())
}

func (m *Model) setSize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	m.help.Width = max(0, width-2*padX)
	cmds := make([]tea.Cmd, 0, len(m.fields))
	for _, f := range m.fields {
		cmds = append(cmds, f.SetSize(width, height))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.aborted = true
		return tea.Quit
	}
	if f := m.Focused(); f != nil && f.IsOpen() {
		_, cmd := f.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.aborted = true
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % (len(m.fields) + 1))
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + len(m.fields)) % (len(m.fields) + 1))
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if f := m.Focused(); f != nil {
		_, cmd := f.Update(msg)
		return cmd
	}
	if msg.Type == tea.KeyEnter {
		return m.submit()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	for _, f := range m.fields {
		if f.IsOpen() {
			_, cmd := f.Update(msg)
			return cmd
		}
	}

	cmds := make([]tea.Cmd, 0, len(m.fields)+1)
	for i, f := range m.fields {
		_, cmd := f.Update(msg)
		cmds = append(cmds, cmd)
		if f.IsOpen() && i != m.focus {
			cmds = append(cmds, m.setFocus(i))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) setFocus(i int) tea.Cmd {
	if i == m.focus {
		return nil
	}
	var cmds []tea.Cmd
	if f := m.Focused(); f != nil {
		cmds = append(cmds, f.Blur())
	}
	m.focus = i
	if f := m.Focused(); f != nil {
		cmds = append(cmds, f.Focus())
	}
	return tea.Batch(cmds...)
}

// submit validates required fields. Empty ones get the error flag and the
// first of them takes focus; otherwise the form completes.
func (m *Model) submit() tea.Cmd {
	m.invalid = m.invalid[:0]
	values := make(map[string]any, len(m.fields))
	first := -1
	for i, f := range m.fields {
		v, ok := f.AnyValue()
		if ok {
			values[f.Name()] = v
		}
		missing := f.Required() && !ok
		f.SetError(missing)
		if missing {
			m.invalid = append(m.invalid, f.Name())
			if first < 0 {
				first = i
			}
		}
	}

	m.events.Publish(pubsub.Event[pubsub.FormEvent]{
		Type:    pubsub.SubmittedEvent,
		Payload: pubsub.FormEvent{Values: values, Invalid: slices.Clone(m.invalid)},
	})

	if first >= 0 {
		return m.setFocus(first)
	}
	m.result = values
	m.submitted = true
	return tea.Quit
}

// clearResolved drops the error flag of fields that got a value since the
// last submit.
func (m *Model) clearResolved() {
	if len(m.invalid) == 0 {
		return
	}
	m.invalid = slices.DeleteFunc(m.invalid, func(name string) bool {
		for _, f := range m.fields {
			if f.Name() != name {
				continue
			}
			if _, ok := f.AnyValue(); ok {
				f.SetError(false)
				return true
			}
		}
		return false
	})
}

// reflow reports to every field the cell its first line is drawn at.
func (m *Model) reflow() tea.Cmd {
	y := padY + m.headerHeight()
	cmds := make([]tea.Cmd, 0, len(m.fields))
	for _, f := range m.fields {
		cmds = append(cmds, f.SetPosition(padX, y))
		y += lipgloss.Height(f.View()) + fieldGap
	}
	return tea.Batch(cmds...)
}

func (m *Model) headerHeight() int {
	if m.title == "" {
		return 0
	}
	return 2
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.submitted || m.aborted {
		return ""
	}
	s := m.theme.S()

	var b strings.Builder
	if m.title != "" {
		b.WriteString(s.Title.Render(m.title))
		b.WriteString("\n\n")
	}
	for _, f := range m.fields {
		b.WriteString(f.View())
		b.WriteString(strings.Repeat("\n", fieldGap+1))
	}
	b.WriteString(m.renderButton())

	keys := m.keys
	if f := m.Focused(); f != nil {
		keys.field = f.Bindings()
	}
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(m.help.View(keys)))

	view := lipgloss.NewStyle().Padding(padY, padX).Render(b.String())
	for _, f := range m.fields {
		if ov, x, y, ok := f.OverlayView(); ok {
			view = layout.PlaceOverlay(view, ov, x, y)
		}
	}
	return view
}

func (m *Model) renderButton() string {
	fs := m.theme.BlurredStyles()
	if m.focus == len(m.fields) {
		fs = m.theme.FocusedStyles()
	}
	return fs.Border.Render("[ ") + fs.Title.Render("Submit") + fs.Border.Render(" ]")
}

// Run runs the form full screen with mouse support until it is submitted,
// aborted or ctx is cancelled. opts are appended to the program options.
func (m *Model) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
