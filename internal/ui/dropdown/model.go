package dropdown

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	ctrl "github.com/alexcabrera/pickr/internal/dropdown"
	"github.com/alexcabrera/pickr/internal/geometry"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/ui/anim"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
	"github.com/alexcabrera/pickr/internal/ui/shared"
)

// FlashDuration is how long scroll indicators stay visible after opening.
const FlashDuration = 1200 * time.Millisecond

type measuredMsg struct {
	id   string
	gen  uint64
	rect geometry.Rect
}

type flashEndMsg struct {
	id  string
	gen uint64
}

// Model is a dropdown component.
type Model[V comparable] struct {
	opts   Options[V]
	ctrl   *ctrl.Controller[V]
	styles Styles
	keys   KeyMap
	help   help.Model

	search  textinput.Model
	spin    spinner.Model
	animIn  anim.Model
	animOut anim.Model

	// ghost is the last overlay frame, drawn while the hide animation runs.
	ghost    string
	ghostPos geometry.Point

	events     *pubsub.Broker[pubsub.DropdownEvent]
	ownsEvents bool
	// external is set while an outside owner drives the open state, so
	// OnOpenChange is not echoed back to it.
	external bool
	focused  bool
	x, y     int
	width    int
	height   int
	gen      uint64
	cursor   int
	offset   int
	flashing bool
}

// New creates a dropdown.
func New[V comparable](opts Options[V]) *Model[V] {
	opts.applyDefaults()
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	m := &Model[V]{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		events: opts.Events,
	}
	if m.events == nil {
		m.events = pubsub.NewBroker[pubsub.DropdownEvent](16)
		m.ownsEvents = true
	}
	m.styles = newStyles(opts)

	m.ctrl = ctrl.New(ctrl.Config[V]{
		Data:          opts.Data,
		Value:         opts.Value,
		OnChange:      m.onChange,
		OnBlur:        m.onBlur,
		OnOpenChange:  m.onOpenChange,
		Required:      opts.Required,
		Error:         opts.Error,
		SearchEnabled: opts.EnableSearch,
		DisableSort:   opts.DisableSort,
		SortOrder:     opts.SortOrder,
		Floating:      opts.Floating,
		Disabled:      opts.Disabled,
		Loading:       opts.Loading,
		Resolver:      opts.Resolver,
	})

	m.search = textinput.New()
	m.search.Placeholder = opts.SearchPlaceholder
	m.search.Prompt = shared.IconSearch + " "

	m.spin = spinner.New(
		spinner.WithSpinner(spinner.Spinner{
			Frames: shared.GetSpinnerFrames(opts.Spinner),
			FPS:    time.Second / 10,
		}),
		spinner.WithStyle(m.styles.Loader),
	)

	m.animIn = anim.New(opts.ID+"/in", anim.ParsePreset(opts.AnimationIn))
	m.animOut = anim.New(opts.ID+"/out", anim.ParsePreset(opts.AnimationOut))
	return m
}

// ID returns the instance identifier used in events.
func (m *Model[V]) ID() string { return m.opts.ID }

// Name returns the field name.
func (m *Model[V]) Name() string { return m.opts.Name }

// Controller exposes the underlying state machine.
func (m *Model[V]) Controller() *ctrl.Controller[V] { return m.ctrl }

// Events returns the broker events are published on.
func (m *Model[V]) Events() *pubsub.Broker[pubsub.DropdownEvent] { return m.events }

// Value returns the selected value.
func (m *Model[V]) Value() (V, bool) {
	st := m.ctrl.State()
	return st.SelectedValue, st.HasSelection
}

// AnyValue returns the selected value as an interface for hosts that handle
// dropdowns of different value types.
func (m *Model[V]) AnyValue() (any, bool) {
	v, ok := m.Value()
	return v, ok
}

// Label returns the label shown on the trigger.
func (m *Model[V]) Label() string { return m.ctrl.State().SelectedLabel }

// IsOpen reports whether the overlay is open.
func (m *Model[V]) IsOpen() bool { return m.ctrl.State().Open }

// Required reports whether the field is required.
func (m *Model[V]) Required() bool { return m.opts.Required }

// SetError sets the external error flag. The helper text shows only for
// required fields.
func (m *Model[V]) SetError(err bool) {
	m.opts.Error = err
	m.ctrl.SetRequiredError(m.opts.Required, err)
}

// SetData replaces the options.
func (m *Model[V]) SetData(data []option.Option[V]) {
	m.opts.Data = data
	m.ctrl.SetData(data)
	m.clampCursor()
}

// SetValue sets the selection without firing OnChange.
func (m *Model[V]) SetValue(v V) {
	m.ctrl.SetValue(v)
}

// SetDisabled toggles activation. Disabling closes an open overlay.
func (m *Model[V]) SetDisabled(disabled bool) tea.Cmd {
	m.ctrl.SetDisabled(disabled)
	if disabled && m.IsOpen() {
		return m.closeWith(m.ctrl.Dismiss)
	}
	return nil
}

// SetLoading toggles the loading indicator.
func (m *Model[V]) SetLoading(loading bool) tea.Cmd {
	m.ctrl.SetLoading(loading)
	if loading && m.IsOpen() {
		return m.spin.Tick
	}
	return nil
}

// SetSort configures sorting of the unfiltered list.
func (m *Model[V]) SetSort(enabled bool, order option.SortOrder) {
	m.opts.DisableSort = !enabled
	m.opts.SortOrder = order
	m.ctrl.SetSort(enabled, order)
	m.clampCursor()
	m.scrollToCursor()
}

// SetSearchEnabled toggles the search field. Disabling it clears the query
// and, while open, restores the full list.
func (m *Model[V]) SetSearchEnabled(enabled bool) tea.Cmd {
	m.opts.EnableSearch = enabled
	m.ctrl.SetSearchEnabled(enabled)
	if !enabled {
		m.search.Blur()
		m.search.Reset()
		m.flashing = false
		m.clampCursor()
		m.scrollToCursor()
		return nil
	}
	if m.IsOpen() {
		m.sizeSearch()
		return m.search.Focus()
	}
	return nil
}

// SetFloating switches the placement strategy. It applies from the next
// activation.
func (m *Model[V]) SetFloating(floating bool) {
	m.opts.Floating = floating
	m.ctrl.SetFloating(floating)
}

// SetOpen opens or closes the overlay on behalf of an external owner.
// OnOpenChange is not called back; events are still published.
func (m *Model[V]) SetOpen(open bool) tea.Cmd {
	if open == m.IsOpen() {
		return nil
	}
	m.external = true
	defer func() { m.external = false }()
	if open {
		return m.activate()
	}
	return m.closeWith(func() {
		m.ctrl.SetOpen(false)
		m.publish(pubsub.ClosedEvent)
	})
}

// Close releases the event broker if this dropdown owns it.
func (m *Model[V]) Close() {
	if m.ownsEvents {
		m.events.Shutdown()
	}
}

// Focus implements layout.Focusable.
func (m *Model[V]) Focus() tea.Cmd {
	m.focused = true
	return nil
}

// Blur implements layout.Focusable. An open overlay is dismissed.
func (m *Model[V]) Blur() tea.Cmd {
	m.focused = false
	if m.IsOpen() {
		return m.closeWith(m.ctrl.Dismiss)
	}
	return nil
}

// Focused implements layout.Focusable.
func (m *Model[V]) Focused() bool { return m.focused }

// SetSize implements layout.Sizeable. It closes an open overlay.
func (m *Model[V]) SetSize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	wasOpen := m.IsOpen()
	m.ctrl.SetViewport(geometry.Size{Width: width, Height: height})
	m.help.Width = width
	if wasOpen {
		// No hide animation: the old geometry is stale.
		m.afterClose("")
	}
	return nil
}

// GetSize implements layout.Sizeable.
func (m *Model[V]) GetSize() (int, int) { return m.width, m.height }

// SetPosition implements layout.Positional. While open, the new trigger
// bounds are delivered as a measurement for the current activation.
func (m *Model[V]) SetPosition(x, y int) tea.Cmd {
	if x == m.x && y == m.y {
		return nil
	}
	m.x, m.y = x, y
	if m.IsOpen() {
		return m.measure()
	}
	return nil
}

// Bindings implements layout.Help.
func (m *Model[V]) Bindings() []key.Binding {
	if m.IsOpen() {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Dismiss}
	}
	return []key.Binding{m.keys.Open}
}

// HelpView renders the short help for the current state.
func (m *Model[V]) HelpView() string {
	return m.help.ShortHelpView(m.Bindings())
}

// Init implements tea.Model.
func (m *Model[V]) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model[V]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.SetSize(msg.Width, msg.Height)

	case measuredMsg:
		if msg.id == m.opts.ID && m.ctrl.Measured(msg.gen, msg.rect) {
			m.sizeSearch()
			m.scrollToCursor()
		}
		return m, nil

	case flashEndMsg:
		if msg.id == m.opts.ID && msg.gen == m.gen {
			m.flashing = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Loading() || !m.IsOpen() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case anim.TickMsg:
		var c1, c2 tea.Cmd
		m.animIn, c1 = m.animIn.Update(msg)
		m.animOut, c2 = m.animOut.Update(msg)
		if !m.animOut.IsActive() {
			m.ghost = ""
		}
		return m, tea.Batch(c1, c2)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if m.IsOpen() {
			return m, m.handleOpenKey(msg)
		}
		if key.Matches(msg, m.keys.Open) {
			return m, m.activate()
		}
		return m, nil
	}

	if m.IsOpen() && m.opts.EnableSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model[V]) handleOpenKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		return m.closeWith(m.ctrl.Dismiss)
	case key.Matches(msg, m.keys.Select):
		return m.selectCursor()
	}

	if !m.ctrl.Loading() {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
			return nil
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
			return nil
		case key.Matches(msg, m.keys.PageUp):
			m.moveCursor(-m.visibleRows())
			return nil
		case key.Matches(msg, m.keys.PageDown):
			m.moveCursor(m.visibleRows())
			return nil
		case key.Matches(msg, m.keys.Home):
			m.moveCursor(-len(m.ctrl.View()))
			return nil
		case key.Matches(msg, m.keys.End):
			m.moveCursor(len(m.ctrl.View()))
			return nil
		}
	}

	if !m.opts.EnableSearch {
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.ctrl.SetSearchQuery(q)
		m.cursor, m.offset = 0, 0
	}
	return cmd
}

func (m *Model[V]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.IsOpen() {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if !m.ctrl.Loading() {
				m.moveCursor(-1)
			}
			return nil
		case tea.MouseButtonWheelDown:
			if !m.ctrl.Loading() {
				m.moveCursor(1)
			}
			return nil
		}
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if !m.IsOpen() {
		if contains(m.triggerRect(), msg.X, msg.Y) {
			m.focused = true
			return m.activate()
		}
		return nil
	}

	if i, ok := m.rowAt(msg.X, msg.Y); ok {
		if m.ctrl.Loading() {
			return nil
		}
		m.cursor = i
		return m.selectCursor()
	}
	if !contains(m.overlayRect(), msg.X, msg.Y) {
		return m.closeWith(m.ctrl.Dismiss)
	}
	return nil
}

func (m *Model[V]) activate() tea.Cmd {
	gen, ok := m.ctrl.Activate(m.triggerRect())
	if !ok {
		return nil
	}
	m.gen = gen
	m.ghost = ""
	m.animOut.Stop()

	m.cursor, m.offset = 0, 0
	if i := m.ctrl.SelectedIndex(); i >= 0 {
		m.cursor = i
	}
	m.scrollToCursor()

	cmds := []tea.Cmd{m.measure(), m.animIn.Start()}
	if m.opts.EnableSearch {
		// A dismissed overlay keeps its query; the field shows it again.
		m.search.SetValue(m.ctrl.State().SearchQuery)
		m.search.CursorEnd()
		m.sizeSearch()
		cmds = append(cmds, m.search.Focus())
	}
	if m.ctrl.FlashIndicators() {
		m.flashing = true
		id, g := m.opts.ID, gen
		cmds = append(cmds, tea.Tick(FlashDuration, func(time.Time) tea.Msg {
			return flashEndMsg{id: id, gen: g}
		}))
	}
	if m.ctrl.Loading() {
		cmds = append(cmds, m.spin.Tick)
	}
	return tea.Batch(cmds...)
}

// measure delivers the trigger bounds asynchronously, tagged with the
// current activation.
func (m *Model[V]) measure() tea.Cmd {
	id, gen, rect := m.opts.ID, m.gen, m.triggerRect()
	return func() tea.Msg {
		return measuredMsg{id: id, gen: gen, rect: rect}
	}
}

func (m *Model[V]) selectCursor() tea.Cmd {
	if m.ctrl.Loading() {
		return nil
	}
	view := m.ctrl.View()
	if m.cursor < 0 || m.cursor >= len(view) {
		return nil
	}
	v := view[m.cursor].Value
	return m.closeWith(func() { m.ctrl.SelectOption(v) })
}

// closeWith runs a closing controller operation, keeping the last overlay
// frame for the hide animation.
func (m *Model[V]) closeWith(op func()) tea.Cmd {
	var ghost string
	if m.animOut.Preset() != anim.None {
		ghost = m.renderOverlay()
	}
	op()
	return m.afterClose(ghost)
}

// afterClose resets overlay-only state and starts the hide animation when
// a ghost frame is given.
func (m *Model[V]) afterClose(ghost string) tea.Cmd {
	m.search.Blur()
	m.flashing = false
	m.animIn.Stop()
	m.ghost = ""
	if ghost == "" {
		return nil
	}
	cmd := m.animOut.Start()
	if cmd != nil {
		p := m.ctrl.Placement()
		m.ghost = ghost
		m.ghostPos = geometry.Point{X: p.X, Y: p.Y}
	}
	return cmd
}

func (m *Model[V]) sizeSearch() {
	inner := m.overlayWidth() - 2
	m.search.Width = max(1, inner-ansi.StringWidth(m.search.Prompt)-1)
}

func (m *Model[V]) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.scrollToCursor()
}

func (m *Model[V]) clampCursor() {
	n := len(m.ctrl.View())
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
}

func (m *Model[V]) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, min(m.offset, len(m.ctrl.View())-rows))
}

func (m *Model[V]) onChange(v V) {
	if m.opts.OnChange != nil {
		m.opts.OnChange(v)
	}
	m.publish(pubsub.ChangedEvent)
}

func (m *Model[V]) onBlur() {
	if m.opts.OnBlur != nil {
		m.opts.OnBlur()
	}
	m.publish(pubsub.BlurredEvent)
}

func (m *Model[V]) onOpenChange(open bool) {
	if m.opts.OnOpenChange != nil && !m.external {
		m.opts.OnOpenChange(open)
	}
	if open {
		m.publish(pubsub.OpenedEvent)
	} else {
		m.publish(pubsub.ClosedEvent)
	}
}

func (m *Model[V]) publish(t pubsub.EventType) {
	st := m.ctrl.State()
	m.events.Publish(pubsub.Event[pubsub.DropdownEvent]{
		Type: t,
		Payload: pubsub.DropdownEvent{
			ID:       m.opts.ID,
			Name:     m.opts.Name,
			Value:    st.SelectedValue,
			Label:    st.SelectedLabel,
			HasValue: st.HasSelection,
		},
	})
}

func contains(r geometry.Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
