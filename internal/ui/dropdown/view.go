package dropdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alexcabrera/pickr/internal/geometry"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/ui/layout"
	"github.com/alexcabrera/pickr/internal/ui/shared"
	"github.com/alexcabrera/pickr/internal/ui/styles"
)

// View implements tea.Model. It renders the trigger and, when the field is
// in error, the helper text. The overlay is drawn by the host through
// OverlayView so it can float over sibling components.
func (m *Model[V]) View() string {
	trigger := m.renderTrigger()
	if !m.ctrl.HelperVisible() {
		return trigger
	}
	return trigger + "\n" + m.styles.Helper.Render(m.helperText())
}

// OverlayView implements layout.Overlay.
func (m *Model[V]) OverlayView() (string, int, int, bool) {
	if m.IsOpen() {
		p := m.ctrl.Placement()
		return m.renderOverlay(), p.X, p.Y, true
	}
	if m.ghost != "" && m.animOut.IsActive() {
		return m.animOut.Style(lipgloss.NewStyle()).Render(m.ghost), m.ghostPos.X, m.ghostPos.Y, true
	}
	return "", 0, 0, false
}

// Render returns the trigger with the overlay composited over it, for hosts
// that show a single dropdown.
func (m *Model[V]) Render() string {
	view := m.View()
	if ov, x, y, ok := m.OverlayView(); ok {
		return layout.PlaceOverlay(view, ov, x-m.x, y-m.y)
	}
	return view
}

func (m *Model[V]) helperText() string {
	if m.opts.HelperText != "" {
		return m.opts.HelperText
	}
	return fmt.Sprintf("%s is required", m.opts.Label)
}

func (m *Model[V]) triggerLabel() string {
	if m.opts.RemoveLabel || m.opts.Label == "" {
		return ""
	}
	if m.opts.Required {
		return m.opts.Label + shared.IconRequired
	}
	return m.opts.Label
}

func (m *Model[V]) triggerState() TriggerState {
	st := m.ctrl.State()
	icon := m.opts.DropdownIcon
	if st.Open && icon == shared.IconDropdown {
		icon = shared.IconDropup
	}
	return TriggerState{
		Label:       m.triggerLabel(),
		Text:        st.SelectedLabel,
		Placeholder: m.opts.Placeholder,
		Icon:        icon,
		Width:       m.opts.Width,
		Open:        st.Open,
		Focused:     m.focused,
		Disabled:    m.ctrl.Disabled(),
		HasError:    st.HasError,
	}
}

func (m *Model[V]) renderTrigger() string {
	ts := m.triggerState()
	if m.opts.Trigger != nil {
		return m.opts.Trigger.RenderTrigger(ts)
	}

	fs := fieldStyles(m.opts.Theme, ts.Focused || ts.Open, ts.Disabled, ts.HasError, m.opts.ErrorColor)

	var b strings.Builder
	used := 0
	if ts.Label != "" {
		b.WriteString(fs.Title.Render(ts.Label))
		b.WriteString(" ")
		used = ansi.StringWidth(ts.Label) + 1
	}

	fieldWidth := max(4, ts.Width-used-2)
	text, style := ts.Text, m.styles.Field
	if text == "" {
		text, style = ts.Placeholder, m.styles.Placeholder
	}
	if ts.Disabled {
		style = style.Foreground(m.opts.Theme.Disabled)
	}
	text = ansi.Truncate(text, fieldWidth, shared.IconEllipsis)
	text += strings.Repeat(" ", fieldWidth-ansi.StringWidth(text))

	b.WriteString(style.Render(text))
	b.WriteString(" ")
	b.WriteString(fs.Icon.Render(ts.Icon))
	return b.String()
}

// triggerRect covers the whole field view, helper line included, so the
// overlay never hides the helper text.
func (m *Model[V]) triggerRect() geometry.Rect {
	return geometry.Rect{
		X:      m.x,
		Y:      m.y,
		Width:  max(m.opts.Width, lipgloss.Width(m.renderTrigger())),
		Height: max(1, lipgloss.Height(m.View())),
	}
}

func (m *Model[V]) overlayWidth() int {
	return max(minOverlayWidth, m.ctrl.Placement().Width)
}

// headerLines counts the lines above the option rows inside the border.
func (m *Model[V]) headerLines() int {
	n := 0
	if m.opts.EnableSearch {
		n += 2
	}
	if m.ctrl.Loading() {
		n++
	}
	return n
}

func (m *Model[V]) showIndicators() bool {
	return m.flashing && len(m.ctrl.View()) > m.visibleRows()
}

// visibleRows is the number of option rows the overlay shows.
func (m *Model[V]) visibleRows() int {
	if m.ctrl.Viewport().Height == 0 {
		return m.opts.MaxRows
	}
	avail := m.ctrl.Placement().MaxHeight - 2 - m.headerLines()
	if m.flashing {
		avail--
	}
	return min(m.opts.MaxRows, max(1, avail))
}

func (m *Model[V]) overlayRect() geometry.Rect {
	p := m.ctrl.Placement()
	return geometry.Rect{
		X:      p.X,
		Y:      p.Y,
		Width:  m.overlayWidth(),
		Height: layout.Rows(m.renderOverlay()),
	}
}

// rowAt maps a screen cell to an index in the view.
func (m *Model[V]) rowAt(x, y int) (int, bool) {
	p := m.ctrl.Placement()
	if x <= p.X || x >= p.X+m.overlayWidth()-1 {
		return 0, false
	}
	first := p.Y + 1 + m.headerLines()
	i := y - first
	shown := min(m.visibleRows(), len(m.ctrl.View())-m.offset)
	if i < 0 || i >= shown {
		return 0, false
	}
	return m.offset + i, true
}

func (m *Model[V]) renderOverlay() string {
	inner := m.overlayWidth() - 2
	var lines []string

	if m.opts.EnableSearch {
		lines = append(lines, m.search.View())
		lines = append(lines, m.styles.Divider.Render(strings.Repeat("─", inner)))
	}
	if m.ctrl.Loading() {
		lines = append(lines, m.spin.View()+" "+m.styles.Loader.Render("Loading"+shared.IconEllipsis))
	}

	view := m.ctrl.View()
	if len(view) == 0 {
		lines = append(lines, m.renderEmpty(inner)...)
	} else {
		end := min(len(view), m.offset+m.visibleRows())
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(view[i], i == m.cursor, inner))
		}
		if m.showIndicators() {
			lines = append(lines, m.renderIndicators(end, len(view)))
		}
	}

	box := m.animIn.Style(m.styles.Container).Width(inner)
	return box.Render(strings.Join(lines, "\n"))
}

func (m *Model[V]) renderRow(o option.Option[V], highlighted bool, width int) string {
	s := ItemState{
		Selected:    m.ctrl.IsSelected(o.Value),
		Highlighted: highlighted,
		Disabled:    m.ctrl.Loading(),
		Width:       width,
	}
	if m.opts.RenderItem != nil {
		return ansi.Truncate(m.opts.RenderItem(o, s), width, "")
	}

	marker := "  "
	if s.Highlighted && !s.Disabled {
		marker = m.styles.Highlighted.Render(shared.IconCursor) + " "
	}
	tick := "  "
	if s.Selected && !m.opts.DisableSelectionTick {
		tick = " " + m.styles.Tick.Render(shared.IconCheck)
	}

	labelWidth := max(1, width-4)
	label := ansi.Truncate(o.Label, labelWidth, shared.IconEllipsis)
	label += strings.Repeat(" ", labelWidth-ansi.StringWidth(label))

	textStyle, rowStyle := m.styles.Item, m.styles.ItemRow
	switch {
	case s.Disabled:
		textStyle = m.styles.DisabledItem
	case s.Selected:
		textStyle, rowStyle = m.styles.SelectedItem, m.styles.SelectedRow
	case s.Highlighted:
		textStyle = m.styles.Highlighted
	}
	return rowStyle.Render(marker + textStyle.Render(label) + tick)
}

func (m *Model[V]) renderEmpty(width int) []string {
	var out string
	switch {
	case m.opts.EmptyView != nil:
		out = m.opts.EmptyView(width)
	case m.opts.EmptyMarkdown != "":
		out = strings.Trim(styles.RenderMarkdown(m.opts.EmptyMarkdown, width), "\n")
	default:
		out = m.styles.Empty.Render(ansi.Truncate(m.opts.EmptyText, width, shared.IconEllipsis))
	}
	return strings.Split(out, "\n")
}

func (m *Model[V]) renderIndicators(end, total int) string {
	var parts []string
	if m.offset > 0 {
		parts = append(parts, fmt.Sprintf("%s %d more", shared.IconMoreAbove, m.offset))
	}
	if end < total {
		parts = append(parts, fmt.Sprintf("%s %d more", shared.IconMoreBelow, total-end))
	}
	return m.styles.Indicator.Render(strings.Join(parts, " · "))
}
