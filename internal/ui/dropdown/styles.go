package dropdown

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexcabrera/pickr/internal/ui/styles"
)

// Styles are the resolved styles of one dropdown.
type Styles struct {
	Label       lipgloss.Style
	Field       lipgloss.Style
	Placeholder lipgloss.Style
	Icon        lipgloss.Style
	Helper      lipgloss.Style

	Container    lipgloss.Style
	Divider      lipgloss.Style
	Item         lipgloss.Style
	ItemRow      lipgloss.Style
	SelectedItem lipgloss.Style
	SelectedRow  lipgloss.Style
	Highlighted  lipgloss.Style
	DisabledItem lipgloss.Style
	Tick         lipgloss.Style
	Loader       lipgloss.Style
	Empty        lipgloss.Style
	Indicator    lipgloss.Style
}

func newStyles[V comparable](o Options[V]) Styles {
	th := o.Theme
	errColor := th.Error
	if o.ErrorColor != "" {
		errColor = o.ErrorColor
	}
	loader := th.Primary
	if o.LoaderColor != "" {
		loader = o.LoaderColor
	}

	s := Styles{
		Label:       lipgloss.NewStyle().Foreground(th.Muted),
		Field:       lipgloss.NewStyle().Foreground(th.Text).Underline(true),
		Placeholder: lipgloss.NewStyle().Foreground(th.Placeholder).Underline(true),
		Icon:        lipgloss.NewStyle().Foreground(th.Muted),
		Helper:      lipgloss.NewStyle().Foreground(errColor),

		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Primary).
			Background(th.Surface),
		Divider:      lipgloss.NewStyle().Foreground(th.Border),
		Item:         lipgloss.NewStyle().Foreground(th.Text),
		ItemRow:      lipgloss.NewStyle(),
		SelectedItem: lipgloss.NewStyle().Foreground(th.Primary).Bold(true),
		SelectedRow:  lipgloss.NewStyle(),
		Highlighted:  lipgloss.NewStyle().Foreground(th.Accent),
		DisabledItem: lipgloss.NewStyle().Foreground(th.Disabled),
		Tick:         lipgloss.NewStyle().Foreground(th.Primary),
		Loader:       lipgloss.NewStyle().Foreground(loader),
		Empty:        lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
		Indicator:    lipgloss.NewStyle().Foreground(th.Placeholder),
	}

	override := func(dst *lipgloss.Style, src *lipgloss.Style) {
		if src != nil {
			*dst = *src
		}
	}
	override(&s.Container, o.ContainerStyle)
	override(&s.Item, o.ItemTextStyle)
	override(&s.ItemRow, o.ItemContainerStyle)
	override(&s.SelectedItem, o.SelectedItemTextStyle)
	override(&s.SelectedRow, o.SelectedItemViewStyle)
	return s
}

func fieldStyles(th *styles.Theme, focused, disabled, hasError bool, errColor lipgloss.Color) styles.FieldStyles {
	var fs styles.FieldStyles
	switch {
	case disabled:
		fs = th.DisabledStyles()
	case focused:
		fs = th.FocusedStyles()
	default:
		fs = th.BlurredStyles()
	}
	if hasError && !disabled {
		c := th.Error
		if errColor != "" {
			c = errColor
		}
		fs.Icon = fs.Icon.Foreground(c)
		fs.Title = fs.Title.Foreground(c)
	}
	return fs
}
