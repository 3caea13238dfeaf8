// Package styles provides theming and styling for TUI components.
package styles

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette used by dropdowns. It is a single flat
// structure; components derive their styles from it.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color

	Text        lipgloss.Color
	Muted       lipgloss.Color
	Placeholder lipgloss.Color
	Disabled    lipgloss.Color

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Cached styles
	styles *Styles
}

// Styles holds pre-built styles for common use cases.
type Styles struct {
	Base   lipgloss.Style
	Title  lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style
	Error  lipgloss.Style
}

// S returns the cached styles accessor.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = &Styles{
			Base:   lipgloss.NewStyle().Foreground(t.Text),
			Title:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
			Muted:  lipgloss.NewStyle().Foreground(t.Muted),
			Subtle: lipgloss.NewStyle().Foreground(t.Placeholder),
			Error:  lipgloss.NewStyle().Foreground(t.Error),
		}
	}
	return t.styles
}

// FieldStyles defines styles for focused/blurred states.
type FieldStyles struct {
	Base   lipgloss.Style
	Title  lipgloss.Style
	Border lipgloss.Style
	Icon   lipgloss.Style
}

// FocusedStyles returns styles for focused components.
func (t *Theme) FocusedStyles() FieldStyles {
	return FieldStyles{
		Base:   lipgloss.NewStyle().Foreground(t.Text),
		Title:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Icon:   lipgloss.NewStyle().Foreground(t.Primary),
	}
}

// BlurredStyles returns styles for unfocused components.
func (t *Theme) BlurredStyles() FieldStyles {
	return FieldStyles{
		Base:   lipgloss.NewStyle().Foreground(t.Text),
		Title:  lipgloss.NewStyle().Foreground(t.Muted),
		Border: lipgloss.NewStyle().Foreground(t.Border),
		Icon:   lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// DisabledStyles returns styles for components that cannot be activated.
func (t *Theme) DisabledStyles() FieldStyles {
	s := lipgloss.NewStyle().Foreground(t.Disabled)
	return FieldStyles{Base: s, Title: s, Border: s, Icon: s}
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#a78bfa"),
		Accent:  lipgloss.Color("#67e8f9"),
		Error:   lipgloss.Color("#ef4444"),

		Text:        lipgloss.Color("#e5e7eb"),
		Muted:       lipgloss.Color("#9ca3af"),
		Placeholder: lipgloss.Color("#6b7280"),
		Disabled:    lipgloss.Color("#4b5563"),

		Background: lipgloss.Color("#18181b"),
		Surface:    lipgloss.Color("#1f2937"),
		Border:     lipgloss.Color("#3f3f46"),
	}
}

// Override returns a copy of t with every non-empty color of o applied.
func (t *Theme) Override(o Theme) *Theme {
	out := *t
	out.styles = nil
	set := func(dst *lipgloss.Color, src lipgloss.Color) {
		if src != "" {
			*dst = src
		}
	}
	set(&out.Primary, o.Primary)
	set(&out.Accent, o.Accent)
	set(&out.Error, o.Error)
	set(&out.Text, o.Text)
	set(&out.Muted, o.Muted)
	set(&out.Placeholder, o.Placeholder)
	set(&out.Disabled, o.Disabled)
	set(&out.Background, o.Background)
	set(&out.Surface, o.Surface)
	set(&out.Border, o.Border)
	return &out
}

var (
	mu           sync.RWMutex
	currentTheme = DefaultTheme()
)

// CurrentTheme returns the current theme.
func CurrentTheme() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return currentTheme
}

// SetTheme sets the current theme.
func SetTheme(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	currentTheme = t
}

// renderers caches glamour renderers by word-wrap width.
var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// GetPlainMarkdownRenderer returns a markdown renderer for the given width.
func GetPlainMarkdownRenderer(width int) *glamour.TermRenderer {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[width]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = r
	return r
}

// RenderMarkdown renders markdown content.
func RenderMarkdown(content string, width int) string {
	r := GetPlainMarkdownRenderer(width)
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
