// Package dropdown is the bubbletea presentation of a dropdown: a one-line
// trigger and a floating overlay listing options. All selection state lives
// in the controller from internal/dropdown; this package renders it and
// turns terminal events into controller operations.
package dropdown

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexcabrera/pickr/internal/geometry"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
	"github.com/alexcabrera/pickr/internal/ui/shared"
	"github.com/alexcabrera/pickr/internal/ui/styles"
)

// TriggerState is what a TriggerRenderer gets to draw.
type TriggerState struct {
	// Label is the field label including the required marker, or empty.
	Label       string
	Text        string
	Placeholder string
	Icon        string
	Width       int
	Open        bool
	Focused     bool
	Disabled    bool
	HasError    bool
}

// TriggerRenderer replaces the built-in trigger row. The dropdown only
// relies on the rendered height; activation still comes from key and mouse
// events routed to the model.
type TriggerRenderer interface {
	RenderTrigger(TriggerState) string
}

// TriggerRendererFunc adapts a function to TriggerRenderer.
type TriggerRendererFunc func(TriggerState) string

// RenderTrigger implements TriggerRenderer.
func (f TriggerRendererFunc) RenderTrigger(s TriggerState) string { return f(s) }

// ItemState describes one option row.
type ItemState struct {
	Selected    bool
	Highlighted bool
	Disabled    bool
	Width       int
}

// Options is the configuration surface of a dropdown.
type Options[V comparable] struct {
	// ID identifies the instance in published events. A UUID is generated
	// when empty.
	ID string
	// Name is the field name used by forms.
	Name string

	Label       string
	RemoveLabel bool
	Placeholder string
	// Width is the trigger width in cells, label included.
	Width int

	Data  []option.Option[V]
	Value *V

	OnChange     func(V)
	OnBlur       func()
	OnOpenChange func(open bool)

	Required   bool
	Error      bool
	ErrorColor lipgloss.Color
	HelperText string

	EnableSearch      bool
	SearchPlaceholder string

	DisableSort bool
	SortOrder   option.SortOrder

	Floating bool
	Disabled bool

	Loading     bool
	LoaderColor lipgloss.Color
	Spinner     shared.SpinnerType

	DisableSelectionTick bool

	// Style overrides. Nil keeps the theme default.
	ContainerStyle        *lipgloss.Style
	ItemTextStyle         *lipgloss.Style
	ItemContainerStyle    *lipgloss.Style
	SelectedItemTextStyle *lipgloss.Style
	SelectedItemViewStyle *lipgloss.Style

	// RenderItem replaces the built-in row rendering.
	RenderItem func(o option.Option[V], s ItemState) string

	Trigger      TriggerRenderer
	DropdownIcon string

	// EmptyText, EmptyMarkdown and EmptyView configure the empty list, in
	// increasing order of precedence.
	EmptyText     string
	EmptyMarkdown string
	EmptyView     func(width int) string

	Theme *styles.Theme

	AnimationIn  string
	AnimationOut string

	// MaxRows bounds the visible rows; the overlay placement may lower it.
	MaxRows int

	Resolver *geometry.Resolver
	// Events is shared by several dropdowns when set; otherwise each
	// dropdown owns a broker.
	Events *pubsub.Broker[pubsub.DropdownEvent]
}

const (
	defaultWidth      = 32
	defaultMaxRows    = 8
	defaultEmptyText  = "No options available"
	defaultSearchText = "Search"
	minOverlayWidth   = 12
)

func (o *Options[V]) applyDefaults() {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.MaxRows <= 0 {
		o.MaxRows = defaultMaxRows
	}
	if o.EmptyText == "" {
		o.EmptyText = defaultEmptyText
	}
	if o.SearchPlaceholder == "" {
		o.SearchPlaceholder = defaultSearchText
	}
	if o.DropdownIcon == "" {
		o.DropdownIcon = shared.IconDropdown
	}
	if o.AnimationIn == "" {
		o.AnimationIn = "fadeIn"
	}
	if o.AnimationOut == "" {
		o.AnimationOut = "fadeOut"
	}
	if o.Theme == nil {
		o.Theme = styles.CurrentTheme()
	}
}
