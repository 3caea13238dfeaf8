// Package dropdown implements the selection state machine behind a dropdown
// widget: open/closed state, current selection, search query, validation
// flag and the resolved overlay placement.
//
// A Controller is not safe for concurrent use. It is meant to be driven from
// a single event loop, which is how bubbletea delivers messages.
package dropdown

import (
	"slices"

	"github.com/alexcabrera/pickr/internal/geometry"
	"github.com/alexcabrera/pickr/internal/option"
)

// State is the selection state owned by a Controller.
type State[V comparable] struct {
	SelectedValue V
	// HasSelection is false until a value is set or selected.
	HasSelection bool
	// SelectedLabel is the label of the option whose value is SelectedValue,
	// or the last label that matched when the value is unknown.
	SelectedLabel string
	Open          bool
	HasError      bool
	SearchQuery   string
}

// Config configures a Controller.
type Config[V comparable] struct {
	Data []option.Option[V]
	// Value is the initial selection, if any.
	Value *V

	// OnChange is called with the newly selected value.
	OnChange func(V)
	// OnBlur is called when the overlay is dismissed without a selection.
	OnBlur func()
	// OnOpenChange mirrors the open state to an external owner.
	OnOpenChange func(open bool)

	Required bool
	Error    bool

	SearchEnabled bool
	DisableSort   bool
	SortOrder     option.SortOrder

	Floating bool
	Disabled bool
	Loading  bool

	// Resolver overrides the placement constants.
	Resolver *geometry.Resolver
	Viewport geometry.Size
}

// Controller owns the state of one dropdown.
type Controller[V comparable] struct {
	source []option.Option[V]
	view   []option.Option[V]
	state  State[V]

	onChange     func(V)
	onBlur       func()
	onOpenChange func(bool)

	required      bool
	externalError bool
	searchEnabled bool
	sortEnabled   bool
	order         option.SortOrder
	floating      bool
	disabled      bool
	loading       bool

	resolver  geometry.Resolver
	viewport  geometry.Size
	trigger   geometry.Rect
	placement geometry.Placement

	// gen identifies the latest activation; measurements carrying an older
	// generation are stale.
	gen           uint64
	flash         bool
	selectedIndex int
}

// New creates a controller in the closed state.
func New[V comparable](cfg Config[V]) *Controller[V] {
	c := &Controller[V]{
		source:        slices.Clone(cfg.Data),
		onChange:      cfg.OnChange,
		onBlur:        cfg.OnBlur,
		onOpenChange:  cfg.OnOpenChange,
		searchEnabled: cfg.SearchEnabled,
		sortEnabled:   !cfg.DisableSort,
		order:         cfg.SortOrder,
		floating:      cfg.Floating,
		disabled:      cfg.Disabled,
		loading:       cfg.Loading,
		resolver:      geometry.DefaultResolver(),
		viewport:      cfg.Viewport,
		selectedIndex: -1,
	}
	if c.order == "" {
		c.order = option.Asc
	}
	if cfg.Resolver != nil {
		c.resolver = *cfg.Resolver
	}
	if cfg.Value != nil {
		c.state.SelectedValue = *cfg.Value
		c.state.HasSelection = true
		c.resolveLabel()
	}
	c.SetRequiredError(cfg.Required, cfg.Error)
	c.derive()
	return c
}

// State returns a copy of the current state.
func (c *Controller[V]) State() State[V] {
	return c.state
}

// View returns the options currently displayed. The slice must not be
// modified.
func (c *Controller[V]) View() []option.Option[V] {
	return c.view
}

// Source returns the full option list. The slice must not be modified.
func (c *Controller[V]) Source() []option.Option[V] {
	return c.source
}

// Placement returns the last resolved overlay placement.
func (c *Controller[V]) Placement() geometry.Placement {
	return c.placement
}

// Viewport returns the last known viewport size.
func (c *Controller[V]) Viewport() geometry.Size {
	return c.viewport
}

// Trigger returns the last measured trigger bounds.
func (c *Controller[V]) Trigger() geometry.Rect {
	return c.trigger
}

func (c *Controller[V]) Loading() bool       { return c.loading }
func (c *Controller[V]) Disabled() bool      { return c.disabled }
func (c *Controller[V]) Required() bool      { return c.required }
func (c *Controller[V]) Floating() bool      { return c.floating }
func (c *Controller[V]) SearchEnabled() bool { return c.searchEnabled }

// HelperVisible reports whether the required-field helper text is shown.
func (c *Controller[V]) HelperVisible() bool {
	return c.state.HasError
}

// SelectedIndex is the index of the selected value in the view as of the
// last activation or view change, or -1.
func (c *Controller[V]) SelectedIndex() int {
	return c.selectedIndex
}

// IsSelected reports whether v is the selected value.
func (c *Controller[V]) IsSelected(v V) bool {
	return c.state.HasSelection && c.state.SelectedValue == v
}

// Activate opens the overlay below (or above) the trigger. It returns the
// generation a later Measured call must carry, and false when the dropdown
// is disabled or already open.
func (c *Controller[V]) Activate(trigger geometry.Rect) (uint64, bool) {
	if c.disabled || c.state.Open {
		return 0, false
	}
	c.gen++
	c.trigger = trigger
	c.placement = c.resolver.Resolve(trigger, c.viewport, c.floating)
	c.state.Open = true
	c.flash = c.searchEnabled
	c.locateSelection()
	if c.onOpenChange != nil {
		c.onOpenChange(true)
	}
	return c.gen, true
}

// Measured applies an asynchronous trigger measurement. Measurements for a
// closed overlay or an older activation are discarded.
func (c *Controller[V]) Measured(gen uint64, trigger geometry.Rect) bool {
	if !c.state.Open || gen != c.gen {
		return false
	}
	c.trigger = trigger
	c.placement = c.resolver.Resolve(trigger, c.viewport, c.floating)
	return true
}

// FlashIndicators reports, once, that scroll indicators should be flashed
// after the overlay opened with search enabled.
func (c *Controller[V]) FlashIndicators() bool {
	f := c.flash
	c.flash = false
	return f
}

// SelectOption selects v and closes the overlay. The label is looked up in
// the full source list; when v is not in it the previous label is kept.
func (c *Controller[V]) SelectOption(v V) {
	if o, ok := option.Find(c.source, v); ok {
		c.state.SelectedLabel = o.Label
	}
	c.state.SelectedValue = v
	c.state.HasSelection = true
	if c.onChange != nil {
		c.onChange(v)
	}
	c.close()
	c.state.SearchQuery = ""
	c.derive()
}

// Dismiss closes the overlay without changing the selection.
func (c *Controller[V]) Dismiss() {
	if !c.state.Open {
		return
	}
	c.close()
	if c.onBlur != nil {
		c.onBlur()
	}
}

// SetOpen opens or closes the overlay on behalf of an external owner. It
// does not echo back through OnOpenChange.
func (c *Controller[V]) SetOpen(open bool) {
	if open == c.state.Open {
		return
	}
	notify := c.onOpenChange
	c.onOpenChange = nil
	if open {
		c.Activate(c.trigger)
	} else {
		c.close()
	}
	c.onOpenChange = notify
}

// SetSearchQuery filters the view. It is ignored unless the overlay is open
// and search is enabled.
func (c *Controller[V]) SetSearchQuery(q string) bool {
	if !c.state.Open || !c.searchEnabled {
		return false
	}
	c.state.SearchQuery = q
	c.derive()
	return true
}

// SetRequiredError sets the validation flag. It only affects presentation.
func (c *Controller[V]) SetRequiredError(required, external bool) {
	c.required = required
	c.externalError = external
	c.state.HasError = required && external
}

// SetViewport records a new viewport size. An open overlay is closed first
// so it is never drawn with stale geometry.
func (c *Controller[V]) SetViewport(size geometry.Size) {
	if c.state.Open {
		c.close()
	}
	c.viewport = size
	c.placement = c.resolver.Resolve(c.trigger, size, c.floating)
}

// SetData replaces the source list.
func (c *Controller[V]) SetData(data []option.Option[V]) {
	c.source = slices.Clone(data)
	if c.state.HasSelection {
		c.resolveLabel()
	}
	c.derive()
}

// SetValue sets the selection from outside without notifying OnChange.
func (c *Controller[V]) SetValue(v V) {
	c.state.SelectedValue = v
	c.state.HasSelection = true
	c.resolveLabel()
	c.locateSelection()
}

// SetSort configures sorting of the unfiltered view.
func (c *Controller[V]) SetSort(enabled bool, order option.SortOrder) {
	c.sortEnabled = enabled
	c.order = order
	c.derive()
}

// SetSearchEnabled toggles search. Disabling it clears the query.
func (c *Controller[V]) SetSearchEnabled(enabled bool) {
	c.searchEnabled = enabled
	if !enabled && c.state.SearchQuery != "" {
		c.state.SearchQuery = ""
		c.derive()
	}
}

// SetDisabled toggles whether activation is allowed.
func (c *Controller[V]) SetDisabled(disabled bool) { c.disabled = disabled }

// SetLoading toggles the loading flag. It is passed through to rendering.
func (c *Controller[V]) SetLoading(loading bool) { c.loading = loading }

// SetFloating switches the placement strategy for the next activation.
func (c *Controller[V]) SetFloating(floating bool) { c.floating = floating }

func (c *Controller[V]) close() {
	if !c.state.Open {
		return
	}
	c.state.Open = false
	c.flash = false
	c.gen++
	if c.onOpenChange != nil {
		c.onOpenChange(false)
	}
}

// resolveLabel keeps the current label when the value is not in the source.
func (c *Controller[V]) resolveLabel() {
	if o, ok := option.Find(c.source, c.state.SelectedValue); ok {
		c.state.SelectedLabel = o.Label
	}
}

func (c *Controller[V]) locateSelection() {
	c.selectedIndex = -1
	if c.state.HasSelection {
		c.selectedIndex = option.IndexOf(c.view, c.state.SelectedValue)
	}
}

func (c *Controller[V]) derive() {
	c.view = option.DeriveView(c.source, option.Query{
		Text:          c.state.SearchQuery,
		SearchEnabled: c.searchEnabled,
		SortEnabled:   c.sortEnabled,
		Order:         c.order,
	})
	c.locateSelection()
}
