package dropdown

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexcabrera/pickr/internal/geometry"
	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/ui/anim"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
)

func fruits() []option.Option[string] {
	return []option.Option[string]{
		option.New("Banana", "b"),
		option.New("Apple", "a"),
		option.New("Cherry", "c"),
	}
}

func newTestDropdown(t *testing.T, opts Options[string]) *Model[string] {
	t.Helper()
	if opts.Data == nil {
		opts.Data = fruits()
	}
	if opts.Label == "" {
		opts.Label = "Fruit"
	}
	if opts.Width == 0 {
		opts.Width = 30
	}
	if opts.AnimationIn == "" {
		opts.AnimationIn = "none"
	}
	if opts.AnimationOut == "" {
		opts.AnimationOut = "none"
	}
	m := New(opts)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Focus()
	return m
}

func press(m *Model[string], k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func typeText(m *Model[string], s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func click(m *Model[string], x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return cmd
}

func drain(ch <-chan pubsub.Event[pubsub.DropdownEvent]) []pubsub.EventType {
	var out []pubsub.EventType
	for {
		select {
		case e := <-ch:
			out = append(out, e.Type)
		default:
			return out
		}
	}
}

func overlay(m *Model[string]) string {
	ov, _, _, ok := m.OverlayView()
	if !ok {
		return ""
	}
	return ansi.Strip(ov)
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options[string]{Data: fruits()})
	defer m.Close()

	assert.NotEmpty(t, m.ID(), "ID should be generated")
	assert.False(t, m.IsOpen())
	_, ok := m.Value()
	assert.False(t, ok, "new dropdown should have no value")
	assert.Equal(t, defaultWidth, m.opts.Width)
	assert.Nil(t, m.Init())
}

func TestNew_InitialValue(t *testing.T) {
	v := "c"
	m := newTestDropdown(t, Options[string]{Value: &v})

	assert.Equal(t, "Cherry", m.Label())
	assert.Contains(t, ansi.Strip(m.View()), "Cherry", "trigger should show the selected label")
}

func TestView_Placeholder(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Placeholder: "Pick a fruit"})

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Fruit")
	assert.Contains(t, view, "Pick a fruit")
	assert.Contains(t, view, "▾", "closed trigger should show the dropdown icon")
}

func TestView_RemoveLabel(t *testing.T) {
	m := newTestDropdown(t, Options[string]{RemoveLabel: true, Placeholder: "Pick"})

	assert.NotContains(t, ansi.Strip(m.View()), "Fruit")
}

func TestEnterOpensAndSelects(t *testing.T) {
	var changed []string
	var opened []bool
	m := newTestDropdown(t, Options[string]{
		OnChange:     func(v string) { changed = append(changed, v) },
		OnOpenChange: func(open bool) { opened = append(opened, open) },
	})
	ch := m.Events().Subscribe(t.Context())

	press(m, tea.KeyEnter)
	require.True(t, m.IsOpen(), "enter should open the overlay")
	assert.Contains(t, ansi.Strip(m.View()), "▴", "open trigger should show the dropup icon")

	ov := overlay(m)
	assert.Less(t, strings.Index(ov, "Apple"), strings.Index(ov, "Banana"))
	assert.Less(t, strings.Index(ov, "Banana"), strings.Index(ov, "Cherry"))

	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)

	assert.False(t, m.IsOpen(), "selecting should close the overlay")
	v, ok := m.Value()
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, "Banana", m.Label())
	assert.Equal(t, []string{"b"}, changed)
	assert.Equal(t, []bool{true, false}, opened)
	assert.Equal(t, []pubsub.EventType{pubsub.OpenedEvent, pubsub.ChangedEvent, pubsub.ClosedEvent}, drain(ch))
}

func TestOpenHighlightsSelection(t *testing.T) {
	v := "c"
	m := newTestDropdown(t, Options[string]{Value: &v})

	press(m, tea.KeyEnter)
	assert.Equal(t, 2, m.cursor)
	assert.Contains(t, overlay(m), "✓", "selected row should carry a tick")
}

func TestSelectionTickDisabled(t *testing.T) {
	v := "c"
	m := newTestDropdown(t, Options[string]{Value: &v, DisableSelectionTick: true})

	press(m, tea.KeyEnter)
	assert.NotContains(t, overlay(m), "✓")
}

func TestEscDismisses(t *testing.T) {
	blurred := 0
	v := "a"
	m := newTestDropdown(t, Options[string]{Value: &v, OnBlur: func() { blurred++ }})
	ch := m.Events().Subscribe(t.Context())

	press(m, tea.KeyEnter)
	press(m, tea.KeyDown)
	press(m, tea.KeyEsc)

	assert.False(t, m.IsOpen(), "esc should close the overlay")
	assert.Equal(t, 1, blurred)
	got, _ := m.Value()
	assert.Equal(t, "a", got, "value should be unchanged")
	assert.Equal(t, []pubsub.EventType{pubsub.OpenedEvent, pubsub.ClosedEvent, pubsub.BlurredEvent}, drain(ch))
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	m.Blur()

	press(m, tea.KeyEnter)
	assert.False(t, m.IsOpen())
}

func TestDisabledDoesNotOpen(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Disabled: true})

	press(m, tea.KeyEnter)
	click(m, 1, 0)
	assert.False(t, m.IsOpen())
}

func TestSetDisabledCloses(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	press(m, tea.KeyEnter)

	m.SetDisabled(true)
	assert.False(t, m.IsOpen(), "disabling should close the overlay")
}

func TestBlurDismisses(t *testing.T) {
	blurred := 0
	m := newTestDropdown(t, Options[string]{OnBlur: func() { blurred++ }})
	press(m, tea.KeyEnter)

	m.Blur()
	assert.False(t, m.IsOpen())
	assert.Equal(t, 1, blurred)
}

func TestCursorMovement(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	press(m, tea.KeyEnter)

	press(m, tea.KeyUp)
	assert.Equal(t, 0, m.cursor, "cursor should not move above the first row")
	press(m, tea.KeyEnd)
	assert.Equal(t, 2, m.cursor)
	press(m, tea.KeyDown)
	assert.Equal(t, 2, m.cursor, "cursor should not move past the last row")
	press(m, tea.KeyHome)
	assert.Equal(t, 0, m.cursor)
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	var data []option.Option[string]
	for i := 1; i <= 20; i++ {
		data = append(data, option.New(fmt.Sprintf("Item %02d", i), fmt.Sprint(i)))
	}
	m := newTestDropdown(t, Options[string]{Data: data, MaxRows: 5})
	press(m, tea.KeyEnter)

	for range 7 {
		press(m, tea.KeyDown)
	}
	require.Equal(t, 7, m.cursor)
	assert.Equal(t, 3, m.offset)
	ov := overlay(m)
	assert.Contains(t, ov, "Item 08")
	assert.NotContains(t, ov, "Item 03")
}

func TestSearchFilters(t *testing.T) {
	m := newTestDropdown(t, Options[string]{EnableSearch: true})
	press(m, tea.KeyEnter)

	typeText(m, "an")
	require.Equal(t, "an", m.Controller().State().SearchQuery)
	assert.Equal(t, []option.Option[string]{option.New("Banana", "b")}, m.Controller().View())

	press(m, tea.KeyEnter)
	v, _ := m.Value()
	assert.Equal(t, "b", v)
	assert.Empty(t, m.Controller().State().SearchQuery, "query should be cleared after selection")
	assert.Len(t, m.Controller().View(), 3, "view should be restored after selection")
}

func TestSearchQueryShownAfterReopen(t *testing.T) {
	m := newTestDropdown(t, Options[string]{EnableSearch: true})
	press(m, tea.KeyEnter)
	typeText(m, "ch")
	press(m, tea.KeyEsc)

	press(m, tea.KeyEnter)
	require.True(t, m.IsOpen())
	assert.Equal(t, "ch", m.Controller().State().SearchQuery)
	assert.Equal(t, m.Controller().State().SearchQuery, m.search.Value(), "search field should show the active query")
	assert.Equal(t, []option.Option[string]{option.New("Cherry", "c")}, m.Controller().View())
	assert.Contains(t, overlay(m), "ch")

	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)
	assert.Empty(t, m.search.Value(), "field should be empty once a selection cleared the query")
}

func TestSearchNoMatches(t *testing.T) {
	m := newTestDropdown(t, Options[string]{EnableSearch: true, EmptyText: "Nothing here"})
	press(m, tea.KeyEnter)

	typeText(m, "zzz")
	assert.Contains(t, overlay(m), "Nothing here")

	press(m, tea.KeyEnter)
	_, ok := m.Value()
	assert.False(t, ok, "enter on an empty list should not select")
	assert.True(t, m.IsOpen(), "enter on an empty list should keep the overlay open")
}

func TestSearchFlashesIndicators(t *testing.T) {
	var data []option.Option[string]
	for i := 1; i <= 12; i++ {
		data = append(data, option.New(fmt.Sprintf("Item %02d", i), fmt.Sprint(i)))
	}
	m := newTestDropdown(t, Options[string]{Data: data, EnableSearch: true})
	press(m, tea.KeyEnter)

	require.True(t, m.flashing, "opening with search should flash indicators")
	assert.Contains(t, overlay(m), "↓ 4 more")

	m.Update(flashEndMsg{id: m.ID(), gen: m.gen})
	assert.False(t, m.flashing)
	assert.NotContains(t, overlay(m), "more", "indicators should hide after the flash")
}

func TestStaleFlashEndIgnored(t *testing.T) {
	m := newTestDropdown(t, Options[string]{EnableSearch: true})
	press(m, tea.KeyEnter)
	stale := m.gen
	press(m, tea.KeyEsc)
	press(m, tea.KeyEnter)

	m.Update(flashEndMsg{id: m.ID(), gen: stale})
	assert.True(t, m.flashing, "flash end from an earlier activation should be ignored")
}

func TestSetSearchEnabled(t *testing.T) {
	m := newTestDropdown(t, Options[string]{EnableSearch: true})
	press(m, tea.KeyEnter)
	typeText(m, "ch")
	require.Len(t, m.Controller().View(), 1)

	m.SetSearchEnabled(false)
	assert.Empty(t, m.Controller().State().SearchQuery)
	assert.Empty(t, m.search.Value())
	assert.Len(t, m.Controller().View(), 3, "disabling search should restore the full list")
	assert.NotContains(t, overlay(m), "Search")

	m.SetSearchEnabled(true)
	typeText(m, "ap")
	assert.Equal(t, []option.Option[string]{option.New("Apple", "a")}, m.Controller().View())
}

func TestSetSort(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})

	m.SetSort(true, option.Desc)
	press(m, tea.KeyEnter)
	assert.Equal(t, "Cherry", m.Controller().View()[0].Label)

	m.SetSort(false, option.Asc)
	assert.Equal(t, "Banana", m.Controller().View()[0].Label, "unsorted list keeps source order")
}

func TestSetFloating(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})

	m.SetFloating(true)
	press(m, tea.KeyEnter)
	p := m.Controller().Placement()
	assert.True(t, p.Floating)
	assert.Equal(t, 2, p.Y)
}

func TestMouse(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})

	click(m, 1, 0)
	require.True(t, m.IsOpen(), "clicking the trigger should open the overlay")
	require.Equal(t, 1, m.Controller().Placement().Y)

	// Border on row 1, Apple on row 2, Banana on row 3.
	click(m, 2, 3)
	v, _ := m.Value()
	assert.Equal(t, "b", v)
	assert.False(t, m.IsOpen(), "clicking a row should close the overlay")
}

func TestMouseOutsideDismisses(t *testing.T) {
	blurred := 0
	m := newTestDropdown(t, Options[string]{OnBlur: func() { blurred++ }})
	click(m, 1, 0)

	click(m, 70, 20)
	assert.False(t, m.IsOpen(), "clicking outside should close the overlay")
	assert.Equal(t, 1, blurred)
}

func TestMouseWheel(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	click(m, 1, 0)

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 1, m.cursor)
}

func TestLoadingBlocksSelection(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Loading: true})
	press(m, tea.KeyEnter)

	assert.Contains(t, overlay(m), "Loading")
	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)
	_, ok := m.Value()
	assert.False(t, ok, "selection should be blocked while loading")

	m.SetLoading(false)
	press(m, tea.KeyEnter)
	v, _ := m.Value()
	assert.Equal(t, "a", v)
}

func TestEmptyData(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	m.SetData(nil)
	press(m, tea.KeyEnter)

	assert.Contains(t, overlay(m), defaultEmptyText)
}

func TestEmptyView(t *testing.T) {
	m := newTestDropdown(t, Options[string]{
		Data:      []option.Option[string]{},
		EmptyView: func(int) string { return "custom empty" },
	})
	press(m, tea.KeyEnter)

	assert.Contains(t, overlay(m), "custom empty")
}

func TestRequiredHelperText(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Required: true})

	assert.NotContains(t, ansi.Strip(m.View()), "is required", "helper text should be hidden without an error")
	assert.Contains(t, ansi.Strip(m.View()), "Fruit*", "required label should carry the marker")

	m.SetError(true)
	assert.Contains(t, ansi.Strip(m.View()), "Fruit is required")
}

func TestOverlayOpensBelowHelperText(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Required: true})
	m.SetError(true)

	press(m, tea.KeyEnter)
	assert.Equal(t, 2, m.Controller().Placement().Y, "overlay should start below the helper line")

	lines := strings.Split(ansi.Strip(m.Render()), "\n")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[1], "Fruit is required")
}

func TestErrorWithoutRequired(t *testing.T) {
	m := newTestDropdown(t, Options[string]{HelperText: "pick one"})

	m.SetError(true)
	assert.NotContains(t, ansi.Strip(m.View()), "pick one", "helper text should only show for required fields")
}

func TestWindowResizeCloses(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	press(m, tea.KeyEnter)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.False(t, m.IsOpen(), "resizing should close the overlay")
	w, h := m.GetSize()
	assert.Equal(t, 100, w)
	assert.Equal(t, 40, h)
}

func TestMeasurement(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	press(m, tea.KeyEnter)
	gen := m.gen

	m.Update(measuredMsg{id: m.ID(), gen: gen, rect: geometry.Rect{X: 0, Y: 20, Width: 30, Height: 1}})
	p := m.Controller().Placement()
	assert.True(t, p.Flipped)
	assert.Equal(t, 19, p.Y)

	m.Update(measuredMsg{id: m.ID(), gen: gen - 1, rect: geometry.Rect{X: 0, Y: 0, Width: 30, Height: 1}})
	assert.Equal(t, p, m.Controller().Placement(), "stale measurement applied")

	m.Update(measuredMsg{id: "other", gen: gen, rect: geometry.Rect{X: 0, Y: 0, Width: 30, Height: 1}})
	assert.Equal(t, p, m.Controller().Placement(), "measurement for another dropdown applied")
}

func TestSetPositionMeasuresWhileOpen(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	assert.Nil(t, m.SetPosition(2, 3), "closed dropdown should not measure")
	press(m, tea.KeyEnter)

	cmd := m.SetPosition(2, 20)
	require.NotNil(t, cmd, "open dropdown should measure after moving")
	m.Update(cmd())
	assert.True(t, m.Controller().Placement().Flipped)
}

func TestFloating(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Floating: true})
	press(m, tea.KeyEnter)

	p := m.Controller().Placement()
	assert.True(t, p.Floating)
	assert.Equal(t, geometry.Point{X: 2, Y: 2}, geometry.Point{X: p.X, Y: p.Y})
	assert.Equal(t, 76, p.Width)
}

func TestSetOpen(t *testing.T) {
	var opened []bool
	m := newTestDropdown(t, Options[string]{OnOpenChange: func(o bool) { opened = append(opened, o) }})
	ch := m.Events().Subscribe(t.Context())

	m.SetOpen(true)
	require.True(t, m.IsOpen())
	m.SetOpen(false)
	require.False(t, m.IsOpen())

	assert.Empty(t, opened, "OnOpenChange should not echo external changes")
	assert.Equal(t, []pubsub.EventType{pubsub.OpenedEvent, pubsub.ClosedEvent}, drain(ch))
}

func TestHideAnimationKeepsGhost(t *testing.T) {
	m := newTestDropdown(t, Options[string]{AnimationOut: string(anim.FadeOut)})
	press(m, tea.KeyEnter)

	cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd, "closing should start the hide animation")
	assert.Contains(t, overlay(m), "Apple", "ghost frame should be drawn while hiding")

	tick := anim.TickMsg{ID: m.ID() + "/out"}
	m.Update(tick)
	m.Update(tick)
	_, _, _, ok := m.OverlayView()
	assert.False(t, ok, "ghost should be gone once the animation ends")
}

func TestSharedEvents(t *testing.T) {
	broker := pubsub.NewBroker[pubsub.DropdownEvent](16)
	defer broker.Shutdown()

	a := newTestDropdown(t, Options[string]{Name: "a", Events: broker})
	b := newTestDropdown(t, Options[string]{Name: "b", Events: broker})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	ch := broker.Subscribe(ctx)

	press(a, tea.KeyEnter)
	press(a, tea.KeyEnter)
	press(b, tea.KeyEnter)
	press(b, tea.KeyDown)
	press(b, tea.KeyEnter)

	var changed []string
	for done := false; !done; {
		select {
		case e := <-ch:
			if e.Type == pubsub.ChangedEvent {
				changed = append(changed, fmt.Sprintf("%s=%v", e.Payload.Name, e.Payload.Value))
			}
		default:
			done = true
		}
	}
	assert.Equal(t, []string{"a=a", "b=b"}, changed)
}

func TestCustomRenderers(t *testing.T) {
	m := newTestDropdown(t, Options[string]{
		Trigger: TriggerRendererFunc(func(s TriggerState) string {
			return "[" + s.Placeholder + "]"
		}),
		Placeholder: "choose",
		RenderItem: func(o option.Option[string], s ItemState) string {
			if s.Highlighted {
				return "> " + o.Value
			}
			return "  " + o.Value
		},
	})

	assert.Equal(t, "[choose]", m.View())
	press(m, tea.KeyEnter)
	assert.Contains(t, overlay(m), "> a", "overlay should use RenderItem")
}

func TestBindings(t *testing.T) {
	m := newTestDropdown(t, Options[string]{})
	assert.Len(t, m.Bindings(), 1)

	press(m, tea.KeyEnter)
	assert.Len(t, m.Bindings(), 4)
	assert.NotEmpty(t, m.HelpView())
}

func TestRenderComposites(t *testing.T) {
	m := newTestDropdown(t, Options[string]{Placeholder: "Pick"})
	press(m, tea.KeyEnter)

	out := ansi.Strip(m.Render())
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5, "Render() should include the overlay")
	assert.Contains(t, lines[0], "Pick", "first line should be the trigger")
}
