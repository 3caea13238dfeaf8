package form

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/ui/dropdown"
	"github.com/alexcabrera/pickr/internal/ui/pubsub"
)

func newTestForm(t *testing.T) (*Model, *dropdown.Model[string], *dropdown.Model[int]) {
	t.Helper()
	fruit := dropdown.New(dropdown.Options[string]{
		Name:         "fruit",
		Label:        "Fruit",
		Required:     true,
		AnimationIn:  "none",
		AnimationOut: "none",
		Data: []option.Option[string]{
			option.New("Banana", "b"),
			option.New("Apple", "a"),
		},
	})
	size := dropdown.New(dropdown.Options[int]{
		Name:         "size",
		Label:        "Size",
		AnimationIn:  "none",
		AnimationOut: "none",
		Data: []option.Option[int]{
			option.New("Small", 1),
			option.New("Large", 3),
		},
	})
	t.Cleanup(fruit.Close)
	t.Cleanup(size.Close)

	m := New("Order", fruit, size)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, fruit, size
}

func send(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestNew_FocusesFirstField(t *testing.T) {
	m, fruit, size := newTestForm(t)

	assert.True(t, fruit.Focused(), "first field should be focused")
	assert.False(t, size.Focused())
	assert.Equal(t, Field(fruit), m.Focused())
}

func TestWindowSizeFanOut(t *testing.T) {
	_, fruit, size := newTestForm(t)

	for _, f := range []Field{fruit, size} {
		w, h := f.GetSize()
		assert.Equal(t, 80, w, f.Name())
		assert.Equal(t, 24, h, f.Name())
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m, fruit, size := newTestForm(t)

	send(m, tea.KeyTab)
	assert.False(t, fruit.Focused())
	assert.True(t, size.Focused(), "tab should move focus to the second field")

	send(m, tea.KeyTab)
	assert.Nil(t, m.Focused(), "tab should move focus to the submit button")

	send(m, tea.KeyTab)
	assert.True(t, fruit.Focused(), "tab should wrap to the first field")

	send(m, tea.KeyShiftTab)
	assert.Nil(t, m.Focused(), "shift+tab should wrap to the submit button")
}

func TestEscClosesOpenFieldFirst(t *testing.T) {
	m, fruit, _ := newTestForm(t)

	send(m, tea.KeyEnter)
	require.True(t, fruit.IsOpen(), "enter should open the focused field")

	send(m, tea.KeyEsc)
	assert.False(t, fruit.IsOpen(), "esc should close the open field")
	assert.False(t, m.Aborted(), "esc on an open field should not quit the form")
}

func TestFieldPositions(t *testing.T) {
	m, fruit, size := newTestForm(t)

	send(m, tea.KeyEnter)
	// Padding 1, title and blank line, then the first field.
	p := fruit.Controller().Placement()
	assert.Equal(t, padX, p.X)
	assert.Equal(t, 4, p.Y)
	send(m, tea.KeyEsc)

	send(m, tea.KeyTab)
	send(m, tea.KeyEnter)
	assert.Equal(t, 6, size.Controller().Placement().Y)
	assert.Contains(t, ansi.Strip(m.View()), "Large", "view should include the open overlay")
}

func TestSubmitValidatesRequired(t *testing.T) {
	m, fruit, _ := newTestForm(t)
	ch := m.Events().Subscribe(t.Context())

	send(m, tea.KeyTab)
	send(m, tea.KeyCtrlS)

	require.False(t, m.Submitted(), "form with an empty required field should not submit")
	assert.Equal(t, []string{"fruit"}, m.Invalid())
	assert.True(t, fruit.Focused(), "first invalid field should take focus")
	assert.Contains(t, ansi.Strip(m.View()), "Fruit is required")

	select {
	case e := <-ch:
		assert.Equal(t, pubsub.SubmittedEvent, e.Type)
		assert.Len(t, e.Payload.Invalid, 1)
	default:
		t.Error("submit should publish an event")
	}

	send(m, tea.KeyEnter)
	send(m, tea.KeyEnter)
	assert.Empty(t, m.Invalid())
	assert.NotContains(t, ansi.Strip(m.View()), "is required", "helper text should clear after selecting")
}

func TestSubmit(t *testing.T) {
	m, _, _ := newTestForm(t)

	send(m, tea.KeyEnter)
	send(m, tea.KeyEnter)
	send(m, tea.KeyTab)
	send(m, tea.KeyTab)
	cmd := send(m, tea.KeyEnter)

	require.True(t, m.Submitted(), "form should submit from the button")
	assert.NotNil(t, cmd, "submit should return a quit command")

	res := m.Result()
	assert.Equal(t, "a", res["fruit"])
	assert.NotContains(t, res, "size", "unset optional field should be left out")
	assert.Empty(t, m.View(), "submitted form should render nothing")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestForm(t)

	cmd := send(m, tea.KeyEsc)
	assert.True(t, m.Aborted(), "esc should abort the form")
	assert.NotNil(t, cmd)
}

func TestCtrlCAbortsWithOpenField(t *testing.T) {
	m, _, _ := newTestForm(t)
	send(m, tea.KeyEnter)

	send(m, tea.KeyCtrlC)
	assert.True(t, m.Aborted(), "ctrl+c should abort even with an open field")
}

func TestMouseFocusesClickedField(t *testing.T) {
	m, fruit, size := newTestForm(t)

	// The size trigger is drawn at (padX, 5).
	m.Update(tea.MouseMsg{X: padX + 1, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, size.IsOpen(), "clicking the trigger should open the field")
	assert.False(t, fruit.Focused())
	assert.True(t, size.Focused(), "clicked field should take focus")
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	m, _, _ := newTestForm(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := m.Run(ctx, tea.WithInput(nil), tea.WithOutput(io.Discard))
	assert.ErrorIs(t, err, tea.ErrProgramKilled)
	assert.False(t, m.Submitted())
}
