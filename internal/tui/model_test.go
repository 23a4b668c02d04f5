package tui

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"dale-assistant/internal/domain"
	"dale-assistant/internal/page"
	"dale-assistant/internal/pagecontext"
	"dale-assistant/internal/widget"
)

type echoAsker struct{}

func (echoAsker) Ask(_ context.Context, prompt string, dctx domain.ContextDescriptor, _ []domain.ChatMessage) (domain.AssistantReply, error) {
	return domain.AssistantReply{Reply: "[" + string(dctx.Extras.Section) + "] " + prompt}, nil
}

func newTestModel(t *testing.T, path string) (Model, *widget.Controller) {
	t.Helper()
	ctrl, err := widget.New(page.New("Agricore"), pagecontext.StaticLocation(path), echoAsker{})
	require.NoError(t, err)
	m := NewModel(ModelConfig{Controller: ctrl, PagePath: path, Renderer: lipgloss.NewRenderer(io.Discard)})
	return m, ctrl
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestNewModel_AttachesTrigger(t *testing.T) {
	m, ctrl := newTestModel(t, "/marketplace.html")
	require.Equal(t, 1, ctrl.Document().Count("#"+widget.TriggerID))
	require.Contains(t, m.View(), "ctrl+o")
	require.Contains(t, m.View(), "Agricore  Page: /marketplace.html")
	require.Equal(t, widget.Hidden, ctrl.State())
}

func TestModel_OpenTypeSend(t *testing.T) {
	m, ctrl := newTestModel(t, "/marketplace.html")
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = step(t, m, key("ctrl+o"))
	require.Equal(t, widget.Open, ctrl.State())
	require.Contains(t, m.View(), "Which store has the best reputation and why?")

	m = step(t, m, key("hello"))
	m = step(t, m, key("enter"))
	require.Equal(t, "", m.input.Value())
	ctrl.Wait()
	m = step(t, m, transcriptUpdatedMsg{})

	require.Equal(t, []domain.ChatMessage{
		{Text: "hello", Mine: true},
		{Text: "[marketplace] hello"},
	}, ctrl.Messages())
	require.Contains(t, m.View(), "[marketplace] hello")

	m = step(t, m, key("esc"))
	require.Equal(t, widget.Hidden, ctrl.State())
	require.NotContains(t, m.View(), "Dale AI Assistant")
}

func TestModel_EmptyEnterDoesNothing(t *testing.T) {
	m, ctrl := newTestModel(t, "/chats.html")
	m = step(t, m, key("ctrl+o"))
	m = step(t, m, key("   "))
	_ = step(t, m, key("enter"))
	ctrl.Wait()
	require.Empty(t, ctrl.Messages())
}

func TestModel_TabPicksSuggestion(t *testing.T) {
	m, ctrl := newTestModel(t, "/workforce.html")
	m = step(t, m, key("ctrl+o"))
	m = step(t, m, key("tab"))
	m = step(t, m, key("tab"))
	require.Equal(t, 1, m.highlight)
	m = step(t, m, key("shift+tab"))
	require.Equal(t, 0, m.highlight)

	m = step(t, m, key("enter"))
	require.Equal(t, -1, m.highlight)
	ctrl.Wait()

	msgs := ctrl.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, ctrl.Suggestions()[0], msgs[0].Text)
	require.True(t, msgs[0].Mine)
}

func TestModel_TabWrapsToNone(t *testing.T) {
	m, ctrl := newTestModel(t, "/home.html")
	m = step(t, m, key("ctrl+o"))
	n := len(ctrl.Suggestions())
	for i := 0; i < n; i++ {
		m = step(t, m, key("tab"))
	}
	require.Equal(t, n-1, m.highlight)
	m = step(t, m, key("tab"))
	require.Equal(t, -1, m.highlight)
	m = step(t, m, key("shift+tab"))
	require.Equal(t, n-1, m.highlight)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, "/home.html")
	next, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	require.Equal(t, "", next.View())
}

func TestModel_ListenDeliversUpdates(t *testing.T) {
	m, ctrl := newTestModel(t, "/home.html")
	ctrl.Submit("ping")
	msg := m.listen()()
	require.IsType(t, transcriptUpdatedMsg{}, msg)
	ctrl.Wait()
}

func TestWrapText(t *testing.T) {
	require.Equal(t, "short", wrapText("short", 20))
	got := wrapText("one two three four five", 9)
	for _, line := range strings.Split(got, "\n") {
		require.LessOrEqual(t, len(line), 9)
	}
	require.Equal(t, "one two three four five", strings.ReplaceAll(got, "\n", " "))
}
