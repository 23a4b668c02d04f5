package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dale-assistant/internal/domain"
	"dale-assistant/internal/widget"
)

// transcriptUpdatedMsg signals that a turn appended to the transcript,
// possibly from another goroutine.
type transcriptUpdatedMsg struct{}

// ModelConfig holds the configuration for creating a new TUI model
type ModelConfig struct {
	Controller *widget.Controller
	PagePath   string
	// Renderer is the Lip Gloss renderer to use. If nil, the default
	// renderer (local terminal) is used.
	Renderer *lipgloss.Renderer
}

// Model hosts a widget controller in the terminal. The page is the
// backdrop; ctrl+o plays the trigger.
type Model struct {
	ctrl     *widget.Controller
	pagePath string
	styles   Styles

	input    textinput.Model
	viewport viewport.Model
	updates  chan struct{}

	// highlight is the selected suggestion, -1 for none.
	highlight int
	width     int
	height    int
	quitting  bool
}

// NewModel attaches the trigger and returns the root model.
func NewModel(config ModelConfig) Model {
	r := config.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask Dale..."
	ti.CharLimit = 4000
	ti.Width = 60
	ti.Focus()

	updates := make(chan struct{}, 1)
	config.Controller.OnAppend(func(domain.ChatMessage) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	config.Controller.Attach()

	return Model{
		ctrl:      config.Controller,
		pagePath:  config.PagePath,
		styles:    NewStyles(r),
		input:     ti,
		viewport:  viewport.New(80, 12),
		updates:   updates,
		highlight: -1,
		width:     80,
		height:    24,
	}
}

// Init starts listening for transcript updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

func (m Model) listen() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		<-updates
		return transcriptUpdatedMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case transcriptUpdatedMsg:
		m.refreshTranscript()
		return m, m.listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	doc := m.ctrl.Document()
	if m.ctrl.State() == widget.Hidden {
		switch msg.String() {
		case "ctrl+o", "enter":
			doc.Click(widget.TriggerID)
			m.highlight = -1
			m.refreshTranscript()
		}
		return m, nil
	}

	n := len(m.ctrl.Suggestions())
	switch msg.String() {
	case "esc":
		doc.Click(widget.CloseID)
		return m, nil
	case "tab":
		m.highlight++
		if m.highlight >= n {
			m.highlight = -1
		}
		return m, nil
	case "shift+tab":
		m.highlight--
		if m.highlight < -1 {
			m.highlight = n - 1
		}
		return m, nil
	case "enter":
		if m.highlight >= 0 {
			m.ctrl.ActivateSuggestion(m.highlight)
			m.highlight = -1
		} else {
			doc.SetValue(widget.InputID, m.input.Value())
			doc.Click(widget.SendID)
			m.input.SetValue(doc.Value(widget.InputID))
		}
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateLayout() {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}
	m.input.Width = inner - 4
	m.viewport.Width = inner
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	width := m.viewport.Width
	var sb strings.Builder
	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderEntry(msg, width))
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderEntry(msg domain.ChatMessage, width int) string {
	maxWidth := width * 4 / 5
	if maxWidth < 10 {
		maxWidth = 10
	}
	text := wrapText(msg.Text, maxWidth-2)
	switch {
	case msg.Mine:
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, m.styles.MineBubble.Render(text))
	case strings.HasPrefix(msg.Text, "Error: "):
		return lipgloss.PlaceHorizontal(width, lipgloss.Left, m.styles.ErrorBubble.Render(text))
	default:
		return lipgloss.PlaceHorizontal(width, lipgloss.Left, m.styles.TheirsBubble.Render(text))
	}
}

// View renders the page, and the modal over it when open.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	header := "Page: " + m.pagePath
	if title := m.ctrl.Document().Title(); title != "" {
		header = title + "  " + header
	}
	backdrop := m.styles.Page.Render(header)
	if m.ctrl.State() == widget.Hidden {
		trigger := m.styles.Trigger.Render("Dale AI  ctrl+o")
		return lipgloss.JoinVertical(lipgloss.Left,
			backdrop,
			lipgloss.PlaceHorizontal(m.width, lipgloss.Right, trigger),
		)
	}

	var chips []string
	for i, s := range m.ctrl.Suggestions() {
		if i == m.highlight {
			chips = append(chips, m.styles.SuggestionActive.Render(s))
		} else {
			chips = append(chips, m.styles.Suggestion.Render(s))
		}
	}

	modal := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Dale AI Assistant"),
		lipgloss.JoinVertical(lipgloss.Left, chips...),
		"",
		m.viewport.View(),
		m.styles.Input.Render(m.input.View()),
		m.styles.Muted.Render("enter send  tab pick suggestion  esc close  ctrl+c quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, backdrop, m.styles.ModalBorder.Render(modal))
}

// wrapText wraps text to fit within maxWidth
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		if len(line) <= maxWidth {
			result.WriteString(line)
			continue
		}
		current := ""
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= maxWidth:
				current += " " + word
			default:
				result.WriteString(current + "\n")
				current = word
			}
		}
		result.WriteString(current)
	}
	return result.String()
}
