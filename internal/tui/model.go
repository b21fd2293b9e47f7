// Package tui implements the terminal chat client.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Answerer is the TUI-facing subset of the query service.
type Answerer interface {
	Answer(ctx context.Context, question, sessionID string) (string, error)
}

type line struct {
	speaker string
	text    string
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	service   Answerer
	input     textinput.Model
	viewport  viewport.Model
	lines     []line
	sessionID string
	status    string
	waiting   bool
	ready     bool
}

// New creates a new chat model with a fresh session.
func New(service Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about composting and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		input:     ti,
		viewport:  vp,
		sessionID: uuid.NewString(),
		status:    "Ready. Type a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

type answerMsg struct {
	answer string
	err    error
}

func (m Model) ask(question string) tea.Cmd {
	service, sessionID := m.service, m.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		answer, err := service.Answer(ctx, question, sessionID)
		return answerMsg{answer: answer, err: err}
	}
}

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.lines = append(m.lines, line{speaker: "bot", text: msg.answer})
			m.status = "Ready."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.lines = append(m.lines, line{speaker: "you", text: q})
				m.input.Reset()
				m.waiting = true
				m.status = "Thinking..."
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, m.ask(q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Compost Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.lines) == 0 {
		return "No messages yet."
	}
	parts := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		label := youStyle.Render("you")
		if l.speaker == "bot" {
			label = botStyle.Render("bot")
		}
		parts = append(parts, label+" "+l.text)
	}
	return strings.Join(parts, "\n\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
