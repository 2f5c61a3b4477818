package shell

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/view"
)

// maxTranscript bounds the number of lines kept for scrollback.
const maxTranscript = 500

type keyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// Model is the Bubble Tea model for the interactive shell.
type Model struct {
	session *command.Session
	render  *view.Renderer
	input   textinput.Model
	keys    keyMap

	transcript []string
	height     int
	quitting   bool
}

// NewModel creates a Model that opens with a greeting.
func NewModel(s *command.Session, r *view.Renderer) Model {
	in := textinput.New()
	in.Prompt = r.Prompt()
	in.ShowSuggestions = true
	in.SetSuggestions(s.Commands())
	in.Focus()

	m := Model{session: s, render: r, input: in, keys: defaultKeys()}
	m.appendText(r.Greeting())
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-len([]rune(m.input.Prompt))-1, 1)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.appendText(m.render.Reply(command.Reply{Outcome: command.OutcomeGoodbye}))
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	m.appendText(m.input.Prompt + line)

	rep, err := m.session.Execute(line)
	switch {
	case err != nil:
		m.appendText(m.render.Error(err))
	case rep.Outcome == command.OutcomeClear:
		m.transcript = nil
	default:
		m.appendText(m.render.Reply(rep))
	}

	if err == nil && rep.Quit() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) appendText(text string) {
	m.transcript = append(m.transcript, strings.Split(text, "\n")...)
	if over := len(m.transcript) - maxTranscript; over > 0 {
		m.transcript = m.transcript[over:]
	}
}

// Transcript returns the lines shown above the prompt.
func (m Model) Transcript() []string {
	return m.transcript
}

// View renders the visible tail of the transcript and the prompt.
func (m Model) View() string {
	lines := m.transcript
	if m.height > 1 && len(lines) > m.height-1 {
		lines = lines[len(lines)-(m.height-1):]
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if !m.quitting {
		b.WriteString(m.input.View())
	}
	return b.String()
}
