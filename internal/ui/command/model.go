package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// QuitMsg is emitted for the "quit" command.
type QuitMsg struct{}

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Model is the command palette view. Commands are route strings, plus
// "quit".
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "student_report/S001"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetCodes offers route completions for the given student codes.
func (m *Model) SetCodes(codes []string) {
	suggestions := make([]string, 0, len(route.Names)+2*len(codes)+1)
	for _, n := range route.Names {
		suggestions = append(suggestions, string(n))
	}
	for _, c := range codes {
		suggestions = append(suggestions,
			route.StudentReportFor(c).String(),
			route.EditStudent(c).String(),
		)
	}
	suggestions = append(suggestions, "quit")
	m.input.SetSuggestions(suggestions)
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.input.Reset()
			m.err = nil
			return m, func() tea.Msg { return CancelMsg{} }
		case "enter":
			return m.execute()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) execute() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if text == "quit" || text == "q" {
		m.input.Reset()
		return m, func() tea.Msg { return QuitMsg{} }
	}

	r, err := route.Parse(text)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.input.Reset()
	m.err = nil
	return m, ui.Navigate(r)
}

// View renders the command palette.
func (m Model) View() string {
	parts := []string{theme.TitleStyle.Render("Go to"), m.input.View()}
	if m.err != nil {
		parts = append(parts, theme.ErrorStyle.Render(m.err.Error()))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
