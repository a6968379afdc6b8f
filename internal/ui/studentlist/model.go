package studentlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// Deleter removes students.
type Deleter interface {
	DeleteStudent(ctx context.Context, code string) error
}

type studentDeletedMsg struct {
	name string
	err  error
}

// confirmBinding holds the delete confirmation on the heap so that huh's
// Value() pointer stays valid across Bubble Tea model copies.
type confirmBinding struct {
	confirm bool
}

// Model is the student list screen.
type Model struct {
	list        list.Model
	store       Deleter
	keys        *keys.KeyMap
	students    []model.Student
	query       string
	searchMode  bool
	searchInput textinput.Model
	confirmForm *huh.Form
	cb          *confirmBinding
	pending     *model.Student
	statusMsg   string
	width       int
	height      int
}

// New creates a new student list model.
func New(s Deleter, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, StudentDelegate{}, width, height-2)
	l.Title = "Students"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("student", "students")

	si := textinput.New()
	si.Placeholder = "search name or code..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		searchInput: si,
		cb:          &confirmBinding{},
		width:       width,
		height:      height,
	}
}

// SetStudents replaces the list contents, keeping the current search.
func (m *Model) SetStudents(students []model.Student) tea.Cmd {
	m.students = students
	return m.applyFilter()
}

// Count returns the number of students known to the list.
func (m Model) Count() int {
	return len(m.students)
}

// SelectedStudent returns the highlighted student.
func (m Model) SelectedStudent() (model.Student, bool) {
	item, ok := m.list.SelectedItem().(StudentItem)
	if !ok {
		return model.Student{}, false
	}
	return item.Student, true
}

// Capturing reports whether the screen is consuming raw key input (search
// box or confirmation), so global shortcuts must not fire.
func (m Model) Capturing() bool {
	return m.searchMode || m.confirmForm != nil
}

func (m *Model) applyFilter() tea.Cmd {
	q := strings.ToLower(strings.TrimSpace(m.query))
	items := make([]list.Item, 0, len(m.students))
	for _, st := range m.students {
		item := StudentItem{Student: st}
		if q != "" && !strings.Contains(strings.ToLower(item.FilterValue()), q) {
			continue
		}
		items = append(items, item)
	}
	return m.list.SetItems(items)
}

// Update handles messages for the student list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case studentDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Deleted %s", msg.name)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.confirmForm != nil:
			return m.updateConfirm(msg)
		case m.searchMode:
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.confirmForm != nil {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		return m, m.applyFilter()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.query = m.searchInput.Value()
	return m, tea.Batch(cmd, m.applyFilter())
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if st, ok := m.SelectedStudent(); ok {
			return m, ui.Navigate(route.StudentReportFor(st.StudentCode))
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m, ui.Navigate(route.AddStudent())

	case key.Matches(msg, m.keys.Edit):
		if st, ok := m.SelectedStudent(); ok {
			return m, ui.Navigate(route.EditStudent(st.StudentCode))
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		st, ok := m.SelectedStudent()
		if !ok {
			return m, nil
		}
		m.pending = &st
		m.cb.confirm = false
		m.confirmForm = m.buildConfirmForm(st)
		return m, m.confirmForm.Init()

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		if m.query != "" {
			m.query = ""
			m.searchInput.Reset()
			return m, m.applyFilter()
		}
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) buildConfirmForm(st model.Student) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s (%s)?", st.Name, st.StudentCode)).
				Description("All attendance records of this student are deleted too.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.cb.confirm),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.confirmForm = nil
		if m.cb.confirm && m.pending != nil {
			st := *m.pending
			m.pending = nil
			return m, m.deleteStudent(st)
		}
		m.pending = nil
		return m, nil
	case huh.StateAborted:
		m.confirmForm = nil
		m.pending = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) deleteStudent(st model.Student) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteStudent(context.Background(), st.StudentCode)
		return studentDeletedMsg{name: st.Name, err: err}
	}
}

// View renders the student list.
func (m Model) View() string {
	if m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}

	var body string
	switch {
	case len(m.students) == 0:
		body = m.renderEmptyState("No students yet.\n\nPress n to register the first one.")
	case len(m.list.Items()) == 0:
		body = m.renderEmptyState(fmt.Sprintf("No student matches %q.", m.query))
	default:
		body = m.list.View()
	}

	var parts []string
	if m.searchMode {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	} else if m.query != "" {
		parts = append(parts, theme.DimmedStyle.Padding(0, 1).Render("filter: "+m.query))
	}
	parts = append(parts, body)
	if m.statusMsg != "" {
		parts = append(parts, theme.MessageStyle.Padding(0, 1).Render(m.statusMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderEmptyState shows guidance text when no students are listed.
func (m Model) renderEmptyState(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
