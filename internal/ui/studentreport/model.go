package studentreport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/report"
	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/store"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// Builder builds one student's monthly report.
type Builder interface {
	Student(ctx context.Context, code string, month model.DateRange) (*report.StudentReport, error)
}

type reportLoadedMsg struct {
	code   string
	report *report.StudentReport
	err    error
}

// Model is the per-student report screen.
type Model struct {
	builder  Builder
	keys     *keys.KeyMap
	viewport viewport.Model

	code   string
	month  time.Time
	report *report.StudentReport
	err    error

	width  int
	height int
}

// New creates the student report screen.
func New(b Builder, k *keys.KeyMap, width, height int) Model {
	return Model{
		builder:  b,
		keys:     k,
		viewport: viewport.New(width, max(height-4, 1)),
		month:    time.Now(),
		width:    width,
		height:   height,
	}
}

// Open shows the report of the student with code for the current month.
func (m *Model) Open(code string, now time.Time) tea.Cmd {
	m.code = code
	m.month = now
	m.report = nil
	m.err = nil
	return m.load()
}

// Reload refreshes the open report.
func (m *Model) Reload() tea.Cmd {
	if m.code == "" {
		return nil
	}
	return m.load()
}

func (m *Model) load() tea.Cmd {
	b := m.builder
	code := m.code
	month := model.MonthRange(m.month)
	return func() tea.Msg {
		r, err := b.Student(context.Background(), code, month)
		return reportLoadedMsg{code: code, report: r, err: err}
	}
}

// Update handles messages for the report screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.code != m.code {
			return m, nil
		}
		m.report, m.err = msg.report, msg.err
		m.viewport.SetContent(m.content())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, ui.Back()
		case key.Matches(msg, m.keys.PrevMonth):
			m.month = m.month.AddDate(0, -1, 0)
			return m, m.load()
		case key.Matches(msg, m.keys.NextMonth):
			m.month = m.month.AddDate(0, 1, 0)
			return m, m.load()
		case key.Matches(msg, m.keys.Edit):
			return m, ui.Navigate(route.EditStudent(m.code))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) content() string {
	if m.err != nil {
		if errors.Is(m.err, store.ErrNotFound) {
			return theme.ErrorStyle.Render(fmt.Sprintf("No student with code %q.", m.code))
		}
		return theme.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.report == nil {
		return theme.DimmedStyle.Render("Loading...")
	}

	r := m.report
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(fmt.Sprintf("%s (%s)", r.Student.Name, r.Student.StudentCode)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Current progress: %s\n", report.FormatProgress(r.Student.Progress()))
	if r.Student.Position != nil {
		fmt.Fprintf(&b, "Position: %s\n", *r.Student.Position)
	}
	b.WriteString("\n")

	c := r.Counts
	fmt.Fprintf(&b, "%s: present %d, absent %d, passed %d, retake %d  %s\n\n",
		report.FormatMonth(r.Month), c.Present, c.Absent(), c.Passed, c.Retake,
		theme.RateStyle(c.Rate()).Render(report.FormatRate(c.Rate())))

	if len(r.Records) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No attendance recorded this month."))
		return b.String()
	}
	for _, rec := range r.Records {
		status := "absent "
		if rec.IsPresent {
			status = "present"
		}
		line := fmt.Sprintf("%s  %s  %-20s %s",
			model.FormatDay(rec.Date),
			theme.PresenceStyle(rec.IsPresent).Render(status),
			report.FormatProgress(rec.Progress()),
			theme.ResultStyle(rec.IsPassed).Render(report.FormatPassed(rec)),
		)
		if rec.Note != nil {
			line += "  " + theme.DimmedStyle.Render(*rec.Note)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// View renders the report.
func (m Model) View() string {
	hint := theme.HelpStyle.Render("h/l month | e edit student | esc back")
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), hint),
	)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 1)
	m.viewport.Height = max(height-4, 1)
}
