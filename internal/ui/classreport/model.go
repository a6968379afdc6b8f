package classreport

import (
	"context"
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
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// Builder builds the monthly class report.
type Builder interface {
	Class(ctx context.Context, month model.DateRange) (*report.ClassReport, error)
}

type reportLoadedMsg struct {
	month  model.DateRange
	report *report.ClassReport
	err    error
}

// Model is the class report screen.
type Model struct {
	builder  Builder
	keys     *keys.KeyMap
	viewport viewport.Model

	month  time.Time
	report *report.ClassReport
	err    error
	cursor int

	width  int
	height int
}

// New creates the class report screen.
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

// Open shows the report of the month containing now.
func (m *Model) Open(now time.Time) tea.Cmd {
	m.month = now
	return m.load()
}

// Reload refreshes the report for the month on screen.
func (m *Model) Reload() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	b := m.builder
	month := model.MonthRange(m.month)
	return func() tea.Msg {
		r, err := b.Class(context.Background(), month)
		return reportLoadedMsg{month: month, report: r, err: err}
	}
}

// Update handles messages for the class report.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.month != model.MonthRange(m.month) {
			return m, nil
		}
		m.report, m.err = msg.report, msg.err
		if m.report != nil {
			m.cursor = min(m.cursor, max(len(m.report.Rows)-1, 0))
		}
		m.viewport.SetContent(m.content())
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
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if m.report != nil && m.cursor < len(m.report.Rows) {
				code := m.report.Rows[m.cursor].Student.StudentCode
				return m, ui.Navigate(route.StudentReportFor(code))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	if m.report == nil || len(m.report.Rows) == 0 {
		return
	}
	n := len(m.report.Rows)
	m.cursor = (m.cursor + delta + n) % n
	m.viewport.SetContent(m.content())

	// Keep the cursor row visible; rows start after the two header lines.
	line := m.cursor + 2
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m Model) content() string {
	if m.err != nil {
		return theme.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.report == nil {
		return theme.DimmedStyle.Render("Loading...")
	}

	r := m.report
	var b strings.Builder
	b.WriteString(theme.TitleStyle.UnsetMarginBottom().Render(
		fmt.Sprintf("%s  %s", report.FormatMonth(r.Month), theme.RateStyle(r.Rate()).Render(report.FormatRate(r.Rate())))))
	b.WriteString("\n")
	b.WriteString(theme.DimmedStyle.Render(fmt.Sprintf("%-10s %-24s %7s %7s %7s %7s %6s",
		"Code", "Name", "Present", "Absent", "Passed", "Retake", "Rate")))
	b.WriteString("\n")

	for i, row := range r.Rows {
		c := row.Counts
		line := fmt.Sprintf("%-10s %-24s %7d %7d %7d %7d %6s",
			row.Student.StudentCode, row.Student.Name,
			c.Present, c.Absent(), c.Passed, c.Retake, report.FormatRate(c.Rate()))
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	t := r.Totals
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d students, %d sessions recorded, %d present, %d passed, %d retake",
		len(r.Rows), t.Sessions, t.Present, t.Passed, t.Retake))
	return b.String()
}

// View renders the class report.
func (m Model) View() string {
	hint := theme.HelpStyle.Render("h/l month | j/k select | enter student report | esc back")
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
