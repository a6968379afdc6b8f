package studentlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/report"
	"github.com/nhle/tpq-attendance/internal/theme"
)

// StudentItem wraps a model.Student so it can be used in a bubbles/list.
type StudentItem struct {
	Student model.Student
}

// FilterValue returns the string used for filtering.
func (i StudentItem) FilterValue() string {
	return i.Student.StudentCode + " " + i.Student.Name
}

// Title returns the student name.
func (i StudentItem) Title() string { return i.Student.Name }

// Description returns the code and current progress.
func (i StudentItem) Description() string {
	parts := []string{i.Student.StudentCode, report.FormatProgress(i.Student.Progress())}
	if i.Student.Position != nil && *i.Student.Position != "" {
		parts = append(parts, *i.Student.Position)
	}
	return strings.Join(parts, " | ")
}

// StudentDelegate renders one student per line.
type StudentDelegate struct{}

// Height returns the number of lines each item takes.
func (d StudentDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d StudentDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d StudentDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a single student line.
func (d StudentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(StudentItem)
	if !ok {
		return
	}
	st := si.Student

	gender := " "
	if st.Gender != nil {
		gender = *st.Gender
	}

	code := theme.DimmedStyle.Render(fmt.Sprintf("%-10s", st.StudentCode))
	progress := theme.DimmedStyle.Render(report.FormatProgress(st.Progress()))
	line := fmt.Sprintf("%s %s  %s", code, gender, st.Name)

	maxName := m.Width() - lipgloss.Width(line) - lipgloss.Width(progress) - 4
	if maxName > 0 {
		line += strings.Repeat(" ", maxName) + progress
	}

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}
