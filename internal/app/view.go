package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/theme"
)

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.cfg.School.Name, m.headerStatus())
	nav := m.layout.RenderNav(m.route.Name)
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, nav, m.renderContent(), statusBar)
}

// renderContent returns the active screen, or the overlay on top of it.
func (m Model) renderContent() string {
	switch m.overlay {
	case OverlayHelp:
		return m.helpView.View()
	case OverlayCommand:
		return lipgloss.JoinVertical(lipgloss.Left, m.commandView.View(), m.screenView())
	}
	return m.screenView()
}

func (m Model) screenView() string {
	switch m.route.Name {
	case route.StudentList:
		return m.students.View()
	case route.AddEditStudent:
		return m.form.View()
	case route.Attendance:
		return m.attendance.View()
	case route.StudentReport:
		return m.studentReport.View()
	case route.Report:
		return m.classReport.View()
	case route.Settings:
		return m.settings.View()
	default:
		return ""
	}
}

// headerStatus summarizes the class and the date on the right of the header.
func (m Model) headerStatus() string {
	status := fmt.Sprintf("%d students | %s", m.students.Count(), m.now().Format("Mon 2 Jan 2006"))
	if last := m.watcher.LastUpdate(); !last.IsZero() && m.now().Sub(last) > time.Hour {
		status += " | updated " + last.Format("15:04")
	}
	return status
}

// statusLine shows the last status message, or key hints for the route.
func (m Model) statusLine() string {
	if m.status != "" {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.status)
		}
		return m.status
	}
	return m.keyHints()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.overlay {
	case OverlayHelp:
		return "? close help | esc back"
	case OverlayCommand:
		return "enter go | tab complete | esc close"
	}

	switch m.route.Name {
	case route.AddEditStudent:
		return "enter next | shift+tab previous | esc cancel"
	case route.Attendance:
		return "space present | p pass/retake | e progress | ctrl+s save | h/l day | t today | esc back"
	case route.StudentReport:
		return "h/l month | e edit | esc back"
	case route.Report:
		return "h/l month | enter student | esc back"
	case route.Settings:
		return "e edit | esc back"
	default:
		return "q quit | ? help | : go to | n add | e edit | d delete | / search | a attendance | r report | s settings"
	}
}
