package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/theme"
)

// Layout manages the terminal frame: header, route tabs, content and status
// bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	NavHeight       int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		NavHeight:       1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active screen.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.NavHeight-l.StatusBarHeight, 0)
}

// fill pads rendered to the full width using style's background.
func (l Layout) fill(style lipgloss.Style, left, right string) string {
	gap := max(l.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderHeader renders the school name on the left and status on the right.
func (l Layout) RenderHeader(title, status string) string {
	return l.fill(
		theme.HeaderStyle,
		theme.HeaderStyle.Render(title),
		theme.HeaderStyle.Align(lipgloss.Right).Render(status),
	)
}

// navLabels are the tab captions of the top-level routes.
var navLabels = []struct {
	name  route.Name
	label string
}{
	{route.StudentList, "Students"},
	{route.Attendance, "Attendance"},
	{route.Report, "Report"},
	{route.Settings, "Settings"},
}

// RenderNav renders the route tabs with the active one highlighted. Forms
// and per-student reports highlight the student list.
func (l Layout) RenderNav(active route.Name) string {
	switch active {
	case route.AddEditStudent, route.StudentReport:
		active = route.StudentList
	}

	tabs := make([]string, 0, len(navLabels))
	for _, n := range navLabels {
		if n.name == active {
			tabs = append(tabs, theme.SelectedItemStyle.Render(n.label))
		} else {
			tabs = append(tabs, theme.ListItemStyle.Render(n.label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(strings.Join(tabs, " "))
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fill(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// RenderWithFrame stacks the header, tabs, content and status bar.
func (l Layout) RenderWithFrame(header, nav, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, statusBar)
}
