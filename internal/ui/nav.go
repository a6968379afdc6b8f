// Package ui holds the pieces shared by every screen: the frame layout,
// navigation messages and form sizing.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tpq-attendance/internal/route"
)

// NavigateMsg asks the app root to switch to Route.
type NavigateMsg struct {
	Route route.Route
}

// Navigate returns a command emitting a NavigateMsg.
func Navigate(r route.Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r} }
}

// BackMsg asks the app root to return to the student list.
type BackMsg struct{}

// Back returns a command emitting a BackMsg.
func Back() tea.Cmd {
	return func() tea.Msg { return BackMsg{} }
}

// StatusMsg carries a transient message for the status bar.
type StatusMsg struct {
	Text string
	Err  error
}

// FormWidth clamps a huh form width to the content area.
func FormWidth(width int) int {
	return min(max(width-4, 40), 100)
}

// FormHeight clamps a huh form height to the content area.
func FormHeight(height int) int {
	return max(height-4, 10)
}
