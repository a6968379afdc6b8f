package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/tpq-attendance/internal/route"
)

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 21, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 2).ContentHeight())
}

func TestRenderHeaderSpansWidth(t *testing.T) {
	l := NewLayout(60, 24)
	assert.Equal(t, 60, lipgloss.Width(l.RenderHeader("TPQ", "12 students")))
}

func TestRenderNavShowsTopLevelRoutes(t *testing.T) {
	nav := NewLayout(80, 24).RenderNav(route.StudentReport)
	for _, label := range []string{"Students", "Attendance", "Report", "Settings"} {
		assert.True(t, strings.Contains(nav, label), label)
	}
}

func TestRenderWithFrameFillsHeight(t *testing.T) {
	l := NewLayout(40, 10)
	out := l.RenderWithFrame("h", "n", "body", "s")
	assert.Equal(t, 10, lipgloss.Height(out))
}
