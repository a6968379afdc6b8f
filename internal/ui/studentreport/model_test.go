package studentreport

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/report"
	"github.com/nhle/tpq-attendance/internal/store"
	"github.com/nhle/tpq-attendance/internal/ui"
)

type fakeBuilder struct {
	months []model.DateRange
}

func (f *fakeBuilder) Student(_ context.Context, code string, month model.DateRange) (*report.StudentReport, error) {
	f.months = append(f.months, month)
	if code != "S1" {
		return nil, fmt.Errorf("student %s: %w", code, store.ErrNotFound)
	}
	return &report.StudentReport{
		Student: model.Student{StudentCode: "S1", Name: "Ali"},
		Month:   month,
		Counts:  model.AttendanceCounts{Sessions: 2, Present: 1},
		Records: []model.Attendance{{StudentCode: "S1", Date: month.From, IsPresent: true}},
	}, nil
}

func TestOpenLoadsCurrentMonth(t *testing.T) {
	b := &fakeBuilder{}
	m := New(b, keys.DefaultKeyMap(), 100, 30)
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.Local)

	cmd := m.Open("S1", now)
	m, _ = m.Update(cmd())

	require.Len(t, b.months, 1)
	assert.Equal(t, model.MonthRange(now), b.months[0])
	assert.Contains(t, m.content(), "Ali (S1)")
	assert.Contains(t, m.content(), "present 1, absent 1")
}

func TestMonthNavigation(t *testing.T) {
	b := &fakeBuilder{}
	m := New(b, keys.DefaultKeyMap(), 100, 30)
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.Local)
	m.Open("S1", now)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, model.MonthRange(now.AddDate(0, -1, 0)), b.months[len(b.months)-1])
}

func TestUnknownStudent(t *testing.T) {
	m := New(&fakeBuilder{}, keys.DefaultKeyMap(), 100, 30)
	cmd := m.Open("ghost", time.Now())
	m, _ = m.Update(cmd())
	assert.Contains(t, m.content(), `No student with code "ghost"`)
}

func TestBackKey(t *testing.T) {
	m := New(&fakeBuilder{}, keys.DefaultKeyMap(), 100, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.BackMsg{}, cmd())
}
