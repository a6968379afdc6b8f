package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/store"
)

// ErrCodeTaken is returned when a new student reuses an existing code.
var ErrCodeTaken = errors.New("student code is already in use")

// studentSavedMsg is sent after the student form was persisted.
type studentSavedMsg struct {
	student model.Student
	isNew   bool
	err     error
}

// studentLoadedMsg carries the student opened for editing.
type studentLoadedMsg struct {
	student *model.Student
	err     error
}

// saveStudent persists a submitted student. Adding a student never
// overwrites an existing one with the same code.
func (m Model) saveStudent(st model.Student, isNew bool) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if isNew {
			_, err := s.GetStudent(ctx, st.StudentCode)
			switch {
			case err == nil:
				return studentSavedMsg{student: st, isNew: isNew,
					err: fmt.Errorf("%s: %w", st.StudentCode, ErrCodeTaken)}
			case !errors.Is(err, store.ErrNotFound):
				return studentSavedMsg{student: st, isNew: isNew, err: err}
			}
		}
		err := s.UpsertStudent(ctx, st)
		return studentSavedMsg{student: st, isNew: isNew, err: err}
	}
}

// loadStudent fetches the student to edit.
func (m Model) loadStudent(code string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		st, err := s.GetStudent(context.Background(), code)
		return studentLoadedMsg{student: st, err: err}
	}
}
