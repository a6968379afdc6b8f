package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/tpq-attendance/internal/model"
)

// UpsertStudent inserts a student or updates the existing row with the same
// code in place. The row is never replaced, so the student's attendance
// history survives an edit.
func (s *SQLiteStore) UpsertStudent(ctx context.Context, student model.Student) error {
	student.StudentCode = strings.TrimSpace(student.StudentCode)
	student.Name = strings.TrimSpace(student.Name)
	if err := model.Validate(student); err != nil {
		return err
	}
	if student.CreatedAt == 0 {
		student.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO students (`+studentColumns+`) VALUES (
			:student_code, :name, :created_at, :gender, :birth_date,
			:position, :iqro_volume, :iqro_page, :quran_surah, :quran_ayat
		)
		ON CONFLICT(student_code) DO UPDATE SET
			name        = excluded.name,
			gender      = excluded.gender,
			birth_date  = excluded.birth_date,
			position    = excluded.position,
			iqro_volume = excluded.iqro_volume,
			iqro_page   = excluded.iqro_page,
			quran_surah = excluded.quran_surah,
			quran_ayat  = excluded.quran_ayat`,
		student,
	)
	if err != nil {
		return fmt.Errorf("upserting student %s: %w", student.StudentCode, err)
	}

	s.changes.notify()
	return nil
}

// GetStudent retrieves a student by code. It returns ErrNotFound when no
// student has that code.
func (s *SQLiteStore) GetStudent(ctx context.Context, code string) (*model.Student, error) {
	var st model.Student
	err := s.db.GetContext(ctx, &st,
		"SELECT "+studentColumns+" FROM students WHERE student_code = ?", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting student %s: %w", code, err)
	}
	return &st, nil
}

// ListStudents returns every student ordered by name.
func (s *SQLiteStore) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := s.db.SelectContext(ctx, &students,
		"SELECT "+studentColumns+" FROM students ORDER BY name COLLATE NOCASE, student_code")
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return students, nil
}

// DeleteStudent removes a student. CASCADE removes its attendance records.
func (s *SQLiteStore) DeleteStudent(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE student_code = ?", code)
	if err != nil {
		return fmt.Errorf("deleting student %s: %w", code, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("student %s: %w", code, ErrNotFound)
	}

	s.changes.notify()
	return nil
}

// UpdateStudentProgress sets a student's current reading position.
func (s *SQLiteStore) UpdateStudentProgress(ctx context.Context, code string, p model.Progress) error {
	if err := updateProgress(ctx, s.db, code, p); err != nil {
		return err
	}
	s.changes.notify()
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateProgress(ctx context.Context, e execer, code string, p model.Progress) error {
	result, err := e.ExecContext(ctx, `
		UPDATE students SET
			iqro_volume = ?, iqro_page = ?, quran_surah = ?, quran_ayat = ?
		WHERE student_code = ?`,
		p.IqroVolume, p.IqroPage, p.QuranSurah, p.QuranAyat, code,
	)
	if err != nil {
		return fmt.Errorf("updating progress of %s: %w", code, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("student %s: %w", code, ErrNotFound)
	}
	return nil
}
