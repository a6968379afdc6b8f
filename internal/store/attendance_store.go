package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/tpq-attendance/internal/model"
)

const upsertAttendanceSQL = `
	INSERT INTO attendance (` + attendanceColumns + `) VALUES (
		:student_code, :date, :is_present, :created_at,
		:iqro_volume, :iqro_page, :quran_surah, :quran_ayat, :is_passed, :note
	)
	ON CONFLICT(student_code, date) DO UPDATE SET
		is_present  = excluded.is_present,
		created_at  = excluded.created_at,
		iqro_volume = excluded.iqro_volume,
		iqro_page   = excluded.iqro_page,
		quran_surah = excluded.quran_surah,
		quran_ayat  = excluded.quran_ayat,
		is_passed   = excluded.is_passed,
		note        = excluded.note`

// prepareAttendance normalizes the record's date to the start of its day
// and stamps CreatedAt when unset.
func prepareAttendance(a model.Attendance) (model.Attendance, error) {
	if a.Date != 0 {
		a.Date = model.NormalizeDay(a.Date)
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().UnixMilli()
	}
	if err := model.Validate(a); err != nil {
		return a, err
	}
	return a, nil
}

// UpsertAttendance writes the record for (student, day), replacing any
// existing payload for that key.
func (s *SQLiteStore) UpsertAttendance(ctx context.Context, a model.Attendance) error {
	a, err := prepareAttendance(a)
	if err != nil {
		return err
	}
	if _, err := s.db.NamedExecContext(ctx, upsertAttendanceSQL, a); err != nil {
		return fmt.Errorf("upserting attendance %s on %s: %w",
			a.StudentCode, model.FormatDay(a.Date), err)
	}
	return nil
}

// GetAttendance retrieves one student's record for a day, or ErrNotFound.
func (s *SQLiteStore) GetAttendance(ctx context.Context, code string, date int64) (*model.Attendance, error) {
	var a model.Attendance
	err := s.db.GetContext(ctx, &a,
		"SELECT "+attendanceColumns+" FROM attendance WHERE student_code = ? AND date = ?",
		code, model.NormalizeDay(date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attendance %s on %s: %w", code, model.FormatDay(date), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting attendance %s: %w", code, err)
	}
	return &a, nil
}

// GetAttendanceForDate returns every record of a day ordered by student code.
func (s *SQLiteStore) GetAttendanceForDate(ctx context.Context, date int64) ([]model.Attendance, error) {
	var records []model.Attendance
	err := s.db.SelectContext(ctx, &records,
		"SELECT "+attendanceColumns+" FROM attendance WHERE date = ? ORDER BY student_code",
		model.NormalizeDay(date))
	if err != nil {
		return nil, fmt.Errorf("querying attendance for %s: %w", model.FormatDay(date), err)
	}
	return records, nil
}

// GetAttendanceForStudent returns a student's records within r, newest first.
func (s *SQLiteStore) GetAttendanceForStudent(
	ctx context.Context,
	code string,
	r model.DateRange,
) ([]model.Attendance, error) {
	var records []model.Attendance
	err := s.db.SelectContext(ctx, &records, `
		SELECT `+attendanceColumns+` FROM attendance
		WHERE student_code = ? AND date >= ? AND date < ?
		ORDER BY date DESC`,
		code, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("querying attendance of %s: %w", code, err)
	}
	return records, nil
}

// SaveSession upserts every record of a session and applies its progress
// promotions in a single transaction.
func (s *SQLiteStore) SaveSession(ctx context.Context, session model.Session) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertAttendanceSQL)
	if err != nil {
		return fmt.Errorf("preparing attendance upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range session.Records {
		if rec.Date == 0 {
			rec.Date = session.Date
		}
		prepared, err := prepareAttendance(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, prepared); err != nil {
			return fmt.Errorf("upserting attendance %s: %w", rec.StudentCode, err)
		}
	}

	for _, p := range session.Promotions {
		if err := updateProgress(ctx, tx, p.StudentCode, p.Progress); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	if len(session.Promotions) > 0 {
		s.changes.notify()
	}
	return nil
}

var _ execer = (*sqlx.Tx)(nil)
