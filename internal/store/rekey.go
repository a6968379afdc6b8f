package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/tpq-attendance/internal/logger"
)

// FallbackCodePrefix is prepended to the old numeric id of a student that
// had no code when the table was re-keyed.
const FallbackCodePrefix = "STU"

// rekeyPlan changes the key of a group of related tables. Tables are listed
// children first; recreate lists DDL parents first.
type rekeyPlan struct {
	tables     []string
	recreate   []string
	repopulate func(ctx context.Context, tx *sqlx.Tx) error
}

func backupName(table string) string { return table + "_backup" }

// rekeyTables snapshots plan.tables, drops and recreates them, repopulates
// them from the snapshots and discards the snapshots once every row has been
// carried over and foreign keys hold. It must run inside a transaction.
func rekeyTables(ctx context.Context, tx *sqlx.Tx, plan rekeyPlan) error {
	for _, t := range plan.tables {
		stmt := fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s", backupName(t), t)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("snapshotting %s: %w", t, err)
		}
	}
	for _, t := range plan.tables {
		if _, err := tx.ExecContext(ctx, "DROP TABLE "+t); err != nil {
			return fmt.Errorf("dropping %s: %w", t, err)
		}
	}
	for _, ddl := range plan.recreate {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("recreating schema: %w", err)
		}
	}

	if err := plan.repopulate(ctx, tx); err != nil {
		return fmt.Errorf("repopulating: %w", err)
	}

	for _, t := range plan.tables {
		var before, after int
		if err := tx.GetContext(ctx, &before, "SELECT COUNT(*) FROM "+backupName(t)); err != nil {
			return fmt.Errorf("counting %s: %w", backupName(t), err)
		}
		if err := tx.GetContext(ctx, &after, "SELECT COUNT(*) FROM "+t); err != nil {
			return fmt.Errorf("counting %s: %w", t, err)
		}
		if before != after {
			return fmt.Errorf("%s: %d rows before re-key, %d after", t, before, after)
		}
	}
	if err := checkForeignKeys(ctx, tx); err != nil {
		return err
	}

	for _, t := range plan.tables {
		if _, err := tx.ExecContext(ctx, "DROP TABLE "+backupName(t)); err != nil {
			return fmt.Errorf("discarding snapshot of %s: %w", t, err)
		}
	}
	return nil
}

// checkForeignKeys fails if PRAGMA foreign_key_check reports any violation.
func checkForeignKeys(ctx context.Context, q sqlx.QueryerContext) error {
	rows, err := q.QueryxContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return fmt.Errorf("checking foreign keys: %w", err)
	}
	defer rows.Close()

	violations := 0
	var table string
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return fmt.Errorf("scanning foreign key violation: %w", err)
		}
		if violations == 0 && len(cols) > 0 {
			table = fmt.Sprint(cols[0])
		}
		violations++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if violations > 0 {
		return fmt.Errorf("%d foreign key violations (first in %s)", violations, table)
	}
	return nil
}

// legacyStudent is a students row as of version 5.
type legacyStudent struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	CreatedAt   int64          `db:"created_at"`
	Gender      sql.NullString `db:"gender"`
	BirthDate   sql.NullInt64  `db:"birth_date"`
	Position    sql.NullString `db:"position"`
	IqroVolume  sql.NullInt64  `db:"iqro_volume"`
	IqroPage    sql.NullInt64  `db:"iqro_page"`
	QuranSurah  sql.NullString `db:"quran_surah"`
	QuranAyat   sql.NullInt64  `db:"quran_ayat"`
	StudentCode sql.NullString `db:"student_code"`
}

// legacyAttendance is an attendance row as of version 5.
type legacyAttendance struct {
	StudentID  int64          `db:"student_id"`
	Date       int64          `db:"date"`
	IsPresent  bool           `db:"is_present"`
	CreatedAt  int64          `db:"created_at"`
	IqroVolume sql.NullInt64  `db:"iqro_volume"`
	IqroPage   sql.NullInt64  `db:"iqro_page"`
	QuranSurah sql.NullString `db:"quran_surah"`
	QuranAyat  sql.NullInt64  `db:"quran_ayat"`
	IsPassed   sql.NullBool   `db:"is_passed"`
	Note       sql.NullString `db:"note"`
}

// codeRename records a student whose code was synthesized or changed.
type codeRename struct {
	ID     int64
	From   string
	To     string
	Reason string
}

// assignStudentCodes maps every legacy id to its new primary key. Rows keep
// their own code when it is set and unique. Rows without one get prefix+id.
// Any code that would collide is suffixed "-n" with the smallest free n, so
// the result is deterministic for a given input.
func assignStudentCodes(students []legacyStudent, prefix string) (map[int64]string, []codeRename) {
	reserved := make(map[string]bool, len(students))
	for _, s := range students {
		if hasCode(s) {
			reserved[s.StudentCode.String] = true
		}
	}

	codes := make(map[int64]string, len(students))
	used := make(map[string]bool, len(students))
	var renames []codeRename

	free := func(base string) string {
		for n := 1; ; n++ {
			c := base + "-" + strconv.Itoa(n)
			if !reserved[c] && !used[c] {
				return c
			}
		}
	}

	for _, s := range students {
		if !hasCode(s) {
			continue
		}
		code := s.StudentCode.String
		if used[code] {
			next := free(code)
			renames = append(renames, codeRename{ID: s.ID, From: code, To: next, Reason: "duplicate code"})
			code = next
		}
		codes[s.ID] = code
		used[code] = true
	}

	for _, s := range students {
		if hasCode(s) {
			continue
		}
		code := prefix + strconv.FormatInt(s.ID, 10)
		reason := "missing code"
		if reserved[code] || used[code] {
			code = free(code)
			reason = "missing code, fallback taken"
		}
		renames = append(renames, codeRename{ID: s.ID, From: s.StudentCode.String, To: code, Reason: reason})
		codes[s.ID] = code
		used[code] = true
	}

	return codes, renames
}

func hasCode(s legacyStudent) bool {
	return s.StudentCode.Valid && s.StudentCode.String != ""
}

// rekeyByStudentCode is the version 6 step: students become keyed by
// student_code and attendance follows through its foreign key.
func rekeyByStudentCode(ctx context.Context, tx *sqlx.Tx, log logger.Logger) error {
	return rekeyTables(ctx, tx, rekeyPlan{
		tables:   []string{"attendance", "students"},
		recreate: []string{studentsDDL, attendanceDDL, attendanceIndexDDL},
		repopulate: func(ctx context.Context, tx *sqlx.Tx) error {
			// The AUTOINCREMENT counter of the old key goes with it.
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM sqlite_sequence WHERE name = 'students'"); err != nil {
				return fmt.Errorf("clearing students sequence: %w", err)
			}

			var students []legacyStudent
			if err := tx.SelectContext(ctx, &students,
				"SELECT * FROM students_backup ORDER BY id"); err != nil {
				return fmt.Errorf("reading students snapshot: %w", err)
			}

			codes, renames := assignStudentCodes(students, FallbackCodePrefix)
			for _, r := range renames {
				log.Warn("assigned student code", "id", r.ID, "from", r.From, "to", r.To, "reason", r.Reason)
			}

			if err := copyStudents(ctx, tx, students, codes); err != nil {
				return err
			}
			return copyAttendance(ctx, tx, codes)
		},
	})
}

func copyStudents(ctx context.Context, tx *sqlx.Tx, students []legacyStudent, codes map[int64]string) error {
	stmt, err := tx.PreparexContext(ctx,
		"INSERT INTO students ("+studentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing student insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range students {
		_, err := stmt.ExecContext(ctx,
			codes[s.ID], s.Name, s.CreatedAt,
			s.Gender, s.BirthDate, s.Position,
			s.IqroVolume, s.IqroPage, s.QuranSurah, s.QuranAyat,
		)
		if err != nil {
			return fmt.Errorf("copying student %d: %w", s.ID, err)
		}
	}
	return nil
}

func copyAttendance(ctx context.Context, tx *sqlx.Tx, codes map[int64]string) error {
	var records []legacyAttendance
	if err := tx.SelectContext(ctx, &records,
		"SELECT * FROM attendance_backup ORDER BY student_id, date"); err != nil {
		return fmt.Errorf("reading attendance snapshot: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		"INSERT INTO attendance ("+attendanceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing attendance insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range records {
		code, ok := codes[a.StudentID]
		if !ok {
			return fmt.Errorf("%w: student id %d on %d", ErrOrphanedAttendance, a.StudentID, a.Date)
		}
		_, err := stmt.ExecContext(ctx,
			code, a.Date, boolToInt(a.IsPresent), a.CreatedAt,
			a.IqroVolume, a.IqroPage, a.QuranSurah, a.QuranAyat,
			nullBoolToInt(a.IsPassed), a.Note,
		)
		if err != nil {
			return fmt.Errorf("copying attendance %d/%d: %w", a.StudentID, a.Date, err)
		}
	}
	return nil
}

func nullBoolToInt(b sql.NullBool) any {
	if !b.Valid {
		return nil
	}
	return boolToInt(b.Bool)
}
