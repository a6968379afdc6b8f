package store

import (
	"context"
	"fmt"

	"github.com/nhle/tpq-attendance/internal/model"
)

const countsSelect = `
	COUNT(a.date) AS sessions,
	COALESCE(SUM(CASE WHEN a.is_present = 1 THEN 1 ELSE 0 END), 0) AS present,
	COALESCE(SUM(CASE WHEN a.is_passed = 1 THEN 1 ELSE 0 END), 0) AS passed,
	COALESCE(SUM(CASE WHEN a.is_passed = 0 THEN 1 ELSE 0 END), 0) AS retake`

// CountAttendance aggregates the records matching filter.
func (s *SQLiteStore) CountAttendance(ctx context.Context, filter AttendanceFilter) (model.AttendanceCounts, error) {
	query := "SELECT " + countsSelect + " FROM attendance a WHERE a.date >= ? AND a.date < ?"
	args := []any{filter.Range.From, filter.Range.To}
	if filter.StudentCode != nil {
		query += " AND a.student_code = ?"
		args = append(args, *filter.StudentCode)
	}

	var counts model.AttendanceCounts
	if err := s.db.GetContext(ctx, &counts, query, args...); err != nil {
		return model.AttendanceCounts{}, fmt.Errorf("counting attendance: %w", err)
	}
	return counts, nil
}

// summaryRow is one row of the per-student summary query.
type summaryRow struct {
	model.Student
	model.AttendanceCounts
}

// SummarizeAttendance returns every student with their counts within r,
// ordered by name. Students without records in r have zero counts.
func (s *SQLiteStore) SummarizeAttendance(ctx context.Context, r model.DateRange) ([]model.StudentSummary, error) {
	var rows []summaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT s.student_code, s.name, s.created_at, s.gender, s.birth_date,
			s.position, s.iqro_volume, s.iqro_page, s.quran_surah, s.quran_ayat,
			`+countsSelect+`
		FROM students s
		LEFT JOIN attendance a
			ON a.student_code = s.student_code AND a.date >= ? AND a.date < ?
		GROUP BY s.student_code
		ORDER BY s.name COLLATE NOCASE, s.student_code`,
		r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("summarizing attendance: %w", err)
	}

	summaries := make([]model.StudentSummary, len(rows))
	for i, row := range rows {
		summaries[i] = model.StudentSummary{Student: row.Student, Counts: row.AttendanceCounts}
	}
	return summaries, nil
}
