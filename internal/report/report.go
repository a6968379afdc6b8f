// Package report aggregates attendance into per-student and per-class
// monthly reports.
package report

import (
	"context"
	"fmt"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/store"
)

// Store is the subset of store.Store reports read from.
type Store interface {
	GetStudent(ctx context.Context, code string) (*model.Student, error)
	GetAttendanceForStudent(ctx context.Context, code string, r model.DateRange) ([]model.Attendance, error)
	CountAttendance(ctx context.Context, filter store.AttendanceFilter) (model.AttendanceCounts, error)
	SummarizeAttendance(ctx context.Context, r model.DateRange) ([]model.StudentSummary, error)
}

// StudentReport is one student's attendance over a month.
type StudentReport struct {
	Student model.Student
	Month   model.DateRange
	Counts  model.AttendanceCounts
	Records []model.Attendance
}

// ClassReport is every student's attendance over a month.
type ClassReport struct {
	Month  model.DateRange
	Rows   []model.StudentSummary
	Totals model.AttendanceCounts
}

// Rate returns the class-wide presence ratio.
func (r ClassReport) Rate() float64 {
	return r.Totals.Rate()
}

// Builder assembles reports from the store.
type Builder struct {
	store Store
}

// NewBuilder returns a report builder reading from s.
func NewBuilder(s Store) *Builder {
	return &Builder{store: s}
}

// Student builds the report of one student for month.
func (b *Builder) Student(ctx context.Context, code string, month model.DateRange) (*StudentReport, error) {
	st, err := b.store.GetStudent(ctx, code)
	if err != nil {
		return nil, err
	}

	counts, err := b.store.CountAttendance(ctx, store.AttendanceFilter{
		StudentCode: &code,
		Range:       month,
	})
	if err != nil {
		return nil, fmt.Errorf("counting attendance of %s: %w", code, err)
	}

	records, err := b.store.GetAttendanceForStudent(ctx, code, month)
	if err != nil {
		return nil, fmt.Errorf("loading attendance of %s: %w", code, err)
	}

	return &StudentReport{
		Student: *st,
		Month:   month,
		Counts:  counts,
		Records: records,
	}, nil
}

// Class builds the report of every student for month.
func (b *Builder) Class(ctx context.Context, month model.DateRange) (*ClassReport, error) {
	rows, err := b.store.SummarizeAttendance(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("summarizing month: %w", err)
	}

	r := &ClassReport{Month: month, Rows: rows}
	for _, row := range rows {
		r.Totals = r.Totals.Add(row.Counts)
	}
	return r, nil
}
