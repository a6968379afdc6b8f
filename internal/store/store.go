package store

import (
	"context"

	"github.com/nhle/tpq-attendance/internal/model"
)

// AttendanceFilter scopes attendance counts to a date range and,
// optionally, one student.
type AttendanceFilter struct {
	StudentCode *string
	Range       model.DateRange
}

// Store defines the persistence interface for students and their daily
// attendance records.
type Store interface {
	// === Students ===

	UpsertStudent(ctx context.Context, student model.Student) error
	GetStudent(ctx context.Context, code string) (*model.Student, error)
	ListStudents(ctx context.Context) ([]model.Student, error)
	WatchStudents(ctx context.Context) <-chan []model.Student
	DeleteStudent(ctx context.Context, code string) error
	UpdateStudentProgress(ctx context.Context, code string, p model.Progress) error

	// === Attendance ===

	UpsertAttendance(ctx context.Context, a model.Attendance) error
	GetAttendance(ctx context.Context, code string, date int64) (*model.Attendance, error)
	GetAttendanceForDate(ctx context.Context, date int64) ([]model.Attendance, error)
	GetAttendanceForStudent(ctx context.Context, code string, r model.DateRange) ([]model.Attendance, error)
	SaveSession(ctx context.Context, session model.Session) error

	// === Reports ===

	CountAttendance(ctx context.Context, filter AttendanceFilter) (model.AttendanceCounts, error)
	SummarizeAttendance(ctx context.Context, r model.DateRange) ([]model.StudentSummary, error)

	// === Maintenance ===

	SchemaVersion(ctx context.Context) (int, error)
	Verify(ctx context.Context) error
	Backup(ctx context.Context, path string) error
}

var _ Store = (*SQLiteStore)(nil)
