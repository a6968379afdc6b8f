// Package attendance builds the daily attendance sheet and turns the
// teacher's marks into a persisted session.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
)

// Store is the subset of store.Store the service needs.
type Store interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	GetAttendanceForDate(ctx context.Context, date int64) ([]model.Attendance, error)
	SaveSession(ctx context.Context, session model.Session) error
}

// Entry is the teacher's mark for one student on one day.
type Entry struct {
	StudentCode string
	IsPresent   bool
	IsPassed    *bool
	Progress    model.Progress
	Note        *string
}

// CyclePass steps the pass flag through unmarked, passed and retake.
func (e *Entry) CyclePass() {
	switch {
	case e.IsPassed == nil:
		v := true
		e.IsPassed = &v
	case *e.IsPassed:
		v := false
		e.IsPassed = &v
	default:
		e.IsPassed = nil
	}
}

// Promotes reports whether saving the entry moves the student's current
// progress forward.
func (e Entry) Promotes() bool {
	return e.IsPresent && e.IsPassed != nil && *e.IsPassed && !e.Progress.IsZero()
}

// Row is one line of the sheet: a student and the mark recorded for the day.
type Row struct {
	Student model.Student
	// Recorded is false when the student has no record for the day yet.
	Recorded bool
	Entry    Entry
}

// Sheet lists every student for one day.
type Sheet struct {
	Date int64
	Rows []Row
}

// Service prepares and submits attendance sessions.
type Service struct {
	store Store
	log   logger.Logger
	now   func() time.Time
}

// NewService returns a service backed by s.
func NewService(s Store, log logger.Logger) *Service {
	return &Service{store: s, log: log, now: time.Now}
}

// Sheet returns one row per student for the day containing day. Students
// without a record start absent with their current progress filled in.
func (s *Service) Sheet(ctx context.Context, day time.Time) (*Sheet, error) {
	date := model.DayKey(day)

	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	records, err := s.store.GetAttendanceForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("loading attendance: %w", err)
	}

	byCode := make(map[string]model.Attendance, len(records))
	for _, r := range records {
		byCode[r.StudentCode] = r
	}

	sheet := &Sheet{Date: date, Rows: make([]Row, 0, len(students))}
	for _, st := range students {
		row := Row{
			Student: st,
			Entry: Entry{
				StudentCode: st.StudentCode,
				Progress:    st.Progress(),
			},
		}
		if rec, ok := byCode[st.StudentCode]; ok {
			row.Recorded = true
			row.Entry = Entry{
				StudentCode: st.StudentCode,
				IsPresent:   rec.IsPresent,
				IsPassed:    rec.IsPassed,
				Progress:    rec.Progress(),
				Note:        rec.Note,
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// Submit records entries for the day containing day. A present entry marked
// passed with progress promotes the student to that progress. Everything is
// written in one transaction.
func (s *Service) Submit(ctx context.Context, day time.Time, entries []Entry) (model.Session, error) {
	date := model.DayKey(day)
	createdAt := s.now().UnixMilli()

	session := model.Session{Date: date}
	for _, e := range entries {
		rec := model.Attendance{
			StudentCode: e.StudentCode,
			Date:        date,
			IsPresent:   e.IsPresent,
			CreatedAt:   createdAt,
			IqroVolume:  e.Progress.IqroVolume,
			IqroPage:    e.Progress.IqroPage,
			QuranSurah:  e.Progress.QuranSurah,
			QuranAyat:   e.Progress.QuranAyat,
			IsPassed:    e.IsPassed,
			Note:        e.Note,
		}
		if !e.IsPresent {
			rec.IsPassed = nil
		}
		if err := model.Validate(rec); err != nil {
			return model.Session{}, fmt.Errorf("entry for %s: %w", e.StudentCode, err)
		}
		session.Records = append(session.Records, rec)

		if e.Promotes() {
			session.Promotions = append(session.Promotions, model.Promotion{
				StudentCode: e.StudentCode,
				Progress:    e.Progress,
			})
		}
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("saving session %s: %w", model.FormatDay(date), err)
	}

	s.log.Info("attendance saved",
		"date", model.FormatDay(date),
		"records", len(session.Records),
		"promotions", len(session.Promotions),
	)
	return session, nil
}
