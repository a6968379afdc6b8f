package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/store"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Day returns the attendance key for the given local calendar date.
func Day(year int, month time.Month, day int) int64 {
	return model.DayKey(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
}

// SeedStudents upserts the given students, failing the test on error.
func SeedStudents(t *testing.T, s store.Store, students ...model.Student) {
	t.Helper()
	for _, st := range students {
		if err := s.UpsertStudent(context.Background(), st); err != nil {
			t.Fatalf("seeding student %s: %v", st.StudentCode, err)
		}
	}
}
