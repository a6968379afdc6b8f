package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/store"
	"github.com/nhle/tpq-attendance/tests/testutil"
)

func seed(t *testing.T) (*Builder, model.DateRange) {
	t.Helper()
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	testutil.SeedStudents(t, s,
		model.Student{StudentCode: "S1", Name: "Ali", IqroVolume: testutil.Ptr(3), IqroPage: testutil.Ptr(7)},
		model.Student{StudentCode: "S2", Name: "Budi"},
	)

	records := []model.Attendance{
		{StudentCode: "S1", Date: testutil.Day(2024, time.March, 4), IsPresent: true, IsPassed: testutil.Ptr(true)},
		{StudentCode: "S1", Date: testutil.Day(2024, time.March, 5), IsPresent: false},
		{StudentCode: "S1", Date: testutil.Day(2024, time.April, 1), IsPresent: true},
		{StudentCode: "S2", Date: testutil.Day(2024, time.March, 4), IsPresent: true, IsPassed: testutil.Ptr(false)},
	}
	for _, r := range records {
		require.NoError(t, s.UpsertAttendance(ctx, r))
	}

	month, err := model.ParseMonth("2024-03")
	require.NoError(t, err)
	return NewBuilder(s), month
}

func TestStudentReport(t *testing.T) {
	b, month := seed(t)

	r, err := b.Student(context.Background(), "S1", month)
	require.NoError(t, err)
	assert.Equal(t, "Ali", r.Student.Name)
	assert.Equal(t, model.AttendanceCounts{Sessions: 2, Present: 1, Passed: 1}, r.Counts)
	assert.Len(t, r.Records, 2)

	out := FormatStudent("TPQ Al-Ikhlas", r)
	assert.Contains(t, out, "Ali (S1), March 2024")
	assert.Contains(t, out, "Iqro 3 p.7")
	assert.Contains(t, out, "present 1, absent 1, passed 1, retake 0 (50%)")
}

func TestStudentReportUnknownStudent(t *testing.T) {
	b, month := seed(t)

	_, err := b.Student(context.Background(), "nope", month)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClassReport(t *testing.T) {
	b, month := seed(t)

	r, err := b.Class(context.Background(), month)
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, model.AttendanceCounts{Sessions: 3, Present: 2, Passed: 1, Retake: 1}, r.Totals)
	assert.InDelta(t, 2.0/3.0, r.Rate(), 1e-9)

	out := FormatClass("TPQ Al-Ikhlas", r)
	assert.Contains(t, out, "TPQ Al-Ikhlas attendance, March 2024")
	assert.Contains(t, out, "Budi")
	assert.Contains(t, out, "2 students, 3 sessions recorded, 2 present (67%)")
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name string
		p    model.Progress
		want string
	}{
		{"empty", model.Progress{}, "-"},
		{"iqro volume only", model.Progress{IqroVolume: testutil.Ptr(2)}, "Iqro 2"},
		{"iqro page", model.Progress{IqroVolume: testutil.Ptr(2), IqroPage: testutil.Ptr(9)}, "Iqro 2 p.9"},
		{"quran", model.Progress{QuranSurah: testutil.Ptr("An-Naba"), QuranAyat: testutil.Ptr(12)}, "An-Naba 12"},
		{"quran wins over iqro", model.Progress{IqroVolume: testutil.Ptr(6), QuranSurah: testutil.Ptr("Al-Fatihah")}, "Al-Fatihah"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatProgress(tt.p))
		})
	}
}
