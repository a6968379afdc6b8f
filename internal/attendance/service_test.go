package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/tests/testutil"
)

var march4 = time.Date(2024, time.March, 4, 16, 30, 0, 0, time.Local)

func newService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	s := testutil.NewTestStore(t)
	testutil.SeedStudents(t, s,
		model.Student{StudentCode: "S1", Name: "Ali", IqroVolume: testutil.Ptr(2), IqroPage: testutil.Ptr(10)},
		model.Student{StudentCode: "S2", Name: "Budi", QuranSurah: testutil.Ptr("Al-Mulk"), QuranAyat: testutil.Ptr(5)},
	)

	svc := NewService(s, logger.Nop())
	svc.now = func() time.Time { return march4 }
	return svc, context.Background()
}

func TestSheetPrefillsProgress(t *testing.T) {
	svc, ctx := newService(t)

	sheet, err := svc.Sheet(ctx, march4)
	require.NoError(t, err)
	assert.Equal(t, model.DayKey(march4), sheet.Date)
	require.Len(t, sheet.Rows, 2)

	ali := sheet.Rows[0]
	assert.Equal(t, "S1", ali.Student.StudentCode)
	assert.False(t, ali.Recorded)
	assert.False(t, ali.Entry.IsPresent)
	assert.Equal(t, ali.Student.Progress(), ali.Entry.Progress)
}

func TestSubmitPromotesPassedStudents(t *testing.T) {
	svc, ctx := newService(t)

	passed := true
	entries := []Entry{
		{
			StudentCode: "S1",
			IsPresent:   true,
			IsPassed:    &passed,
			Progress:    model.Progress{IqroVolume: testutil.Ptr(2), IqroPage: testutil.Ptr(11)},
		},
		{StudentCode: "S2", IsPresent: false, IsPassed: &passed},
	}

	session, err := svc.Submit(ctx, march4, entries)
	require.NoError(t, err)
	require.Len(t, session.Records, 2)
	require.Len(t, session.Promotions, 1)
	assert.Equal(t, "S1", session.Promotions[0].StudentCode)
	assert.Nil(t, session.Records[1].IsPassed, "absent students carry no pass mark")

	sheet, err := svc.Sheet(ctx, march4.Add(2*time.Hour))
	require.NoError(t, err)
	ali := sheet.Rows[0]
	assert.True(t, ali.Recorded)
	assert.True(t, ali.Entry.IsPresent)
	require.NotNil(t, ali.Student.IqroPage)
	assert.Equal(t, 11, *ali.Student.IqroPage)
}

func TestSubmitRejectsInvalidEntries(t *testing.T) {
	svc, ctx := newService(t)

	entries := []Entry{
		{StudentCode: "S1", IsPresent: true},
		{StudentCode: "S2", IsPresent: true, Progress: model.Progress{IqroVolume: testutil.Ptr(9)}},
	}
	_, err := svc.Submit(ctx, march4, entries)
	require.Error(t, err)

	sheet, err := svc.Sheet(ctx, march4)
	require.NoError(t, err)
	for _, row := range sheet.Rows {
		assert.False(t, row.Recorded)
	}
}

func TestEntryCyclePass(t *testing.T) {
	var e Entry
	e.CyclePass()
	require.NotNil(t, e.IsPassed)
	assert.True(t, *e.IsPassed)

	e.CyclePass()
	require.NotNil(t, e.IsPassed)
	assert.False(t, *e.IsPassed)

	e.CyclePass()
	assert.Nil(t, e.IsPassed)
}

func TestEntryPromotes(t *testing.T) {
	yes, no := true, false
	progress := model.Progress{IqroPage: testutil.Ptr(3)}

	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"present and passed", Entry{IsPresent: true, IsPassed: &yes, Progress: progress}, true},
		{"retake", Entry{IsPresent: true, IsPassed: &no, Progress: progress}, false},
		{"unmarked", Entry{IsPresent: true, Progress: progress}, false},
		{"absent", Entry{IsPassed: &yes, Progress: progress}, false},
		{"no progress", Entry{IsPresent: true, IsPassed: &yes}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Promotes())
		})
	}
}
