package studentform

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/model"
)

func TestStartCreateSuggestsCode(t *testing.T) {
	m := New(80, 24)
	m.StartCreate("TPQ")

	assert.True(t, m.Active())
	assert.True(t, strings.HasPrefix(m.fb.code, "TPQ"))
	assert.Len(t, m.fb.code, len("TPQ")+6)
}

func TestEditRoundTrip(t *testing.T) {
	vol, page := 3, 12
	gender := model.GenderFemale
	birth := model.DayKey(time.Date(2016, time.May, 2, 0, 0, 0, 0, time.Local))
	in := model.Student{
		StudentCode: "S1",
		Name:        "Citra",
		CreatedAt:   1234,
		Gender:      &gender,
		BirthDate:   &birth,
		IqroVolume:  &vol,
		IqroPage:    &page,
	}

	m := New(80, 24)
	m.StartEdit(in)
	assert.Equal(t, "2016-05-02", m.fb.birthDate)

	out := m.student()
	assert.Equal(t, in, out)
}

func TestStudentFromBindings(t *testing.T) {
	m := New(80, 24)
	*m.fb = formBindings{
		code:       " S9 ",
		name:       " Dewi ",
		quranSurah: "Al-Mulk",
		quranAyat:  "4",
		iqroPage:   "",
	}

	st := m.student()
	assert.Equal(t, "S9", st.StudentCode)
	assert.Equal(t, "Dewi", st.Name)
	assert.Nil(t, st.IqroVolume)
	assert.Nil(t, st.IqroPage)
	assert.Nil(t, st.Gender)
	require.NotNil(t, st.QuranAyat)
	assert.Equal(t, 4, *st.QuranAyat)
	assert.True(t, st.ReadsQuran())
}

func TestValidateCode(t *testing.T) {
	assert.NoError(t, validateCode("STU7-1"))
	assert.Error(t, validateCode(" "))
	assert.Error(t, validateCode("A B"))
	assert.Error(t, validateCode("A/B"))
	assert.Error(t, validateCode(strings.Repeat("x", 33)))
}

func TestResumeKeepsSubmission(t *testing.T) {
	m := New(80, 24)
	st := model.Student{StudentCode: "S1", Name: "Eka"}

	m.Resume(st, true, errors.New("student code S1 is already in use"))
	assert.True(t, m.Active())
	assert.False(t, m.editMode)
	assert.Equal(t, "S1", m.fb.code)
	assert.Contains(t, m.View(), "already in use")
}
