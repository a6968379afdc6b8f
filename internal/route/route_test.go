package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{"student_list", Home()},
		{"attendance", Route{Name: Attendance}},
		{"report", Route{Name: Report}},
		{"settings", Route{Name: Settings}},
		{"add_edit_student", AddStudent()},
		{"add_edit_student?studentCode=S001", EditStudent("S001")},
		{"student_report/S001", StudentReportFor("S001")},
		{"  student_report/STU7-1 ", StudentReportFor("STU7-1")},
		{"student_report/A%2FB", StudentReportFor("A/B")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrUnknownRoute},
		{"dashboard", ErrUnknownRoute},
		{"student_report", ErrMissingCode},
		{"student_report/", ErrMissingCode},
		{"student_report/S1/extra", ErrBadRoute},
		{"add_edit_student?id=3", ErrBadRoute},
		{"settings?studentCode=S1", ErrBadRoute},
		{"report/2024-03", ErrBadRoute},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	routes := []Route{
		Home(),
		AddStudent(),
		EditStudent("S001"),
		EditStudent("kode & spasi"),
		StudentReportFor("S001"),
		StudentReportFor("A/B?c"),
		{Name: Attendance},
		{Name: Report},
		{Name: Settings},
	}

	for _, r := range routes {
		t.Run(r.String(), func(t *testing.T) {
			got, err := Parse(r.String())
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
}

func TestRouteStrings(t *testing.T) {
	assert.Equal(t, "student_list", Home().String())
	assert.Equal(t, "add_edit_student?studentCode=S001", EditStudent("S001").String())
	assert.Equal(t, "student_report/S001", StudentReportFor("S001").String())
	assert.True(t, EditStudent("S1").IsEdit())
	assert.False(t, AddStudent().IsEdit())
}
