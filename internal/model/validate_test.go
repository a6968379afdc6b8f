package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStudent(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	tests := []struct {
		name    string
		student Student
		wantErr string
	}{
		{
			name:    "valid",
			student: Student{StudentCode: "S1", Name: "Ali", Gender: str(GenderMale), IqroVolume: num(3)},
		},
		{
			name:    "missing code and name",
			student: Student{},
			wantErr: "invalid student: StudentCode is required; Name is required",
		},
		{
			name:    "unknown gender",
			student: Student{StudentCode: "S1", Name: "Ali", Gender: str("X")},
			wantErr: "invalid student: Gender must be one of [L P]",
		},
		{
			name:    "volume past the last Iqro",
			student: Student{StudentCode: "S1", Name: "Ali", IqroVolume: num(MaxIqroVolume + 1)},
			wantErr: "invalid student: IqroVolume must be at most 6",
		},
		{
			name:    "page below one",
			student: Student{StudentCode: "S1", Name: "Ali", IqroPage: num(0)},
			wantErr: "invalid student: IqroPage must be at least 1",
		},
		{
			name:    "long position",
			student: Student{StudentCode: "S1", Name: "Ali", Position: str(strings.Repeat("x", 61))},
			wantErr: "invalid student: Position must be at most 60",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.student)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
