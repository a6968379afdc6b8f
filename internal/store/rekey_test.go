package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func coded(id int64, code string) legacyStudent {
	return legacyStudent{ID: id, StudentCode: sql.NullString{String: code, Valid: true}}
}

func uncoded(id int64) legacyStudent {
	return legacyStudent{ID: id}
}

func TestAssignStudentCodes(t *testing.T) {
	tests := []struct {
		name        string
		students    []legacyStudent
		want        map[int64]string
		wantRenames int
	}{
		{
			name:     "own codes kept",
			students: []legacyStudent{coded(1, "A"), coded(2, "B")},
			want:     map[int64]string{1: "A", 2: "B"},
		},
		{
			name:        "missing code falls back to id",
			students:    []legacyStudent{coded(1, "Ali"), uncoded(3)},
			want:        map[int64]string{1: "Ali", 3: "STU3"},
			wantRenames: 1,
		},
		{
			name:        "empty code treated as missing",
			students:    []legacyStudent{coded(7, "")},
			want:        map[int64]string{7: "STU7"},
			wantRenames: 1,
		},
		{
			name:        "real code wins over fallback",
			students:    []legacyStudent{uncoded(7), coded(8, "STU7")},
			want:        map[int64]string{7: "STU7-1", 8: "STU7"},
			wantRenames: 1,
		},
		{
			name:        "duplicate real codes suffixed in id order",
			students:    []legacyStudent{coded(1, "X"), coded(2, "X"), coded(3, "X")},
			want:        map[int64]string{1: "X", 2: "X-1", 3: "X-2"},
			wantRenames: 2,
		},
		{
			name:        "suffix skips taken codes",
			students:    []legacyStudent{coded(1, "X"), coded(2, "X-1"), coded(3, "X")},
			want:        map[int64]string{1: "X", 2: "X-1", 3: "X-2"},
			wantRenames: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, renames := assignStudentCodes(tt.students, FallbackCodePrefix)
			assert.Equal(t, tt.want, got)
			assert.Len(t, renames, tt.wantRenames)

			seen := make(map[string]bool)
			for _, code := range got {
				assert.False(t, seen[code], "code %s assigned twice", code)
				seen[code] = true
			}
		})
	}
}
