package model

import (
	"strings"

	"github.com/google/uuid"
)

// Gender codes used on the student record.
const (
	GenderMale   = "L"
	GenderFemale = "P"
)

// MaxIqroVolume is the last volume of the Iqro primer.
const MaxIqroVolume = 6

// Student is a learner enrolled at the TPQ. StudentCode is the primary key
// and is assigned by the teacher when the student is registered.
type Student struct {
	StudentCode string  `json:"student_code" db:"student_code" validate:"required,max=32"`
	Name        string  `json:"name" db:"name" validate:"required,max=120"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	Gender      *string `json:"gender,omitempty" db:"gender" validate:"omitempty,oneof=L P"`
	BirthDate   *int64  `json:"birth_date,omitempty" db:"birth_date"`
	Position    *string `json:"position,omitempty" db:"position" validate:"omitempty,max=60"`
	IqroVolume  *int    `json:"iqro_volume,omitempty" db:"iqro_volume" validate:"omitempty,min=1,max=6"`
	IqroPage    *int    `json:"iqro_page,omitempty" db:"iqro_page" validate:"omitempty,min=1"`
	QuranSurah  *string `json:"quran_surah,omitempty" db:"quran_surah" validate:"omitempty,max=60"`
	QuranAyat   *int    `json:"quran_ayat,omitempty" db:"quran_ayat" validate:"omitempty,min=1"`
}

// Progress is the reading position of a student, either the current one on
// the student record or the one reached during a session.
type Progress struct {
	IqroVolume *int
	IqroPage   *int
	QuranSurah *string
	QuranAyat  *int
}

// IsZero reports whether no progress field is set.
func (p Progress) IsZero() bool {
	return p.IqroVolume == nil && p.IqroPage == nil &&
		p.QuranSurah == nil && p.QuranAyat == nil
}

// Progress returns the student's current reading position.
func (s Student) Progress() Progress {
	return Progress{
		IqroVolume: s.IqroVolume,
		IqroPage:   s.IqroPage,
		QuranSurah: s.QuranSurah,
		QuranAyat:  s.QuranAyat,
	}
}

// ReadsQuran reports whether the student has moved on from Iqro to the Quran.
func (s Student) ReadsQuran() bool {
	return s.QuranSurah != nil && *s.QuranSurah != ""
}

// NewStudentCode suggests a fresh student code with the given prefix.
func NewStudentCode(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + id[:6]
}
