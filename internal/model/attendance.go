package model

// Attendance is the record of one student on one day. The pair
// (StudentCode, Date) identifies it; Date is the local start of day in
// epoch milliseconds.
type Attendance struct {
	StudentCode string  `json:"student_code" db:"student_code" validate:"required,max=32"`
	Date        int64   `json:"date" db:"date" validate:"required"`
	IsPresent   bool    `json:"is_present" db:"is_present"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	IqroVolume  *int    `json:"iqro_volume,omitempty" db:"iqro_volume" validate:"omitempty,min=1,max=6"`
	IqroPage    *int    `json:"iqro_page,omitempty" db:"iqro_page" validate:"omitempty,min=1"`
	QuranSurah  *string `json:"quran_surah,omitempty" db:"quran_surah" validate:"omitempty,max=60"`
	QuranAyat   *int    `json:"quran_ayat,omitempty" db:"quran_ayat" validate:"omitempty,min=1"`
	IsPassed    *bool   `json:"is_passed,omitempty" db:"is_passed"`
	Note        *string `json:"note,omitempty" db:"note" validate:"omitempty,max=500"`
}

// Progress returns the reading position recorded for the session.
func (a Attendance) Progress() Progress {
	return Progress{
		IqroVolume: a.IqroVolume,
		IqroPage:   a.IqroPage,
		QuranSurah: a.QuranSurah,
		QuranAyat:  a.QuranAyat,
	}
}

// Passed reports whether the session was explicitly marked as passed.
func (a Attendance) Passed() bool {
	return a.IsPassed != nil && *a.IsPassed
}

// Retake reports whether the session was explicitly marked as failed.
func (a Attendance) Retake() bool {
	return a.IsPassed != nil && !*a.IsPassed
}

// Promotion moves a student's current progress to a new position.
type Promotion struct {
	StudentCode string
	Progress    Progress
}

// Session is one day's attendance submission: the records to upsert and the
// progress promotions they earn. It is persisted atomically.
type Session struct {
	Date       int64
	Records    []Attendance
	Promotions []Promotion
}
