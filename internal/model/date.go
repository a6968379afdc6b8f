package model

import "time"

// DateRange is a half-open [From, To) interval of epoch milliseconds.
type DateRange struct {
	From int64
	To   int64
}

// ToMillis converts t to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a local time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).In(time.Local)
}

// DayStart returns local midnight of the day containing t.
func DayStart(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DayKey returns the attendance key for the day containing t.
func DayKey(t time.Time) int64 {
	return ToMillis(DayStart(t))
}

// NormalizeDay truncates an epoch millisecond timestamp to the start of its
// local day.
func NormalizeDay(ms int64) int64 {
	return DayKey(FromMillis(ms))
}

// MonthRange returns the range covering the calendar month containing t.
func MonthRange(t time.Time) DateRange {
	t = t.In(time.Local)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return DateRange{From: ToMillis(start), To: ToMillis(start.AddDate(0, 1, 0))}
}

// ParseMonth parses a "2006-01" month string into its range.
func ParseMonth(s string) (DateRange, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return DateRange{}, err
	}
	return MonthRange(t), nil
}

// FormatDay renders a day key as YYYY-MM-DD.
func FormatDay(ms int64) string {
	return FromMillis(ms).Format("2006-01-02")
}
