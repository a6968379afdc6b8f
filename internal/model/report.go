package model

// AttendanceCounts aggregates attendance records over a date range.
type AttendanceCounts struct {
	Sessions int `json:"sessions" db:"sessions"`
	Present  int `json:"present" db:"present"`
	Passed   int `json:"passed" db:"passed"`
	Retake   int `json:"retake" db:"retake"`
}

// Absent returns the number of recorded sessions the student missed.
func (c AttendanceCounts) Absent() int {
	return c.Sessions - c.Present
}

// Rate returns the presence ratio in [0, 1], or 0 with no sessions.
func (c AttendanceCounts) Rate() float64 {
	if c.Sessions == 0 {
		return 0
	}
	return float64(c.Present) / float64(c.Sessions)
}

// Add returns the element-wise sum of two counts.
func (c AttendanceCounts) Add(o AttendanceCounts) AttendanceCounts {
	return AttendanceCounts{
		Sessions: c.Sessions + o.Sessions,
		Present:  c.Present + o.Present,
		Passed:   c.Passed + o.Passed,
		Retake:   c.Retake + o.Retake,
	}
}

// StudentSummary pairs a student with their counts over a range.
type StudentSummary struct {
	Student Student
	Counts  AttendanceCounts
}
