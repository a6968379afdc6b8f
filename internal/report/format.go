package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/tpq-attendance/internal/model"
)

// FormatMonth renders a month range as "March 2024".
func FormatMonth(r model.DateRange) string {
	return model.FromMillis(r.From).Format("January 2006")
}

// FormatRate renders a presence ratio as a whole percentage.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// FormatProgress renders a reading position, e.g. "Iqro 2 p.14" or
// "Al-Mulk 5". It returns "-" when nothing is set.
func FormatProgress(p model.Progress) string {
	switch {
	case p.QuranSurah != nil && *p.QuranSurah != "":
		if p.QuranAyat != nil {
			return fmt.Sprintf("%s %d", *p.QuranSurah, *p.QuranAyat)
		}
		return *p.QuranSurah
	case p.IqroVolume != nil:
		if p.IqroPage != nil {
			return fmt.Sprintf("Iqro %d p.%d", *p.IqroVolume, *p.IqroPage)
		}
		return fmt.Sprintf("Iqro %d", *p.IqroVolume)
	}
	return "-"
}

// FormatPassed renders a pass flag.
func FormatPassed(a model.Attendance) string {
	switch {
	case a.Passed():
		return "passed"
	case a.Retake():
		return "retake"
	}
	return ""
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// FormatClass renders a class report as a plain text table.
func FormatClass(school string, r *ClassReport) string {
	t := newTable("Code", "Name", "Present", "Absent", "Passed", "Retake", "Rate")
	for _, row := range r.Rows {
		c := row.Counts
		t.Row(
			row.Student.StudentCode,
			row.Student.Name,
			strconv.Itoa(c.Present),
			strconv.Itoa(c.Absent()),
			strconv.Itoa(c.Passed),
			strconv.Itoa(c.Retake),
			FormatRate(c.Rate()),
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s attendance, %s\n", school, FormatMonth(r.Month))
	b.WriteString(t.String())
	fmt.Fprintf(&b, "\n%d students, %d sessions recorded, %d present (%s)\n",
		len(r.Rows), r.Totals.Sessions, r.Totals.Present, FormatRate(r.Rate()))
	return b.String()
}

// FormatStudent renders a student report as a plain text table.
func FormatStudent(school string, r *StudentReport) string {
	t := newTable("Date", "Status", "Progress", "Result", "Note")
	for _, rec := range r.Records {
		status := "absent"
		if rec.IsPresent {
			status = "present"
		}
		note := ""
		if rec.Note != nil {
			note = *rec.Note
		}
		t.Row(model.FormatDay(rec.Date), status, FormatProgress(rec.Progress()), FormatPassed(rec), note)
	}

	c := r.Counts
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%s), %s\n", school, r.Student.Name, r.Student.StudentCode, FormatMonth(r.Month))
	fmt.Fprintf(&b, "Current progress: %s\n", FormatProgress(r.Student.Progress()))
	b.WriteString(t.String())
	fmt.Fprintf(&b, "\npresent %d, absent %d, passed %d, retake %d (%s)\n",
		c.Present, c.Absent(), c.Passed, c.Retake, FormatRate(c.Rate()))
	return b.String()
}
