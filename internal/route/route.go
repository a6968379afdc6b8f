// Package route defines the screens of the application and their string
// form, e.g. "student_report/S001" or "add_edit_student?studentCode=S001".
package route

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Name identifies a screen.
type Name string

// The route table.
const (
	StudentList    Name = "student_list"
	AddEditStudent Name = "add_edit_student"
	Attendance     Name = "attendance"
	StudentReport  Name = "student_report"
	Report         Name = "report"
	Settings       Name = "settings"
)

// Names lists every route in menu order.
var Names = []Name{StudentList, AddEditStudent, Attendance, StudentReport, Report, Settings}

// CodeParam is the query parameter carrying the student being edited.
const CodeParam = "studentCode"

var (
	// ErrUnknownRoute is returned for a route name outside the table.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrMissingCode is returned when a route needs a student code and has none.
	ErrMissingCode = errors.New("route needs a student code")

	// ErrBadRoute is returned for extra path segments or parameters.
	ErrBadRoute = errors.New("malformed route")
)

// Route is a screen plus the student it is about, if any.
type Route struct {
	Name        Name
	StudentCode string
}

// Home is the route the app starts on and returns to.
func Home() Route { return Route{Name: StudentList} }

// AddStudent opens an empty student form.
func AddStudent() Route { return Route{Name: AddEditStudent} }

// EditStudent opens the form for an existing student.
func EditStudent(code string) Route { return Route{Name: AddEditStudent, StudentCode: code} }

// StudentReportFor opens the report of one student.
func StudentReportFor(code string) Route { return Route{Name: StudentReport, StudentCode: code} }

// IsEdit reports whether an add_edit_student route edits an existing student.
func (r Route) IsEdit() bool {
	return r.Name == AddEditStudent && r.StudentCode != ""
}

// String renders the route in the form Parse accepts.
func (r Route) String() string {
	switch r.Name {
	case StudentReport:
		return string(r.Name) + "/" + url.PathEscape(r.StudentCode)
	case AddEditStudent:
		if r.StudentCode == "" {
			return string(r.Name)
		}
		return string(r.Name) + "?" + url.Values{CodeParam: {r.StudentCode}}.Encode()
	}
	return string(r.Name)
}

// Validate checks that the route is in the table and carries the
// parameters it needs.
func (r Route) Validate() error {
	switch r.Name {
	case StudentReport:
		if r.StudentCode == "" {
			return fmt.Errorf("%s: %w", r.Name, ErrMissingCode)
		}
	case AddEditStudent:
	case StudentList, Attendance, Report, Settings:
		if r.StudentCode != "" {
			return fmt.Errorf("%s takes no student code: %w", r.Name, ErrBadRoute)
		}
	default:
		return fmt.Errorf("%q: %w", r.Name, ErrUnknownRoute)
	}
	return nil
}

// Parse reads a route string.
func Parse(s string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return Route{}, fmt.Errorf("parsing route %q: %w", s, err)
	}
	if u.Scheme != "" || u.Host != "" || u.Fragment != "" {
		return Route{}, fmt.Errorf("%q: %w", s, ErrBadRoute)
	}

	segments := strings.Split(u.EscapedPath(), "/")
	r := Route{Name: Name(segments[0])}

	switch r.Name {
	case StudentReport:
		if len(segments) > 2 || len(u.Query()) > 0 {
			return Route{}, fmt.Errorf("%q: %w", s, ErrBadRoute)
		}
		if len(segments) == 2 {
			code, err := url.PathUnescape(segments[1])
			if err != nil {
				return Route{}, fmt.Errorf("%q: %w", s, ErrBadRoute)
			}
			r.StudentCode = code
		}
	case AddEditStudent:
		q := u.Query()
		if len(segments) > 1 {
			return Route{}, fmt.Errorf("%q: %w", s, ErrBadRoute)
		}
		for key := range q {
			if key != CodeParam {
				return Route{}, fmt.Errorf("%q: unexpected parameter %s: %w", s, key, ErrBadRoute)
			}
		}
		r.StudentCode = q.Get(CodeParam)
	default:
		if !slices.Contains(Names, r.Name) {
			return Route{}, fmt.Errorf("%q: %w", s, ErrUnknownRoute)
		}
		if len(segments) > 1 || u.RawQuery != "" {
			return Route{}, fmt.Errorf("%q: %w", s, ErrBadRoute)
		}
	}

	if err := r.Validate(); err != nil {
		return Route{}, err
	}
	return r, nil
}
