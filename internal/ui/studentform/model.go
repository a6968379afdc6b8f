package studentform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// SubmitMsg is dispatched when the form is completed.
type SubmitMsg struct {
	Student model.Student
	IsNew   bool
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	code       string
	name       string
	gender     string
	birthDate  string
	position   string
	iqroVolume int
	iqroPage   string
	quranSurah string
	quranAyat  string
}

// Model is the add/edit student form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editMode  bool
	createdAt int64
	err       error
	width     int
	height    int
}

// New creates a new student form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new student with a suggested code.
func (m *Model) StartCreate(codePrefix string) tea.Cmd {
	m.editMode = false
	m.createdAt = 0
	m.err = nil
	*m.fb = formBindings{code: model.NewStudentCode(codePrefix)}
	m.form = m.build()
	return m.form.Init()
}

// StartEdit initializes the form with an existing student.
func (m *Model) StartEdit(st model.Student) tea.Cmd {
	m.editMode = true
	m.err = nil
	m.fill(st)
	m.form = m.build()
	return m.form.Init()
}

// Resume reopens the form with the values of a submission the app
// rejected, showing err above the fields.
func (m *Model) Resume(st model.Student, isNew bool, err error) tea.Cmd {
	m.editMode = !isNew
	m.err = err
	m.fill(st)
	m.form = m.build()
	return m.form.Init()
}

func (m *Model) fill(st model.Student) {
	m.createdAt = st.CreatedAt
	*m.fb = formBindings{
		code:       st.StudentCode,
		name:       st.Name,
		gender:     ui.StringText(st.Gender),
		position:   ui.StringText(st.Position),
		iqroPage:   ui.IntText(st.IqroPage),
		quranSurah: ui.StringText(st.QuranSurah),
		quranAyat:  ui.IntText(st.QuranAyat),
	}
	if st.BirthDate != nil {
		m.fb.birthDate = model.FormatDay(*st.BirthDate)
	}
	if st.IqroVolume != nil {
		m.fb.iqroVolume = *st.IqroVolume
	}
}

// Active reports whether a form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the student form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		st := m.student()
		isNew := !m.editMode
		return m, func() tea.Msg { return SubmitMsg{Student: st, IsNew: isNew} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the student form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "New Student"
	if m.editMode {
		title = fmt.Sprintf("Edit %s (%s)", m.fb.name, m.fb.code)
	}

	content := theme.TitleStyle.Render(title) + "\n"
	if m.err != nil {
		content += theme.ErrorStyle.Render(m.err.Error()) + "\n\n"
	}
	content += m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}

func (m *Model) build() *huh.Form {
	var identity []huh.Field
	if !m.editMode {
		identity = append(identity,
			huh.NewInput().
				Title("Student code").
				Description("Cannot be changed later.").
				Value(&m.fb.code).
				Validate(validateCode),
		)
	}
	identity = append(identity,
		huh.NewInput().
			Title("Name").
			Placeholder("Full name").
			Value(&m.fb.name).
			Validate(ui.ValidateRequired("Name")),
		huh.NewSelect[string]().
			Title("Gender").
			Options(
				huh.NewOption("-", ""),
				huh.NewOption("Laki-laki", model.GenderMale),
				huh.NewOption("Perempuan", model.GenderFemale),
			).
			Value(&m.fb.gender),
		huh.NewInput().
			Title("Birth date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.birthDate).
			Validate(ui.ValidateOptionalDate),
		huh.NewInput().
			Title("Position").
			Placeholder("e.g. class captain (optional)").
			Value(&m.fb.position),
	)

	volumes := []huh.Option[int]{huh.NewOption("-", 0)}
	for v := 1; v <= model.MaxIqroVolume; v++ {
		volumes = append(volumes, huh.NewOption(fmt.Sprintf("Iqro %d", v), v))
	}

	progress := []huh.Field{
		huh.NewSelect[int]().
			Title("Iqro volume").
			Options(volumes...).
			Value(&m.fb.iqroVolume),
		huh.NewInput().
			Title("Iqro page").
			Value(&m.fb.iqroPage).
			Validate(ui.ValidateOptionalInt("Page", 1, 0)),
		huh.NewInput().
			Title("Quran surah").
			Placeholder("Once the student reads the Quran").
			Value(&m.fb.quranSurah),
		huh.NewInput().
			Title("Quran ayat").
			Value(&m.fb.quranAyat).
			Validate(ui.ValidateOptionalInt("Ayat", 1, 0)),
	}

	return huh.NewForm(
		huh.NewGroup(identity...).Title("Student"),
		huh.NewGroup(progress...).Title("Current progress"),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

// student converts the bindings to a model.Student.
func (m Model) student() model.Student {
	st := model.Student{
		StudentCode: strings.TrimSpace(m.fb.code),
		Name:        strings.TrimSpace(m.fb.name),
		CreatedAt:   m.createdAt,
		Gender:      ui.OptionalString(m.fb.gender),
		Position:    ui.OptionalString(m.fb.position),
		IqroPage:    ui.OptionalInt(m.fb.iqroPage),
		QuranSurah:  ui.OptionalString(m.fb.quranSurah),
		QuranAyat:   ui.OptionalInt(m.fb.quranAyat),
	}
	if m.fb.iqroVolume > 0 {
		v := m.fb.iqroVolume
		st.IqroVolume = &v
	}
	if d := strings.TrimSpace(m.fb.birthDate); d != "" {
		if t, err := time.ParseInLocation(ui.DateLayout, d, time.Local); err == nil {
			ms := model.DayKey(t)
			st.BirthDate = &ms
		}
	}
	return st
}

func validateCode(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return fmt.Errorf("student code is required")
	case len(s) > 32:
		return fmt.Errorf("student code is at most 32 characters")
	case strings.ContainsAny(s, " /?#"):
		return fmt.Errorf("student code cannot contain spaces, '/', '?' or '#'")
	}
	return nil
}
