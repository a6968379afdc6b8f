package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/attendance"
	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/report"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// Service prepares and submits attendance sessions.
type Service interface {
	Sheet(ctx context.Context, day time.Time) (*attendance.Sheet, error)
	Submit(ctx context.Context, day time.Time, entries []attendance.Entry) (model.Session, error)
}

// SavedMsg is dispatched after a session was persisted.
type SavedMsg struct {
	Session model.Session
}

type sheetLoadedMsg struct {
	day   time.Time
	sheet *attendance.Sheet
	err   error
}

type sessionSavedMsg struct {
	session model.Session
	err     error
}

// entryBindings holds the progress form values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type entryBindings struct {
	iqroVolume int
	iqroPage   string
	quranSurah string
	quranAyat  string
	note       string
}

// Model is the attendance marking screen for one day.
type Model struct {
	svc     Service
	keys    *keys.KeyMap
	now     func() time.Time
	spinner spinner.Model

	day         time.Time
	followToday bool
	loading     bool

	rows    []attendance.Row
	entries []attendance.Entry
	cursor  int
	dirty   bool
	// discardArmed is set after a navigation attempt with unsaved changes;
	// the next attempt discards them.
	discardArmed bool

	form *huh.Form
	eb   *entryBindings

	statusMsg string
	width     int
	height    int
}

// New creates the attendance screen.
func New(svc Service, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		svc:         svc,
		keys:        k,
		now:         time.Now,
		spinner:     sp,
		followToday: true,
		eb:          &entryBindings{},
		width:       width,
		height:      height,
	}
}

// Init loads today's sheet.
func (m *Model) Init() tea.Cmd {
	return m.load(m.now(), true)
}

// Day returns the day being marked.
func (m Model) Day() time.Time {
	return m.day
}

// Dirty reports whether there are unsaved marks.
func (m Model) Dirty() bool {
	return m.dirty
}

// Capturing reports whether the progress form has keyboard focus.
func (m Model) Capturing() bool {
	return m.form != nil
}

// DayChanged moves the screen to day when it follows the current date and
// holds no unsaved marks.
func (m *Model) DayChanged(day time.Time) tea.Cmd {
	if !m.followToday || m.dirty {
		return nil
	}
	return m.load(day, true)
}

func (m *Model) load(day time.Time, followToday bool) tea.Cmd {
	m.day = model.DayStart(day)
	m.followToday = followToday
	m.loading = true
	m.discardArmed = false

	svc := m.svc
	target := m.day
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		sheet, err := svc.Sheet(context.Background(), target)
		return sheetLoadedMsg{day: target, sheet: sheet, err: err}
	})
}

// Refresh reloads the current day unless there are unsaved marks.
func (m *Model) Refresh() tea.Cmd {
	if m.dirty || m.loading {
		return nil
	}
	return m.load(m.day, m.followToday)
}

// Update handles messages for the attendance screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sheetLoadedMsg:
		if !msg.day.Equal(m.day) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.rows = msg.sheet.Rows
		m.entries = make([]attendance.Entry, len(m.rows))
		for i, r := range m.rows {
			m.entries[i] = r.Entry
		}
		m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
		m.dirty = false
		return m, nil

	case sessionSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.dirty = false
		m.statusMsg = fmt.Sprintf("Saved %d records, %d promoted",
			len(msg.session.Records), len(msg.session.Promotions))
		session := msg.session
		reload := m.load(m.day, m.followToday)
		return m, tea.Batch(reload, func() tea.Msg { return SavedMsg{Session: session} })

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if len(m.rows) > 0 {
			m.cursor = (m.cursor + 1) % len(m.rows)
		}

	case key.Matches(msg, m.keys.Up):
		if len(m.rows) > 0 {
			m.cursor = (m.cursor - 1 + len(m.rows)) % len(m.rows)
		}

	case key.Matches(msg, m.keys.TogglePresent):
		if e := m.current(); e != nil {
			e.IsPresent = !e.IsPresent
			if !e.IsPresent {
				e.IsPassed = nil
			}
			m.touch()
		}

	case key.Matches(msg, m.keys.CyclePass):
		if e := m.current(); e != nil {
			if !e.IsPresent {
				m.statusMsg = "Mark the student present first"
				return m, nil
			}
			e.CyclePass()
			m.touch()
		}

	case key.Matches(msg, m.keys.EditEntry):
		if e := m.current(); e != nil {
			m.startForm(*e)
			return m, m.form.Init()
		}

	case key.Matches(msg, m.keys.Save):
		if len(m.entries) == 0 {
			return m, nil
		}
		return m, m.save()

	case key.Matches(msg, m.keys.PrevDay):
		return m.navigate(m.day.AddDate(0, 0, -1))

	case key.Matches(msg, m.keys.NextDay):
		return m.navigate(m.day.AddDate(0, 0, 1))

	case key.Matches(msg, m.keys.Today):
		return m.navigate(m.now())

	case key.Matches(msg, m.keys.Back):
		if !m.ConfirmLeave() {
			return m, nil
		}
		return m, ui.Back()
	}
	return m, nil
}

// ConfirmLeave reports whether the screen may be left. With unsaved marks
// the first call only warns; the next one discards them.
func (m *Model) ConfirmLeave() bool {
	if !m.dirty {
		return true
	}
	if !m.discardArmed {
		m.discardArmed = true
		m.statusMsg = "Unsaved marks: ctrl+s to save, press again to discard"
		return false
	}
	m.dirty = false
	m.discardArmed = false
	m.statusMsg = ""
	return true
}

// navigate switches to another day, asking first when marks are unsaved.
func (m Model) navigate(day time.Time) (Model, tea.Cmd) {
	if !m.ConfirmLeave() {
		return m, nil
	}
	m.statusMsg = ""
	today := model.DayKey(day) == model.DayKey(m.now())
	cmd := m.load(day, today)
	return m, cmd
}

func (m *Model) current() *attendance.Entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

func (m *Model) touch() {
	m.dirty = true
	m.discardArmed = false
	m.statusMsg = ""
}

func (m Model) save() tea.Cmd {
	svc := m.svc
	day := m.day
	entries := append([]attendance.Entry(nil), m.entries...)
	return func() tea.Msg {
		session, err := svc.Submit(context.Background(), day, entries)
		return sessionSavedMsg{session: session, err: err}
	}
}

func (m *Model) startForm(e attendance.Entry) {
	*m.eb = entryBindings{
		iqroPage:   ui.IntText(e.Progress.IqroPage),
		quranSurah: ui.StringText(e.Progress.QuranSurah),
		quranAyat:  ui.IntText(e.Progress.QuranAyat),
		note:       ui.StringText(e.Note),
	}
	if e.Progress.IqroVolume != nil {
		m.eb.iqroVolume = *e.Progress.IqroVolume
	}

	volumes := []huh.Option[int]{huh.NewOption("-", 0)}
	for v := 1; v <= model.MaxIqroVolume; v++ {
		volumes = append(volumes, huh.NewOption(fmt.Sprintf("Iqro %d", v), v))
	}

	title := "Session progress"
	if m.cursor < len(m.rows) {
		title = fmt.Sprintf("Session progress of %s", m.rows[m.cursor].Student.Name)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Iqro volume").
				Options(volumes...).
				Value(&m.eb.iqroVolume),
			huh.NewInput().
				Title("Iqro page").
				Value(&m.eb.iqroPage).
				Validate(ui.ValidateOptionalInt("Page", 1, 0)),
			huh.NewInput().
				Title("Quran surah").
				Value(&m.eb.quranSurah),
			huh.NewInput().
				Title("Quran ayat").
				Value(&m.eb.quranAyat).
				Validate(ui.ValidateOptionalInt("Ayat", 1, 0)),
			huh.NewText().
				Title("Note").
				Placeholder("Optional note for this session").
				CharLimit(500).
				Value(&m.eb.note),
		).Title(title),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		if e := m.current(); e != nil {
			e.Progress = m.eb.progress()
			e.Note = ui.OptionalString(m.eb.note)
			m.touch()
		}
		return m, nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (b *entryBindings) progress() model.Progress {
	p := model.Progress{
		IqroPage:   ui.OptionalInt(b.iqroPage),
		QuranSurah: ui.OptionalString(b.quranSurah),
		QuranAyat:  ui.OptionalInt(b.quranAyat),
	}
	if b.iqroVolume > 0 {
		v := b.iqroVolume
		p.IqroVolume = &v
	}
	return p
}

// View renders the sheet.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder

	title := "Attendance: " + m.day.Format("Monday, 2 January 2006")
	if m.dirty {
		title += " *"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading...")
	case len(m.rows) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No students registered yet."))
	default:
		b.WriteString(m.renderRows())
		b.WriteString("\n")
		b.WriteString(theme.DimmedStyle.Render(m.summary()))
	}

	if m.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.MessageStyle.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func (m Model) renderRows() string {
	visible := max(m.height-8, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.rows))

	var b strings.Builder
	for i := start; i < end; i++ {
		row := m.rows[i]
		e := m.entries[i]

		mark := "[ ]"
		if e.IsPresent {
			mark = "[x]"
		}
		result := ""
		switch {
		case e.IsPassed == nil:
		case *e.IsPassed:
			result = "passed"
		default:
			result = "retake"
		}
		note := ""
		if e.Note != nil {
			note = " " + theme.DimmedStyle.Render("("+*e.Note+")")
		}

		line := fmt.Sprintf("%s %-24s %s %s %s%s",
			theme.PresenceStyle(e.IsPresent).Render(mark),
			row.Student.Name,
			theme.DimmedStyle.Render(fmt.Sprintf("%-10s", row.Student.StudentCode)),
			theme.ResultStyle(e.IsPassed).Render(fmt.Sprintf("%-6s", result)),
			report.FormatProgress(e.Progress),
			note,
		)
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) summary() string {
	present, passed := 0, 0
	for _, e := range m.entries {
		if e.IsPresent {
			present++
		}
		if e.Promotes() {
			passed++
		}
	}
	return fmt.Sprintf("%d of %d present, %d to promote", present, len(m.entries), passed)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
