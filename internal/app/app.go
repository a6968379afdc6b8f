package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tpq-attendance/internal/attendance"
	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/report"
	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/store"
	appsync "github.com/nhle/tpq-attendance/internal/sync"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
	attendanceview "github.com/nhle/tpq-attendance/internal/ui/attendance"
	"github.com/nhle/tpq-attendance/internal/ui/classreport"
	"github.com/nhle/tpq-attendance/internal/ui/command"
	helpview "github.com/nhle/tpq-attendance/internal/ui/help"
	"github.com/nhle/tpq-attendance/internal/ui/settings"
	"github.com/nhle/tpq-attendance/internal/ui/studentform"
	"github.com/nhle/tpq-attendance/internal/ui/studentlist"
	"github.com/nhle/tpq-attendance/internal/ui/studentreport"
)

// Overlay is a panel drawn over the active route.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayCommand
)

// Model is the root Bubble Tea model that manages routing, layout, and
// access to the persistence layer.
type Model struct {
	route   route.Route
	history []route.Route
	overlay Overlay
	layout  ui.Layout
	ready   bool

	cfg     *model.AppConfig
	store   store.Store
	log     logger.Logger
	keys    *keys.KeyMap
	watcher *appsync.Watcher
	now     func() time.Time

	students      studentlist.Model
	form          studentform.Model
	attendance    attendanceview.Model
	studentReport studentreport.Model
	classReport   classreport.Model
	settings      settings.Model
	helpView      helpview.Model
	commandView   command.Model

	attendanceStarted bool
	status            string
	statusErr         bool
}

// New creates the root application model over s. save persists edits made
// on the settings screen.
func New(s store.Store, cfg *model.AppConfig, save settings.SaveFunc, log logger.Logger) Model {
	k := keys.DefaultKeyMap()
	builder := report.NewBuilder(s)

	return Model{
		route:         route.Home(),
		cfg:           cfg,
		store:         s,
		log:           log,
		keys:          k,
		watcher:       appsync.New(s, log),
		now:           time.Now,
		students:      studentlist.New(s, k, 80, 24),
		form:          studentform.New(80, 24),
		attendance:    attendanceview.New(attendance.NewService(s, log), k, 80, 24),
		studentReport: studentreport.New(builder, k, 80, 24),
		classReport:   classreport.New(builder, k, 80, 24),
		settings:      settings.New(cfg, save, k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.New(80, 24),
	}
}

// Route returns the active route.
func (m Model) Route() route.Route {
	return m.route
}

// Init starts watching the student list.
func (m Model) Init() tea.Cmd {
	return m.watcher.Start()
}

// Update handles messages and dispatches to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.students.SetSize(w, h)
		m.form.SetSize(w, h)
		m.attendance.SetSize(w, h)
		m.studentReport.SetSize(w, h)
		m.classReport.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to the active screen so huh forms can lay out.
		return m.updateActiveView(msg)

	case appsync.StudentsMsg:
		listCmd := m.students.SetStudents(msg.Students)
		codes := make([]string, len(msg.Students))
		for i, st := range msg.Students {
			codes[i] = st.StudentCode
		}
		m.commandView.SetCodes(codes)
		cmds := []tea.Cmd{listCmd, m.watcher.WaitForNext()}
		switch m.route.Name {
		case route.Attendance:
			cmds = append(cmds, m.attendance.Refresh())
		case route.Report:
			cmds = append(cmds, m.classReport.Reload())
		case route.StudentReport:
			cmds = append(cmds, m.studentReport.Reload())
		}
		return m, tea.Batch(cmds...)

	case appsync.DayChangedMsg:
		var cmd tea.Cmd
		if m.attendanceStarted {
			cmd = m.attendance.DayChanged(msg.Day)
		}
		return m, tea.Batch(cmd, m.watcher.WaitForNext())

	case ui.NavigateMsg:
		m.overlay = OverlayNone
		return m.navigate(msg.Route)

	case ui.BackMsg:
		return m.back()

	case ui.StatusMsg:
		m.setStatus(msg.Text, msg.Err)
		return m, nil

	case command.QuitMsg:
		return m.quit()

	case command.CancelMsg:
		m.overlay = OverlayNone
		return m, nil

	case studentform.SubmitMsg:
		return m, m.saveStudent(msg.Student, msg.IsNew)

	case studentform.CancelMsg:
		return m.back()

	case studentSavedMsg:
		if msg.err != nil {
			m.log.Warn("saving student failed", "code", msg.student.StudentCode, "err", msg.err)
			return m, m.form.Resume(msg.student, msg.isNew, msg.err)
		}
		verb := "Updated"
		if msg.isNew {
			verb = "Added"
		}
		m.setStatus(fmt.Sprintf("%s %s", verb, msg.student.Name), nil)
		m.history = nil
		return m.open(route.Home(), true)

	case studentLoadedMsg:
		if msg.err != nil {
			m.setStatus("", msg.err)
			return m.back()
		}
		return m, m.form.StartEdit(*msg.student)

	case attendanceview.SavedMsg:
		m.setStatus(fmt.Sprintf("Saved attendance for %s", model.FormatDay(msg.Session.Date)), nil)
		return m, nil

	case settings.SavedMsg:
		m.cfg = msg.Config
		if !theme.Use(msg.Config.Display.Theme) {
			m.log.Warn("unknown theme", "theme", msg.Config.Display.Theme)
		}
		m.log.Info("settings saved", "restart", msg.Restart)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		m.status, m.statusErr = "", false
		if m.overlay != OverlayNone {
			return m.updateOverlay(msg)
		}
		if !m.capturing() {
			if next, cmd, handled := m.handleGlobalKey(msg); handled {
				return next, cmd
			}
		}
		return m.updateActiveView(msg)
	}

	var overlayCmd tea.Cmd
	if m.overlay == OverlayCommand {
		m.commandView, overlayCmd = m.commandView.Update(msg)
	}
	next, cmd := m.updateScreens(msg)
	return next, tea.Batch(overlayCmd, cmd)
}

// capturing reports whether the active screen consumes raw key input.
func (m Model) capturing() bool {
	switch m.route.Name {
	case route.StudentList:
		return m.students.Capturing()
	case route.AddEditStudent:
		return m.form.Active()
	case route.Attendance:
		return m.attendance.Capturing()
	case route.Settings:
		return m.settings.Capturing()
	}
	return false
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit) && m.route.Name == route.StudentList:
		next, cmd := m.quit()
		return next, cmd, true
	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		m.helpView.SetRoute(m.route.Name)
		return m, nil, true
	case key.Matches(msg, m.keys.Command):
		m.overlay = OverlayCommand
		return m, m.commandView.Focus(), true
	case key.Matches(msg, m.keys.Attendance):
		next, cmd := m.navigate(route.Route{Name: route.Attendance})
		return next, cmd, true
	case key.Matches(msg, m.keys.Report):
		next, cmd := m.navigate(route.Route{Name: route.Report})
		return next, cmd, true
	case key.Matches(msg, m.keys.Settings):
		next, cmd := m.navigate(route.Route{Name: route.Settings})
		return next, cmd, true
	}
	return m, nil, false
}

func (m Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.overlay {
	case OverlayHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.overlay = OverlayNone
			return m, nil
		}
		m.helpView, cmd = m.helpView.Update(msg)
	case OverlayCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}
	return m, cmd
}

// navigate leaves the active route for r, remembering it for Back.
func (m Model) navigate(r route.Route) (tea.Model, tea.Cmd) {
	if err := r.Validate(); err != nil {
		m.setStatus("", err)
		return m, nil
	}
	if r == m.route {
		return m, nil
	}
	if m.route.Name == route.Attendance && r.Name != route.Attendance && !m.attendance.ConfirmLeave() {
		return m, nil
	}
	if r.Name == route.StudentList {
		m.history = nil
	} else {
		m.history = append(m.history, m.route)
	}
	return m.open(r, true)
}

// back returns to the previous route, or the student list.
func (m Model) back() (tea.Model, tea.Cmd) {
	prev := route.Home()
	if n := len(m.history); n > 0 {
		prev = m.history[n-1]
		m.history = m.history[:n-1]
	}
	return m.open(prev, false)
}

// open activates r. fresh is false when returning to a route, which then
// keeps its state and only reloads.
func (m Model) open(r route.Route, fresh bool) (tea.Model, tea.Cmd) {
	m.log.Debug("route", "to", r.String(), "fresh", fresh)
	m.route = r

	var cmd tea.Cmd
	switch r.Name {
	case route.AddEditStudent:
		if r.IsEdit() {
			cmd = m.loadStudent(r.StudentCode)
		} else {
			cmd = m.form.StartCreate(m.cfg.School.CodePrefix)
		}
	case route.Attendance:
		if !m.attendanceStarted {
			m.attendanceStarted = true
			cmd = m.attendance.Init()
		} else {
			cmd = m.attendance.Refresh()
		}
	case route.StudentReport:
		if fresh {
			cmd = m.studentReport.Open(r.StudentCode, m.now())
		} else {
			cmd = m.studentReport.Reload()
		}
	case route.Report:
		if fresh {
			cmd = m.classReport.Open(m.now())
		} else {
			cmd = m.classReport.Reload()
		}
	}
	return m, cmd
}

// updateScreens hands a non-key message to every screen, so results of
// loads started on a screen that is no longer active still land.
func (m Model) updateScreens(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 6)
	m.students, cmds[0] = m.students.Update(msg)
	m.form, cmds[1] = m.form.Update(msg)
	m.attendance, cmds[2] = m.attendance.Update(msg)
	m.studentReport, cmds[3] = m.studentReport.Update(msg)
	m.classReport, cmds[4] = m.classReport.Update(msg)
	m.settings, cmds[5] = m.settings.Update(msg)
	return m, tea.Batch(cmds...)
}

// updateActiveView dispatches the message to the active screen.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.route.Name {
	case route.StudentList:
		m.students, cmd = m.students.Update(msg)
	case route.AddEditStudent:
		m.form, cmd = m.form.Update(msg)
	case route.Attendance:
		m.attendance, cmd = m.attendance.Update(msg)
	case route.StudentReport:
		m.studentReport, cmd = m.studentReport.Update(msg)
	case route.Report:
		m.classReport, cmd = m.classReport.Update(msg)
	case route.Settings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.watcher.Stop()
	return m, tea.Quit
}

func (m *Model) setStatus(text string, err error) {
	m.statusErr = err != nil
	if err != nil {
		text = fmt.Sprintf("Error: %v", err)
	}
	m.status = text
}
