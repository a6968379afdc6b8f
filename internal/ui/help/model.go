package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/route"
	"github.com/nhle/tpq-attendance/internal/theme"
)

// screenTitles name the screen in the overlay heading.
var screenTitles = map[route.Name]string{
	route.StudentList:    "Students",
	route.AddEditStudent: "Student form",
	route.Attendance:     "Attendance",
	route.StudentReport:  "Student report",
	route.Report:         "Class report",
	route.Settings:       "Settings",
}

// commands are the routes accepted by the command palette.
var commands = []string{
	string(route.StudentList),
	string(route.Attendance),
	string(route.Report),
	string(route.StudentReport) + "/<code>",
	string(route.AddEditStudent),
	string(route.AddEditStudent) + "?" + route.CodeParam + "=<code>",
	string(route.Settings),
	"quit",
}

// screenKeys adapts the bindings of one screen to help.KeyMap: the screen's
// own keys first, then the keys that work everywhere.
type screenKeys struct {
	screen []key.Binding
	global []key.Binding
}

func (s screenKeys) ShortHelp() []key.Binding { return s.screen }

func (s screenKeys) FullHelp() [][]key.Binding {
	if len(s.screen) == 0 {
		return [][]key.Binding{s.global}
	}
	return [][]key.Binding{s.screen, s.global}
}

// bindingsFor returns the keys handled by the screen behind name.
func bindingsFor(k *keys.KeyMap, name route.Name) screenKeys {
	global := []key.Binding{k.Help, k.Command, k.Attendance, k.Report, k.Settings}

	var screen []key.Binding
	switch name {
	case route.StudentList:
		screen = []key.Binding{k.Up, k.Down, k.Select, k.Search, k.Add, k.Edit, k.Delete, k.Quit}
	case route.Attendance:
		screen = []key.Binding{k.Up, k.Down, k.TogglePresent, k.CyclePass, k.EditEntry, k.Save, k.PrevDay, k.NextDay, k.Today, k.Back}
	case route.StudentReport:
		screen = []key.Binding{k.PrevMonth, k.NextMonth, k.Edit, k.Back}
	case route.Report:
		screen = []key.Binding{k.Up, k.Down, k.Select, k.PrevMonth, k.NextMonth, k.Back}
	case route.Settings:
		screen = []key.Binding{k.Edit, k.Back}
	case route.AddEditStudent:
		// The form owns the keyboard until it is submitted or cancelled.
		return screenKeys{screen: []key.Binding{k.Back}}
	}
	return screenKeys{screen: screen, global: global}
}

// Model is the help overlay. It lists the keys of the screen it was opened
// from and the routes the command palette accepts.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	route  route.Name
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		route:  route.StudentList,
		width:  width,
		height: height,
	}
}

// SetRoute selects the screen whose keys are listed.
func (m *Model) SetRoute(name route.Name) {
	m.route = name
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	title := screenTitles[m.route]
	if title == "" {
		title = string(m.route)
	}
	heading := theme.TitleStyle.Render("Keys: " + title)
	helpText := m.help.View(bindingsFor(m.keys, m.route))

	routes := theme.TitleStyle.Render("Commands")
	for _, c := range commands {
		routes += "\n" + theme.DimmedStyle.Render(":"+c)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, heading, helpText, "", routes)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
