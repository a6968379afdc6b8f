package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui"
)

// SavedMsg is emitted after the configuration has been written.
type SavedMsg struct {
	Config *model.AppConfig
	// Restart is set when a change only takes effect on the next launch.
	Restart bool
}

type savedInternalMsg struct {
	cfg     *model.AppConfig
	restart bool
	err     error
}

// SaveFunc persists cfg.
type SaveFunc func(cfg *model.AppConfig) error

// Saver writes to the config file at path.
func Saver(path string) SaveFunc {
	return func(cfg *model.AppConfig) error { return model.SaveConfig(path, cfg) }
}

type formBindings struct {
	schoolName string
	codePrefix string
	theme      string
	logLevel   string
	dbPath     string
}

// Model is the settings screen.
type Model struct {
	save    SaveFunc
	keys    *keys.KeyMap
	current *model.AppConfig

	form   *huh.Form
	fb     *formBindings
	status string
	err    error

	width  int
	height int
}

// New creates the settings screen for cfg.
func New(cfg *model.AppConfig, save SaveFunc, k *keys.KeyMap, width, height int) Model {
	return Model{
		save:    save,
		keys:    k,
		current: cfg,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Open starts editing the current configuration.
func (m *Model) Open() tea.Cmd {
	c := m.current
	*m.fb = formBindings{
		schoolName: c.School.Name,
		codePrefix: c.School.CodePrefix,
		theme:      c.Display.Theme,
		logLevel:   c.Log.Level,
		dbPath:     c.Database.Path,
	}
	m.status, m.err = "", nil
	m.form = m.build()
	return m.form.Init()
}

// Capturing reports whether the form owns the keyboard.
func (m Model) Capturing() bool {
	return m.form != nil
}

// Update handles messages for the settings screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedInternalMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.current = msg.cfg
		m.status = "Settings saved"
		if msg.restart {
			m.status += "; restart to use the new database"
		}
		cfg, restart := msg.cfg, msg.restart
		return m, func() tea.Msg { return SavedMsg{Config: cfg, Restart: restart} }
	}

	if m.form == nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(k, m.keys.Back):
				return m, ui.Back()
			case key.Matches(k, m.keys.Edit), k.String() == "enter":
				cmd := m.Open()
				return m, cmd
			}
		}
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.persist()
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) persist() tea.Cmd {
	next := *m.current
	next.School.Name = strings.TrimSpace(m.fb.schoolName)
	next.School.CodePrefix = strings.TrimSpace(m.fb.codePrefix)
	next.Display.Theme = m.fb.theme
	next.Log.Level = m.fb.logLevel
	next.Database.Path = strings.TrimSpace(m.fb.dbPath)
	restart := next.Database.Path != m.current.Database.Path

	save := m.save
	return func() tea.Msg {
		if err := save(&next); err != nil {
			return savedInternalMsg{err: err}
		}
		return savedInternalMsg{cfg: &next, restart: restart}
	}
}

func (m *Model) build() *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.Names()))
	for _, n := range theme.Names() {
		themes = append(themes, huh.NewOption(n, n))
	}
	levels := make([]huh.Option[string], 0, len(logger.Levels))
	for _, l := range logger.Levels {
		levels = append(levels, huh.NewOption(l, l))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("School name").
				Value(&m.fb.schoolName).
				Validate(ui.ValidateRequired("School name")),
			huh.NewInput().
				Title("Student code prefix").
				Description("Used when suggesting codes for new students.").
				Value(&m.fb.codePrefix).
				Validate(ui.ValidateRequired("Prefix")),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&m.fb.theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(levels...).
				Value(&m.fb.logLevel),
			huh.NewInput().
				Title("Database file").
				Description("Takes effect on the next launch.").
				Value(&m.fb.dbPath).
				Validate(ui.ValidateRequired("Database file")),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

// View renders the settings screen.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.TitleStyle.Render("Settings") + "\n" + m.form.View())
	}

	c := m.current
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Settings"))
	b.WriteString("\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", theme.DimmedStyle.Render(fmt.Sprintf("%-20s", label)), value)
	}
	row("School name", c.School.Name)
	row("Code prefix", c.School.CodePrefix)
	row("Theme", c.Display.Theme)
	row("Log level", c.Log.Level)
	row("Database", c.Database.Path)
	row("Log file", c.Log.File)

	if m.err != nil {
		b.WriteString("\n" + theme.ErrorStyle.Render(fmt.Sprintf("Error saving settings: %v", m.err)) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + theme.MessageStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + theme.HelpStyle.Render("e/enter edit | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}
