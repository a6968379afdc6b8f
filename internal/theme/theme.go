package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors the styles are built from.
type Palette struct {
	Accent lipgloss.TerminalColor
	Good   lipgloss.TerminalColor
	Warn   lipgloss.TerminalColor
	Bad    lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Subtle lipgloss.TerminalColor
	Border lipgloss.TerminalColor
}

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Palettes are the themes selectable with display.theme.
var Palettes = map[string]Palette{
	"default": {
		Accent: ColorBlue,
		Good:   ColorGreen,
		Warn:   ColorYellow,
		Bad:    ColorRed,
		Muted:  ColorGray,
		Text:   ColorWhite,
		Subtle: ColorSubtle,
		Border: ColorBorder,
	},
	"green": {
		Accent: lipgloss.AdaptiveColor{Dark: "#38A169", Light: "#22543D"},
		Good:   ColorGreen,
		Warn:   ColorYellow,
		Bad:    ColorRed,
		Muted:  ColorGray,
		Text:   ColorWhite,
		Subtle: lipgloss.AdaptiveColor{Dark: "#2F4F3A", Light: "#C6F6D5"},
		Border: ColorBorder,
	},
	"mono": {
		Accent: lipgloss.NoColor{},
		Good:   lipgloss.NoColor{},
		Warn:   lipgloss.NoColor{},
		Bad:    lipgloss.NoColor{},
		Muted:  lipgloss.NoColor{},
		Text:   lipgloss.NoColor{},
		Subtle: lipgloss.NoColor{},
		Border: lipgloss.NoColor{},
	},
}

// Styles derived from the active palette. Use rebuilds them.
var (
	// HeaderStyle is used for top-level section headers and the application title.
	HeaderStyle lipgloss.Style
	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style
	// PanelStyle wraps overlays such as help and the command palette.
	PanelStyle lipgloss.Style
	// TitleStyle renders screen titles.
	TitleStyle lipgloss.Style
	// ListItemStyle is the base style for items in a list.
	ListItemStyle lipgloss.Style
	// SelectedItemStyle highlights the currently focused list item.
	SelectedItemStyle lipgloss.Style
	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style
	// DimmedStyle renders secondary text.
	DimmedStyle lipgloss.Style
	// MessageStyle renders transient status messages.
	MessageStyle lipgloss.Style
	// ErrorStyle renders errors.
	ErrorStyle lipgloss.Style

	active = "default"
	colors Palette
)

func init() {
	Use("default")
}

// Use switches to the named palette, falling back to "default" for an
// unknown name. It reports whether name was known.
func Use(name string) bool {
	p, ok := Palettes[name]
	if !ok {
		name = "default"
		p = Palettes[name]
	}
	active = name
	colors = p

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Accent).
		Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Subtle).
		Padding(0, 1)
	PanelStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		MarginBottom(1)
	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(p.Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Accent)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)
	DimmedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	MessageStyle = lipgloss.NewStyle().
		Foreground(p.Warn).
		Italic(true)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Bad).
		Bold(true)
	return ok
}

// Active returns the name of the palette in use.
func Active() string { return active }

// Names returns the selectable palette names in display order.
func Names() []string { return []string{"default", "green", "mono"} }

// PresenceStyle colors an attendance mark.
func PresenceStyle(present bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if present {
		return base.Foreground(colors.Good)
	}
	return base.Foreground(colors.Muted)
}

// ResultStyle colors a pass flag: passed, retake, or unmarked.
func ResultStyle(passed *bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case passed == nil:
		return base.Foreground(colors.Muted)
	case *passed:
		return base.Foreground(colors.Good)
	default:
		return base.Foreground(colors.Warn)
	}
}

// RateStyle colors an attendance rate.
func RateStyle(rate float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case rate >= 0.8:
		return base.Foreground(colors.Good)
	case rate >= 0.5:
		return base.Foreground(colors.Warn)
	default:
		return base.Foreground(colors.Bad)
	}
}
