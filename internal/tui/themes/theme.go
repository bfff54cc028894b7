package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Header        lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
	Positive      lipgloss.Color
	Negative      lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#7c3aed"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Info:       lipgloss.Color("#3b82f6"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),
	Positive:   lipgloss.Color("#10b981"),
	Negative:   lipgloss.Color("#ef4444"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),

	// Tabs
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#7c3aed")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 2),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(0, 1),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = Theme{
	// Colors
	Primary:    lipgloss.Color("#cba6f7"),
	Success:    lipgloss.Color("#a6e3a1"),
	Warning:    lipgloss.Color("#f9e2af"),
	Error:      lipgloss.Color("#f38ba8"),
	Info:       lipgloss.Color("#89dceb"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Border:     lipgloss.Color("#45475a"),
	Muted:      lipgloss.Color("#6c7086"),
	Positive:   lipgloss.Color("#a6e3a1"),
	Negative:   lipgloss.Color("#f38ba8"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f5c2e7")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#cba6f7")).
		Foreground(lipgloss.Color("#1e1e2e")).
		Bold(true),

	// Tabs
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1e1e2e")).
		Background(lipgloss.Color("#cba6f7")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Padding(0, 2),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(0, 1),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6e3a1")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f9e2af")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89dceb")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")).
		Italic(true),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryColor returns the heading color of a positive or negative table.
func (t Theme) CategoryColor(positive bool) lipgloss.Color {
	if positive {
		return t.Positive
	}
	return t.Negative
}
