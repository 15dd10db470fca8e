package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelfwatch/internal/catalog"
)

// Theme defines the colors used for terminal output.
type Theme struct {
	Name string

	Border string
	Text   string
	Muted  string
	Faint  string
	Accent string

	Success string
	Warning string
	Danger  string

	// Status colors keyed by catalog.Status text.
	StatusColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Header      lipgloss.Style
	Cell        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Border      lipgloss.Style

	statusColors map[string]string
	fallback     string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)),

		statusColors: t.StatusColors,
		fallback:     t.Muted,
	}
}

// StatusStyle returns the cell style for a status.
func (s Styles) StatusStyle(status catalog.Status) lipgloss.Style {
	color := s.statusColors[status.String()]
	if color == "" {
		color = s.fallback
	}
	return s.Cell.Foreground(lipgloss.Color(color))
}

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
}

var themeOrder = []string{"Dracula", "Slate"}

// GetTheme returns a theme by name, defaulting to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// HasTheme reports whether name is a known theme.
func HasTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

func draculaTheme() Theme {
	// https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Border: "#44475A",
		Text:   "#F8F8F2",
		Muted:  "#6272A4",
		Faint:  "#44475A",
		Accent: "#BD93F9",

		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",

		StatusColors: map[string]string{
			"available": "#50FA7B",
			"on_loan":   "#FFB86C",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette
	return Theme{
		Name: "Slate",

		Border: "#334155", // slate-700
		Text:   "#f1f5f9", // slate-100
		Muted:  "#94a3b8", // slate-400
		Faint:  "#64748b", // slate-500
		Accent: "#38bdf8", // sky-400

		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500

		StatusColors: map[string]string{
			"available": "#16a34a", // green-600
			"on_loan":   "#ea580c", // orange-600
		},
	}
}
