package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todolist-go/internal/todo"
)

// Theme is the set of styles the TUI renders with.
type Theme struct {
	Dark bool

	Header   lipgloss.Style
	Toggle   lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Done     lipgloss.Style

	high, medium, low lipgloss.Color
}

type palette struct {
	fg, bg, accent, muted, selectedFg, selectedBg, errFg, ok lipgloss.Color
	high, medium, low                                        lipgloss.Color
}

var (
	lightPalette = palette{
		fg:         lipgloss.Color("#1F2937"),
		bg:         lipgloss.Color("#FFFFFF"),
		accent:     lipgloss.Color("#2563EB"),
		muted:      lipgloss.Color("#6B7280"),
		selectedFg: lipgloss.Color("#FFFFFF"),
		selectedBg: lipgloss.Color("#2563EB"),
		errFg:      lipgloss.Color("#DC2626"),
		ok:         lipgloss.Color("#16A34A"),
		high:       lipgloss.Color("#DC2626"),
		medium:     lipgloss.Color("#D97706"),
		low:        lipgloss.Color("#16A34A"),
	}
	darkPalette = palette{
		fg:         lipgloss.Color("#E5E7EB"),
		bg:         lipgloss.Color("#111827"),
		accent:     lipgloss.Color("#89B4FA"),
		muted:      lipgloss.Color("#6C7086"),
		selectedFg: lipgloss.Color("#EE6FF8"),
		selectedBg: lipgloss.Color("#313244"),
		errFg:      lipgloss.Color("#F38BA8"),
		ok:         lipgloss.Color("#A6E3A1"),
		high:       lipgloss.Color("#F38BA8"),
		medium:     lipgloss.Color("#FAB387"),
		low:        lipgloss.Color("#F9E2AF"),
	}
)

// LightTheme returns the light theme.
func LightTheme() Theme { return newTheme(lightPalette, false) }

// DarkTheme returns the dark theme.
func DarkTheme() Theme { return newTheme(darkPalette, true) }

// ThemeFor returns DarkTheme when dark is set, LightTheme otherwise.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

func newTheme(p palette, dark bool) Theme {
	return Theme{
		Dark: dark,
		Header: lipgloss.NewStyle().
			Foreground(p.bg).
			Background(p.accent).
			Padding(0, 1).
			Bold(true),
		Toggle:   lipgloss.NewStyle().Foreground(p.accent).Underline(true),
		Section:  lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Label:    lipgloss.NewStyle().Foreground(p.fg).Width(12),
		Focused:  lipgloss.NewStyle().Foreground(p.accent).Bold(true).Width(12),
		Item:     lipgloss.NewStyle().Foreground(p.fg).PaddingLeft(2),
		Selected: lipgloss.NewStyle().Foreground(p.selectedFg).Background(p.selectedBg).PaddingLeft(2),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		Error:    lipgloss.NewStyle().Foreground(p.errFg).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(p.ok),
		Done:     lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true).PaddingLeft(2),
		high:     p.high,
		medium:   p.medium,
		low:      p.low,
	}
}

// ToggleLabel is the text of the theme toggle: it names the mode a press switches to.
func (t Theme) ToggleLabel() string {
	if t.Dark {
		return "Switch to Light Mode"
	}
	return "Switch to Dark Mode"
}

// PriorityStyle colors a priority label.
func (t Theme) PriorityStyle(p todo.Priority) lipgloss.Style {
	switch p {
	case todo.PriorityHigh:
		return lipgloss.NewStyle().Foreground(t.high).Bold(true)
	case todo.PriorityLow:
		return lipgloss.NewStyle().Foreground(t.low)
	default:
		return lipgloss.NewStyle().Foreground(t.medium)
	}
}
