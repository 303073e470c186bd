package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// CardStyle wraps a list card's content area.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ToastSuccessStyle renders transient success messages.
var ToastSuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen).
	Italic(true)

// ToastErrorStyle renders transient error messages.
var ToastErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Italic(true)

// EmptyStateStyle renders create-first and clear-filters hints.
var EmptyStateStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true).
	Padding(2, 4)

// ProgressStyle returns a color-coded style for a checklist's derived
// completion status.
func ProgressStyle(complete bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if complete {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorYellow)
}

// DeadlineStyle returns a color-coded style for how far away a
// deadline is, in days. Negative means overdue.
func DeadlineStyle(daysLeft int) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch {
	case daysLeft < 0:
		return base.Foreground(ColorRed).Bold(true)
	case daysLeft <= 7:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}

// NotifyStyle returns the style for a task's notification policy label.
func NotifyStyle(policy string) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	if policy == "" || policy == "none" {
		return base.Foreground(ColorGray)
	}
	return base.Foreground(ColorMagenta).Bold(true)
}
