package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Hadern04/orgbot/internal/theme"
)

// Layout manages the terminal frame: header, content, an optional
// toast line, and the status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	ToastHeight     int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		ToastHeight:     1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content
// area, accounting for the header, toast line, and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.ToastHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with the app title and the
// active view name right-aligned.
func (l Layout) RenderHeader(title string, viewName string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	viewRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(viewName)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(viewRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		viewRendered,
	)
}

// RenderToast renders the transient message line. An empty message
// produces a blank line so the layout height stays constant.
func (l Layout) RenderToast(message string, isError bool) string {
	if message == "" {
		return ""
	}
	style := theme.ToastSuccessStyle
	if isError {
		style = theme.ToastErrorStyle
	}
	return style.PaddingLeft(1).Render(message)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, toast line, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	toast string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		toast,
		statusBar,
	)
}
