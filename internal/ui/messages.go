package ui

import tea "github.com/charmbracelet/bubbletea"

// Toast is a transient status message any view may emit; the root
// model renders it on the toast line.
type Toast struct {
	Text    string
	IsError bool
}

// ToastCmd wraps a toast into a command.
func ToastCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return Toast{Text: text, IsError: isError}
	}
}
