package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Dialog is the asynchronous in-terminal confirm surface: a huh
// confirm form that delivers its answer via the Answer callback when
// the form settles. A dismissed dialog answers false.
type Dialog struct {
	form    *huh.Form
	value   *bool
	deliver Answer
}

// NewDialog builds a confirm dialog for the given prompt.
func NewDialog(prompt, description string, deliver Answer) *Dialog {
	value := new(bool)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Description(description).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(value),
		),
	)
	return &Dialog{form: form, value: value, deliver: deliver}
}

// Init starts the underlying form.
func (d *Dialog) Init() tea.Cmd {
	return d.form.Init()
}

// Update advances the form. done reports that the answer has been
// delivered and the dialog should be discarded.
func (d *Dialog) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	mdl, cmd := d.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		d.deliver(*d.value)
		return true, cmd
	case huh.StateAborted:
		d.deliver(false)
		return true, cmd
	}
	return false, cmd
}

// View renders the dialog.
func (d *Dialog) View() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(d.form.View())
}
