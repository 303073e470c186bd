package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Views
	ViewEvents      key.Binding
	ViewChecklists  key.Binding
	ViewContractors key.Binding
	ViewCalendar    key.Binding

	// Entity actions
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Manual refresh
	Refresh key.Binding

	// Filters
	CycleParent key.Binding
	CycleStatus key.Binding
	CyclePeriod key.Binding
	ClearFilter key.Binding

	// Sort
	CycleSort key.Binding

	// Contractor categories
	Categories key.Binding

	// Calendar
	SwitchView key.Binding
	NotifyNow  key.Binding

	// Help toggle
	Help key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ViewEvents: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "events"),
		),
		ViewChecklists: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "checklists"),
		),
		ViewContractors: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "contractors"),
		),
		ViewCalendar: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "calendar"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		CycleParent: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter by event"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "filter by status"),
		),
		CyclePeriod: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "filter by period"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filters"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		Categories: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "categories"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "month/agenda"),
		),
		NotifyNow: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notify now"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.New, k.Edit, k.Delete, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Back, k.Quit},
		{k.ViewEvents, k.ViewChecklists, k.ViewContractors, k.ViewCalendar},
		{k.New, k.Edit, k.Delete, k.Refresh, k.Categories},
		{k.CycleParent, k.CycleStatus, k.CyclePeriod, k.ClearFilter, k.CycleSort},
		{k.SwitchView, k.NotifyNow, k.Help},
	}
}
