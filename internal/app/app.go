// Package app holds the root Bubble Tea model: view routing, the
// shared layout frame, and the transient toast line.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/guard"
	"github.com/Hadern04/orgbot/internal/keys"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/internal/ui"
	"github.com/Hadern04/orgbot/internal/ui/calview"
	"github.com/Hadern04/orgbot/internal/ui/checklists"
	"github.com/Hadern04/orgbot/internal/ui/contractors"
	"github.com/Hadern04/orgbot/internal/ui/eventlist"
)

const toastDuration = 4 * time.Second

// toastExpiredMsg clears the toast line. The generation counter keeps
// an old expiry from wiping a newer toast.
type toastExpiredMsg struct {
	generation int
}

// ViewState identifies the active top-level view.
type ViewState int

const (
	ViewEvents ViewState = iota
	ViewChecklists
	ViewContractors
	ViewCalendar
	ViewHelp
)

// Model is the root Bubble Tea model that routes messages between the
// four entity views and renders the shared frame around them.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	ready        bool

	events      eventlist.Model
	checklists  checklists.Model
	contractors contractors.Model
	calendar    calview.Model

	helpModel help.Model

	toast    ui.Toast
	toastGen int
}

// New wires the collection clients and creates the root model.
func New(cfg *model.AppConfig, client *api.Client) Model {
	k := keys.DefaultKeyMap()
	owner := cfg.Server.OwnerID

	eventsAPI := api.NewEvents(client)
	checklistsAPI := api.NewChecklists(client)
	categoriesAPI := api.NewCategories(client)
	contractorsAPI := api.NewContractors(client)
	tasksAPI := api.NewTasks(client)

	g := guard.NewCategoryGuard(contractorsAPI, categoriesAPI, owner)

	return Model{
		currentView: ViewEvents,
		keys:        k,
		events:      eventlist.New(eventsAPI, owner, k, cfg.Display.PeriodMonths, 80, 24),
		checklists:  checklists.New(checklistsAPI, eventsAPI, owner, k, cfg.Display.PeriodMonths, 80, 24),
		contractors: contractors.New(contractorsAPI, categoriesAPI, g, owner, k, 80, 24),
		calendar:    calview.New(tasksAPI, owner, k, cfg.Display.CalendarView, 80, 24),
		helpModel:   help.New(),
	}
}

// Init loads the initial snapshot of the starting view.
func (m Model) Init() tea.Cmd {
	return m.events.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.events.SetSize(contentWidth, contentHeight)
		m.checklists.SetSize(contentWidth, contentHeight)
		m.contractors.SetSize(contentWidth, contentHeight)
		m.calendar.SetSize(contentWidth, contentHeight)
		m.helpModel.Width = contentWidth
		// Forward to the active view so huh forms can size themselves.
		return m.updateActiveView(msg)

	case ui.Toast:
		m.toast = msg
		m.toastGen++
		gen := m.toastGen
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{generation: gen}
		})

	case toastExpiredMsg:
		if msg.generation == m.toastGen {
			m.toast = ui.Toast{}
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey handles keys that apply regardless of the active
// view. They are suppressed while a view's dialog owns the keyboard
// so typing into a form never switches views.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	if m.activeViewEditing() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case key.Matches(msg, m.keys.ViewEvents):
		return m.switchTo(ViewEvents), true

	case key.Matches(msg, m.keys.ViewChecklists):
		return m.switchTo(ViewChecklists), true

	case key.Matches(msg, m.keys.ViewContractors):
		return m.switchTo(ViewContractors), true

	case key.Matches(msg, m.keys.ViewCalendar):
		return m.switchTo(ViewCalendar), true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
	}

	return nil, false
}

// switchTo changes the active view and reloads its snapshot so stale
// data from a previous visit is never shown.
func (m *Model) switchTo(v ViewState) tea.Cmd {
	if m.currentView == v {
		return nil
	}
	m.previousView = m.currentView
	m.currentView = v

	switch v {
	case ViewEvents:
		return m.events.Reload()
	case ViewChecklists:
		return m.checklists.Reload()
	case ViewContractors:
		return m.contractors.Reload()
	case ViewCalendar:
		return m.calendar.Reload()
	}
	return nil
}

func (m Model) activeViewEditing() bool {
	switch m.currentView {
	case ViewEvents:
		return m.events.Editing()
	case ViewChecklists:
		return m.checklists.Editing()
	case ViewContractors:
		return m.contractors.Editing()
	case ViewCalendar:
		return m.calendar.Editing()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	case ViewChecklists:
		m.checklists, cmd = m.checklists.Update(msg)
	case ViewContractors:
		m.contractors, cmd = m.contractors.Update(msg)
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Orgbot", m.viewName())
	content := m.renderContent()
	toast := m.layout.RenderToast(m.toast.Text, m.toast.IsError)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, toast, statusBar)
}

func (m Model) viewName() string {
	switch m.currentView {
	case ViewEvents:
		return "Events"
	case ViewChecklists:
		return "Checklists"
	case ViewContractors:
		return "Contractors"
	case ViewCalendar:
		return "Calendar"
	case ViewHelp:
		return "Help"
	default:
		return ""
	}
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewEvents:
		return m.events.View()
	case ViewChecklists:
		return m.checklists.View()
	case ViewContractors:
		return m.contractors.View()
	case ViewCalendar:
		return m.calendar.View()
	case ViewHelp:
		return m.helpModel.FullHelpView(m.keys.FullHelp())
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.currentView == ViewHelp {
		return "? close help | esc back"
	}
	if m.activeViewEditing() {
		return "enter confirm | esc cancel"
	}
	return "q quit | ? help | 1 events | 2 checklists | 3 contractors | 4 calendar"
}
