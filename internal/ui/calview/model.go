// Package calview implements the scheduled-task view: a month-grid
// calendar with an agenda alternative, a modal task form with an
// embedded checklist editor, and the notify-now action.
package calview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/calendar"
	"github.com/Hadern04/orgbot/internal/confirm"
	"github.com/Hadern04/orgbot/internal/keys"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/internal/subedit"
	"github.com/Hadern04/orgbot/internal/theme"
	"github.com/Hadern04/orgbot/internal/ui"
	"github.com/Hadern04/orgbot/internal/ui/modal"
)

const startLayout = "2006-01-02 15:04"

type uiMode int

const (
	modeCalendar uiMode = iota
	modeFields
	modeItems
	modeConfirm
)

// reloadMsg asks Update to issue the initial fetch. Init cannot call
// Reload itself: Init runs on a copy, so a sequence number bumped there
// would never reach the stored model and the response would be dropped
// as stale.
type reloadMsg struct{}

type loadedMsg struct {
	seq   int
	tasks []model.ScheduledTask
	err   error
}

type editReadyMsg struct {
	task model.ScheduledTask
	err  error
}

type savedMsg struct{ err error }

type deletedMsg struct{ err error }

type notifiedMsg struct{ err error }

type formBindings struct {
	title        string
	start        string
	project      string
	description  string
	notification model.NotifyPolicy
}

type deleteRequest struct {
	id        string
	confirmed bool
}

// Model is the Bubble Tea model for the calendar view.
type Model struct {
	tasks   *api.Tasks
	ownerID string
	keys    *keys.KeyMap

	snapshot []model.ScheduledTask
	fetchSeq int
	loading  bool

	widget *calendar.Widget

	mode   uiMode
	dialog modal.State
	form   *huh.Form
	fb     *formBindings
	editor *subedit.Editor

	itemInput textinput.Model
	itemIdx   int

	confirmDlg *confirm.Dialog
	pendingDel *deleteRequest

	width  int
	height int
}

// New creates the calendar view. initialView selects the starting
// widget rendering (month grid or agenda) from configuration.
func New(
	tasks *api.Tasks,
	ownerID string,
	k *keys.KeyMap,
	initialView string,
	width, height int,
) Model {
	input := textinput.New()
	input.Placeholder = "new item text..."
	input.Prompt = "+ "
	input.CharLimit = 200

	w := calendar.NewWidget(time.Now())
	w.ChangeView(calendar.ParseView(initialView))

	return Model{
		tasks:     tasks,
		ownerID:   ownerID,
		keys:      k,
		widget:    w,
		fb:        &formBindings{},
		editor:    subedit.New(),
		itemInput: input,
		width:     width,
		height:    height,
	}
}

// Init schedules the initial snapshot load.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// Reload fetches the task snapshot with last-fetch-wins tagging.
func (m *Model) Reload() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	seq := m.fetchSeq
	tc := m.tasks
	owner := m.ownerID
	return func() tea.Msg {
		tasks, err := tc.List(context.Background(), owner)
		return loadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reloadMsg:
		cmd := m.Reload()
		return m, cmd

	case loadedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		m.snapshot = msg.tasks
		// Re-feed the widget wholesale: clear, then add the mapped
		// source. The widget never accumulates across reloads.
		m.widget.RemoveAllEvents()
		events := make([]calendar.WidgetEvent, 0, len(msg.tasks))
		for _, t := range msg.tasks {
			events = append(events, calendar.ToWidgetEvent(t))
		}
		m.widget.AddEventSource(events)
		return m, nil

	case editReadyMsg:
		if msg.err != nil {
			m.dialog.AbortOpen()
			m.mode = modeCalendar
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		return m.showEditForm(msg.task)

	case savedMsg:
		if msg.err != nil {
			_ = m.dialog.SettleSubmit(false)
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		_ = m.dialog.SettleSubmit(true)
		m.mode = modeCalendar
		m.form = nil
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Task saved", false))

	case deletedMsg:
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Task deleted", false))

	case notifiedMsg:
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		return m, ui.ToastCmd("Notification sent", false)

	case tea.KeyMsg:
		switch m.mode {
		case modeCalendar:
			return m.handleCalendarKey(msg)
		case modeFields:
			return m.updateFieldsForm(msg)
		case modeItems:
			return m.handleItemsKey(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
	}

	switch m.mode {
	case modeFields:
		return m.updateFieldsForm(msg)
	case modeItems:
		var cmd tea.Cmd
		m.itemInput, cmd = m.itemInput.Update(msg)
		return m, cmd
	case modeConfirm:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.widget.MoveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.widget.MoveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.widget.MoveSelection(-7)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.widget.MoveSelection(7)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.Reload()
		return m, cmd

	case key.Matches(msg, m.keys.SwitchView):
		if m.widget.CurrentView() == calendar.ViewMonth {
			m.widget.ChangeView(calendar.ViewAgenda)
		} else {
			m.widget.ChangeView(calendar.ViewMonth)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.openAddForm(calendar.DateClick{Day: m.widget.SelectedDay()})

	case key.Matches(msg, m.keys.Select):
		// A day with a task opens it for editing; an empty day starts
		// a create pre-filled with that day at noon.
		evClick, dateClick, isEvent := m.widget.ClickSelected()
		if isEvent {
			return m.openEditForm(calendar.EditTarget(evClick))
		}
		return m.openAddForm(dateClick)

	case key.Matches(msg, m.keys.Edit):
		evClick, _, isEvent := m.widget.ClickSelected()
		if !isEvent {
			return m, nil
		}
		return m.openEditForm(calendar.EditTarget(evClick))

	case key.Matches(msg, m.keys.Delete):
		events := m.widget.EventsOn(m.widget.SelectedDay())
		if len(events) == 0 {
			return m, nil
		}
		return m.openDeleteConfirm(events[0])

	case key.Matches(msg, m.keys.NotifyNow):
		events := m.widget.EventsOn(m.widget.SelectedDay())
		if len(events) == 0 {
			return m, nil
		}
		tc := m.tasks
		id := events[0].ID
		return m, func() tea.Msg {
			return notifiedMsg{err: tc.Notify(context.Background(), id)}
		}
	}

	switch msg.String() {
	case "[":
		m.widget.PrevMonth()
		return m, nil
	case "]":
		m.widget.NextMonth()
		return m, nil
	}
	return m, nil
}

// --- dialog -------------------------------------------------------

func (m Model) openAddForm(click calendar.DateClick) (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeAdd, ""); err != nil {
		return m, nil
	}
	m.fb.title = ""
	m.fb.start = calendar.CreateStart(click).Format(startLayout)
	m.fb.project = ""
	m.fb.description = ""
	m.fb.notification = model.NotifyNone
	m.editor.SeedTasks(nil)
	if err := m.dialog.CompleteOpen(); err != nil {
		return m, nil
	}
	m.form = m.buildFieldsForm()
	m.mode = modeFields
	return m, m.form.Init()
}

func (m Model) openEditForm(id string) (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeEdit, id); err != nil {
		return m, nil
	}

	for _, t := range m.snapshot {
		if t.ID == id {
			return m.showEditForm(t)
		}
	}

	tc := m.tasks
	return m, func() tea.Msg {
		got, err := tc.Get(context.Background(), id)
		if err != nil {
			return editReadyMsg{err: err}
		}
		return editReadyMsg{task: *got}
	}
}

func (m Model) showEditForm(t model.ScheduledTask) (Model, tea.Cmd) {
	if err := m.dialog.CompleteOpen(); err != nil {
		return m, nil
	}
	m.fb.title = t.Title
	m.fb.start = t.Start.Format(startLayout)
	m.fb.project = t.Project
	m.fb.description = t.Description
	m.fb.notification = model.ParseNotifyPolicy(string(t.Notification))
	m.editor.SeedTasks(t.Checklist)
	m.form = m.buildFieldsForm()
	m.mode = modeFields
	return m, m.form.Init()
}

func (m *Model) buildFieldsForm() *huh.Form {
	notifyOpts := make([]huh.Option[model.NotifyPolicy], 0, len(model.NotifyPolicies))
	for _, p := range model.NotifyPolicies {
		notifyOpts = append(notifyOpts, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Task title").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Start").
				Placeholder("YYYY-MM-DD HH:MM").
				Value(&m.fb.start).
				Validate(func(s string) error {
					if _, err := time.ParseInLocation(startLayout, strings.TrimSpace(s), time.Local); err != nil {
						return fmt.Errorf("invalid timestamp, use YYYY-MM-DD HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Project").
				Placeholder("Optional project tag").
				Value(&m.fb.project),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details").
				Value(&m.fb.description),
			huh.NewSelect[model.NotifyPolicy]().
				Title("Notification").
				Options(notifyOpts...).
				Value(&m.fb.notification),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateFieldsForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.mode = modeItems
		m.itemIdx = 0
		m.itemInput.Reset()
		return m, m.itemInput.Focus()
	}
	if m.form.State == huh.StateAborted {
		m.dialog.Close()
		m.mode = modeCalendar
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) handleItemsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.dialog.Close()
		m.mode = modeCalendar
		m.form = nil
		return m, nil

	case "enter":
		if _, err := m.editor.Append(m.itemInput.Value()); err != nil {
			if errors.Is(err, subedit.ErrEmptyText) {
				return m, ui.ToastCmd("Enter the item text first", true)
			}
			return m, ui.ToastCmd(err.Error(), true)
		}
		m.itemInput.Reset()
		m.itemIdx = m.editor.Len() - 1
		return m, nil

	case "up":
		if m.itemIdx > 0 {
			m.itemIdx--
		}
		return m, nil

	case "down":
		if m.itemIdx < m.editor.Len()-1 {
			m.itemIdx++
		}
		return m, nil

	case "ctrl+x":
		drafts := m.editor.Drafts()
		if m.itemIdx < len(drafts) {
			m.editor.Toggle(drafts[m.itemIdx].ID)
		}
		return m, nil

	case "ctrl+d":
		drafts := m.editor.Drafts()
		if m.itemIdx < len(drafts) {
			m.editor.Remove(drafts[m.itemIdx].ID)
			if m.itemIdx >= m.editor.Len() && m.itemIdx > 0 {
				m.itemIdx--
			}
		}
		return m, nil

	case "ctrl+s":
		return m.submit()
	}

	var cmd tea.Cmd
	m.itemInput, cmd = m.itemInput.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if !m.dialog.CanSubmit() {
		return m, nil
	}
	if err := m.dialog.BeginSubmit(); err != nil {
		return m, nil
	}

	start, err := time.ParseInLocation(startLayout, strings.TrimSpace(m.fb.start), time.Local)
	if err != nil {
		_ = m.dialog.SettleSubmit(false)
		return m, ui.ToastCmd("Invalid start timestamp", true)
	}

	payload := model.ScheduledTask{
		ID:           m.dialog.TargetID(),
		Title:        strings.TrimSpace(m.fb.title),
		Start:        start,
		Project:      strings.TrimSpace(m.fb.project),
		Description:  strings.TrimSpace(m.fb.description),
		Notification: m.fb.notification,
		Checklist:    m.editor.TaskPayload(),
		OwnerID:      m.ownerID,
	}

	tc := m.tasks
	isEdit := m.dialog.Mode() == modal.ModeEdit
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if isEdit {
			_, err = tc.Update(ctx, payload.ID, payload)
		} else {
			_, err = tc.Create(ctx, payload)
		}
		return savedMsg{err: err}
	}
}

// --- delete -------------------------------------------------------

func (m Model) openDeleteConfirm(ev calendar.WidgetEvent) (Model, tea.Cmd) {
	req := &deleteRequest{id: ev.ID}
	m.pendingDel = req
	m.confirmDlg = confirm.NewDialog(
		fmt.Sprintf("Delete task %q?", ev.Title),
		"",
		func(confirmed bool) { req.confirmed = confirmed },
	)
	m.mode = modeConfirm
	return m, m.confirmDlg.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmDlg == nil {
		m.mode = modeCalendar
		return m, nil
	}
	done, cmd := m.confirmDlg.Update(msg)
	if !done {
		return m, cmd
	}

	req := m.pendingDel
	m.confirmDlg = nil
	m.pendingDel = nil
	m.mode = modeCalendar

	if req == nil || !req.confirmed {
		return m, cmd
	}

	tc := m.tasks
	id := req.id
	return m, func() tea.Msg {
		return deletedMsg{err: tc.Delete(context.Background(), id)}
	}
}

// --- rendering ----------------------------------------------------

// View renders the calendar view.
func (m Model) View() string {
	switch m.mode {
	case modeFields:
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	case modeItems:
		return m.viewItems()
	case modeConfirm:
		if m.confirmDlg == nil {
			return ""
		}
		return m.confirmDlg.View()
	default:
		return m.viewCalendar()
	}
}

func (m Model) widgetStyles() calendar.Styles {
	return calendar.Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite),
		Weekday:  lipgloss.NewStyle().Foreground(theme.ColorGray),
		Empty:    lipgloss.NewStyle().Foreground(theme.ColorSubtle),
		HasEvent: lipgloss.NewStyle().Foreground(theme.ColorBlue).Bold(true),
		Today:    lipgloss.NewStyle().Foreground(theme.ColorGreen).Bold(true),
		Selected: lipgloss.NewStyle().Background(theme.ColorBlue).Foreground(theme.ColorWhite),
		Agenda:   lipgloss.NewStyle().Foreground(theme.ColorWhite),
	}
}

func (m Model) viewCalendar() string {
	var b strings.Builder

	if m.loading && len(m.snapshot) == 0 {
		b.WriteString(theme.HelpStyle.Render("Loading..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	b.WriteString(m.widget.Render(m.widgetStyles()))
	b.WriteString("\n")

	day := m.widget.SelectedDay()
	events := m.widget.EventsOn(day)
	if len(events) > 0 {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
			Render(day.Format("Mon, 2 Jan")))
		b.WriteString("\n")
		for _, ev := range events {
			task := calendar.FromWidgetEvent(ev, m.ownerID)
			line := fmt.Sprintf("%s  %s", ev.Start.Format("15:04"), ev.Title)
			if task.Project != "" {
				line += "  ·  " + task.Project
			}
			if task.Notification != model.NotifyNone {
				line += "  ·  " + theme.NotifyStyle(string(task.Notification)).
					Render(task.Notification.Label())
			}
			if len(task.Checklist) > 0 {
				done := 0
				for _, it := range task.Checklist {
					if it.Done {
						done++
					}
				}
				line += fmt.Sprintf("  ·  %d/%d", done, len(task.Checklist))
			}
			b.WriteString(theme.ListItemStyle.Render(line))
			b.WriteString("\n")
		}
	} else if len(m.snapshot) == 0 {
		b.WriteString(theme.EmptyStateStyle.Render(
			"No tasks scheduled.\nPress 'n' or enter on a day to create one.",
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"enter open/new | n new | e edit | d delete | N notify | v view | [ ] month | r refresh",
	))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) viewItems() string {
	var b strings.Builder

	title := "Task checklist"
	if m.fb.title != "" {
		title = m.fb.title
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(title))
	b.WriteString("\n\n")

	drafts := m.editor.Drafts()
	if len(drafts) == 0 {
		b.WriteString(theme.HelpStyle.Render("No items on this task yet."))
		b.WriteString("\n")
	}
	for i, d := range drafts {
		mark := "[ ]"
		if d.Done {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, d.Text)
		if i == m.itemIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.itemInput.View())
	b.WriteString("\n\n")

	if m.dialog.IsSubmitting() {
		b.WriteString(theme.HelpStyle.Render("Saving..."))
	} else {
		b.WriteString(theme.HelpStyle.Render(
			"enter add | ↑/↓ select | ctrl+x toggle | ctrl+d remove | ctrl+s save | esc cancel",
		))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Editing reports whether a dialog or confirmation currently owns
// keyboard input, which suppresses global shortcuts.
func (m Model) Editing() bool {
	return m.mode != modeCalendar
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 12 {
		h = 12
	}
	return h
}
