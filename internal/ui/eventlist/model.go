// Package eventlist implements the event view: the flat list of
// planner events with a modal create/edit form and a confirmation
// gated delete.
package eventlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/confirm"
	"github.com/Hadern04/orgbot/internal/filter"
	"github.com/Hadern04/orgbot/internal/keys"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/internal/theme"
	"github.com/Hadern04/orgbot/internal/ui"
	"github.com/Hadern04/orgbot/internal/ui/modal"
)

type uiMode int

const (
	modeList uiMode = iota
	modeForm
	modeConfirm
)

type sortMode int

const (
	sortSnapshot sortMode = iota
	sortTitle
	sortDate
)

var periodChoices = []int{0, 1, 3, 6}

// periodIndex maps a configured month count onto the filter cycle.
// Unknown values fall back to "all".
func periodIndex(months int) int {
	for i, c := range periodChoices {
		if c == months {
			return i
		}
	}
	return 0
}

// reloadMsg asks Update to issue the initial fetch. Init cannot call
// Reload itself: Init runs on a copy, so a sequence number bumped there
// would never reach the stored model and the response would be dropped
// as stale.
type reloadMsg struct{}

type loadedMsg struct {
	seq    int
	events []model.Event
	err    error
}

type editReadyMsg struct {
	event model.Event
	err   error
}

type savedMsg struct{ err error }

type deletedMsg struct{ err error }

type formBindings struct {
	title    string
	date     string
	location string
}

type deleteRequest struct {
	id        string
	confirmed bool
}

// Model is the Bubble Tea model for the event view.
type Model struct {
	events  *api.Events
	ownerID string
	keys    *keys.KeyMap

	snapshot  []model.Event
	fetchSeq  int
	loading   bool
	periodIdx int
	sort      sortMode

	selectedIdx int

	mode   uiMode
	dialog modal.State
	form   *huh.Form
	fb     *formBindings

	confirmDlg *confirm.Dialog
	pendingDel *deleteRequest

	width  int
	height int
}

// New creates the event view. periodMonths is the configured default
// filter window in months, zero for all.
func New(events *api.Events, ownerID string, k *keys.KeyMap, periodMonths, width, height int) Model {
	return Model{
		events:    events,
		ownerID:   ownerID,
		keys:      k,
		periodIdx: periodIndex(periodMonths),
		fb:        &formBindings{},
		width:     width,
		height:    height,
	}
}

// Init schedules the initial snapshot load.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// Reload fetches the event snapshot with last-fetch-wins tagging.
func (m *Model) Reload() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	seq := m.fetchSeq
	ev := m.events
	owner := m.ownerID
	return func() tea.Msg {
		events, err := ev.List(context.Background(), owner)
		return loadedMsg{seq: seq, events: events, err: err}
	}
}

// Update handles messages for the event view.
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
		m.snapshot = msg.events
		m.clampSelection()
		return m, nil

	case editReadyMsg:
		if msg.err != nil {
			m.dialog.AbortOpen()
			m.mode = modeList
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		return m.showForm(msg.event)

	case savedMsg:
		if msg.err != nil {
			_ = m.dialog.SettleSubmit(false)
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		_ = m.dialog.SettleSubmit(true)
		m.mode = modeList
		m.form = nil
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Event saved", false))

	case deletedMsg:
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Event deleted", false))

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	projection := m.projection()

	switch {
	case key.Matches(msg, m.keys.Down):
		if len(projection) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(projection)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(projection) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(projection) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.Reload()
		return m, cmd

	case key.Matches(msg, m.keys.CyclePeriod):
		m.periodIdx = (m.periodIdx + 1) % len(periodChoices)
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.ClearFilter):
		m.periodIdx = 0
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.sort = (m.sort + 1) % 3
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.openAddForm()

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		if len(projection) == 0 {
			return m, nil
		}
		return m.openEditForm(projection[m.selectedIdx].ID)

	case key.Matches(msg, m.keys.Delete):
		if len(projection) == 0 {
			return m, nil
		}
		return m.openDeleteConfirm(projection[m.selectedIdx])
	}
	return m, nil
}

func (m Model) projection() []model.Event {
	pred := filter.Window(time.Now(), periodChoices[m.periodIdx], func(e model.Event) time.Time {
		return e.Date.Time
	})
	out := filter.Apply(m.snapshot, pred)

	switch m.sort {
	case sortTitle:
		out = filter.SortByTitle(out, func(e model.Event) string { return e.Title })
	case sortDate:
		out = filter.SortByDate(out, func(e model.Event) time.Time { return e.Date.Time })
	}
	return out
}

func (m *Model) clampSelection() {
	n := len(m.projection())
	if m.selectedIdx >= n && m.selectedIdx > 0 {
		m.selectedIdx = n - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// --- dialog -------------------------------------------------------

func (m Model) openAddForm() (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeAdd, ""); err != nil {
		return m, nil
	}
	m.fb.title = ""
	m.fb.date = time.Now().Format("2006-01-02")
	m.fb.location = ""
	return m.showOpenedForm()
}

func (m Model) openEditForm(id string) (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeEdit, id); err != nil {
		return m, nil
	}

	for _, ev := range m.snapshot {
		if ev.ID == id {
			return m.showForm(ev)
		}
	}

	events := m.events
	return m, func() tea.Msg {
		got, err := events.Get(context.Background(), id)
		if err != nil {
			return editReadyMsg{err: err}
		}
		return editReadyMsg{event: *got}
	}
}

func (m Model) showForm(ev model.Event) (Model, tea.Cmd) {
	m.fb.title = ev.Title
	m.fb.date = ev.Date.String()
	m.fb.location = ev.Location
	return m.showOpenedForm()
}

func (m Model) showOpenedForm() (Model, tea.Cmd) {
	if err := m.dialog.CompleteOpen(); err != nil {
		return m, nil
	}
	m.form = m.buildForm()
	m.mode = modeForm
	return m, m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Event title").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(func(s string) error {
					if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("invalid date, use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Location").
				Placeholder("Venue or address").
				Value(&m.fb.location),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.dialog.Close()
		m.mode = modeList
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if err := m.dialog.BeginSubmit(); err != nil {
		return m, nil
	}

	date, err := model.ParseDate(strings.TrimSpace(m.fb.date))
	if err != nil {
		_ = m.dialog.SettleSubmit(false)
		return m, ui.ToastCmd("Invalid event date", true)
	}

	payload := model.Event{
		ID:       m.dialog.TargetID(),
		Title:    strings.TrimSpace(m.fb.title),
		Date:     date,
		Location: strings.TrimSpace(m.fb.location),
		OwnerID:  m.ownerID,
	}

	events := m.events
	isEdit := m.dialog.Mode() == modal.ModeEdit
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if isEdit {
			_, err = events.Update(ctx, payload.ID, payload)
		} else {
			_, err = events.Create(ctx, payload)
		}
		return savedMsg{err: err}
	}
}

// --- delete -------------------------------------------------------

func (m Model) openDeleteConfirm(ev model.Event) (Model, tea.Cmd) {
	req := &deleteRequest{id: ev.ID}
	m.pendingDel = req
	m.confirmDlg = confirm.NewDialog(
		fmt.Sprintf("Delete event %q?", ev.Title),
		"Checklists linked to it will keep their reference and show no event.",
		func(confirmed bool) { req.confirmed = confirmed },
	)
	m.mode = modeConfirm
	return m, m.confirmDlg.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmDlg == nil {
		m.mode = modeList
		return m, nil
	}
	done, cmd := m.confirmDlg.Update(msg)
	if !done {
		return m, cmd
	}

	req := m.pendingDel
	m.confirmDlg = nil
	m.pendingDel = nil
	m.mode = modeList

	if req == nil || !req.confirmed {
		return m, cmd
	}

	events := m.events
	id := req.id
	return m, func() tea.Msg {
		return deletedMsg{err: events.Delete(context.Background(), id)}
	}
}

// --- rendering ----------------------------------------------------

// View renders the event view.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	case modeConfirm:
		if m.confirmDlg == nil {
			return ""
		}
		return m.confirmDlg.View()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	period := "any time"
	if months := periodChoices[m.periodIdx]; months > 0 {
		period = fmt.Sprintf("next %dmo", months)
	}
	sortLabel := ""
	switch m.sort {
	case sortTitle:
		sortLabel = " | sort: title"
	case sortDate:
		sortLabel = " | sort: date"
	}
	b.WriteString(theme.HelpStyle.Render(period + sortLabel))
	b.WriteString("\n\n")

	projection := m.projection()

	if m.loading && len(m.snapshot) == 0 {
		b.WriteString(theme.HelpStyle.Render("Loading..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if len(projection) == 0 {
		if len(m.snapshot) == 0 && periodChoices[m.periodIdx] == 0 {
			b.WriteString(theme.EmptyStateStyle.Render(
				"No events yet.\nPress 'n' to create your first one.",
			))
		} else {
			b.WriteString(theme.EmptyStateStyle.Render(
				"No events match the current filters.\nPress 'F' to clear them.",
			))
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	for i, ev := range projection {
		line := fmt.Sprintf("%s  ·  %s", ev.Title, ev.Date.String())
		if ev.Location != "" {
			line += "  ·  " + ev.Location
		}
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"n new | e edit | d delete | p period | F clear | tab sort | r refresh",
	))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Editing reports whether a dialog or confirmation currently owns
// keyboard input, which suppresses global shortcuts.
func (m Model) Editing() bool {
	return m.mode != modeList
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
