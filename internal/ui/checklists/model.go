// Package checklists implements the checklist card view: a filterable
// list backed by the remote collection, with a modal create/edit form
// whose nested item list is edited in memory and submitted atomically
// with its parent.
package checklists

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
	"github.com/Hadern04/orgbot/internal/confirm"
	"github.com/Hadern04/orgbot/internal/filter"
	"github.com/Hadern04/orgbot/internal/keys"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/internal/subedit"
	"github.com/Hadern04/orgbot/internal/theme"
	"github.com/Hadern04/orgbot/internal/ui"
	"github.com/Hadern04/orgbot/internal/ui/modal"
)

// uiMode selects which pane of the view is active. The dialog life
// cycle itself is tracked by modal.State; uiMode only distinguishes
// the two panes of an open dialog (scalar fields vs. item editor) and
// the delete confirmation.
type uiMode int

const (
	modeList uiMode = iota
	modeFields
	modeItems
	modeConfirm
)

// sortMode cycles through the explicit sort clauses.
type sortMode int

const (
	sortSnapshot sortMode = iota
	sortTitle
	sortDeadline
)

// periodChoices are the forward-looking window options, in months.
// Zero means no window.
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
	seq        int
	checklists []model.Checklist
	events     []model.Event
	err        error
}

type editReadyMsg struct {
	checklist model.Checklist
	err       error
}

type savedMsg struct{ err error }

type deletedMsg struct {
	id  string
	err error
}

type formBindings struct {
	name     string
	eventID  string
	deadline string
}

type deleteRequest struct {
	id        string
	confirmed bool
}

// Model is the Bubble Tea model for the checklist view.
type Model struct {
	checklists *api.Checklists
	events     *api.Events
	ownerID    string
	keys       *keys.KeyMap

	// snapshot is the view-owned mirror of the server collection;
	// projections are derived from it and never mutate it.
	snapshot   []model.Checklist
	eventsSnap []model.Event
	fetchSeq   int
	loading    bool

	selectedIdx int

	eventSel  string
	statusSel filter.Status
	periodIdx int
	sort      sortMode

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

// New creates the checklist view bound to its collections.
// periodMonths is the configured default filter window in months,
// zero for all.
func New(
	checklists *api.Checklists,
	events *api.Events,
	ownerID string,
	k *keys.KeyMap,
	periodMonths, width, height int,
) Model {
	input := textinput.New()
	input.Placeholder = "new item text..."
	input.Prompt = "+ "
	input.CharLimit = 200

	return Model{
		checklists: checklists,
		events:     events,
		ownerID:    ownerID,
		keys:       k,
		eventSel:   "all",
		statusSel:  filter.StatusAll,
		periodIdx:  periodIndex(periodMonths),
		fb:         &formBindings{},
		editor:     subedit.New(),
		itemInput:  input,
		width:      width,
		height:     height,
	}
}

// Init schedules the initial snapshot load.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// Reload fetches the snapshot, tagging the request so a stale response
// is discarded if a newer fetch has been issued meanwhile.
func (m *Model) Reload() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	seq := m.fetchSeq
	cl := m.checklists
	ev := m.events
	owner := m.ownerID
	return func() tea.Msg {
		ctx := context.Background()
		lists, err := cl.List(ctx, owner)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		events, err := ev.List(ctx, owner)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		return loadedMsg{seq: seq, checklists: lists, events: events}
	}
}

// Update handles messages for the checklist view.
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
		// Last-fetch-wins: drop anything but the newest response.
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		m.snapshot = msg.checklists
		m.eventsSnap = msg.events
		m.clampSelection()
		return m, nil

	case editReadyMsg:
		if msg.err != nil {
			m.dialog.AbortOpen()
			m.mode = modeList
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		return m.showEditForm(msg.checklist)

	case savedMsg:
		if msg.err != nil {
			// Stay open so the user can correct and re-submit.
			_ = m.dialog.SettleSubmit(false)
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		_ = m.dialog.SettleSubmit(true)
		m.mode = modeList
		m.form = nil
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Checklist saved", false))

	case deletedMsg:
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Checklist deleted", false))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActivePane(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeFields:
		return m.updateFieldsForm(msg)
	case modeItems:
		return m.handleItemsKey(msg)
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

	case key.Matches(msg, m.keys.CycleParent):
		m.cycleEventFilter()
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusSel = nextStatus(m.statusSel)
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.CyclePeriod):
		m.periodIdx = (m.periodIdx + 1) % len(periodChoices)
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.ClearFilter):
		m.eventSel = "all"
		m.statusSel = filter.StatusAll
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

// cycleEventFilter steps the parent-reference clause through
// all → each known event → all.
func (m *Model) cycleEventFilter() {
	if len(m.eventsSnap) == 0 {
		m.eventSel = "all"
		return
	}
	if m.eventSel == "all" {
		m.eventSel = m.eventsSnap[0].ID
		return
	}
	for i, ev := range m.eventsSnap {
		if ev.ID == m.eventSel {
			if i+1 < len(m.eventsSnap) {
				m.eventSel = m.eventsSnap[i+1].ID
			} else {
				m.eventSel = "all"
			}
			return
		}
	}
	m.eventSel = "all"
}

func nextStatus(s filter.Status) filter.Status {
	switch s {
	case filter.StatusAll:
		return filter.StatusComplete
	case filter.StatusComplete:
		return filter.StatusIncomplete
	default:
		return filter.StatusAll
	}
}

// hasActiveFilters reports whether any clause is non-default, which
// decides which empty-state hint to show.
func (m Model) hasActiveFilters() bool {
	return m.eventSel != "all" ||
		m.statusSel != filter.StatusAll ||
		periodChoices[m.periodIdx] != 0
}

// projection derives the visible list from the snapshot: composed
// filter clauses first, then the explicit sort if one is selected.
func (m Model) projection() []model.Checklist {
	now := time.Now()
	pred := filter.And(
		filter.ByParent(m.eventSel, func(c model.Checklist) string {
			return c.EventID
		}),
		filter.ByStatus(m.statusSel, model.Checklist.IsComplete),
		filter.Window(now, periodChoices[m.periodIdx], func(c model.Checklist) time.Time {
			return c.Deadline.Time
		}),
	)
	out := filter.Apply(m.snapshot, pred)

	switch m.sort {
	case sortTitle:
		out = filter.SortByTitle(out, func(c model.Checklist) string {
			return c.Name
		})
	case sortDeadline:
		out = filter.SortByDate(out, func(c model.Checklist) time.Time {
			return c.Deadline.Time
		})
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

// --- dialog: open -------------------------------------------------

func (m Model) openAddForm() (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeAdd, ""); err != nil {
		return m, nil
	}
	m.fb.name = ""
	m.fb.eventID = ""
	// Deadline prefills to today for quick entry.
	m.fb.deadline = time.Now().Format("2006-01-02")
	m.editor.Seed(nil)
	if err := m.dialog.CompleteOpen(); err != nil {
		return m, nil
	}
	m.form = m.buildFieldsForm()
	m.mode = modeFields
	return m, m.form.Init()
}

// openEditForm fetch-or-locates the target before the dialog may show.
// A target that vanished elsewhere aborts back to the list with a
// toast instead of opening an empty form.
func (m Model) openEditForm(id string) (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeEdit, id); err != nil {
		return m, nil
	}

	for _, c := range m.snapshot {
		if c.ID == id {
			return m.showEditForm(c)
		}
	}

	cl := m.checklists
	return m, func() tea.Msg {
		got, err := cl.Get(context.Background(), id)
		if err != nil {
			return editReadyMsg{err: err}
		}
		return editReadyMsg{checklist: *got}
	}
}

func (m Model) showEditForm(c model.Checklist) (Model, tea.Cmd) {
	if err := m.dialog.CompleteOpen(); err != nil {
		return m, nil
	}
	m.fb.name = c.Name
	m.fb.eventID = c.EventID
	m.fb.deadline = c.Deadline.String()
	m.editor.Seed(c.Items)
	m.form = m.buildFieldsForm()
	m.mode = modeFields
	return m, m.form.Init()
}

func (m *Model) buildFieldsForm() *huh.Form {
	eventOpts := []huh.Option[string]{
		huh.NewOption("No event", ""),
	}
	for _, ev := range m.eventsSnap {
		eventOpts = append(eventOpts, huh.NewOption(ev.Title, ev.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Checklist name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Event").
				Options(eventOpts...).
				Value(&m.fb.eventID),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.deadline).
				Validate(func(s string) error {
					if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("invalid date, use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// --- dialog: fields pane ------------------------------------------

func (m Model) updateFieldsForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		// Scalar fields accepted; move on to the item editor pane.
		m.mode = modeItems
		m.itemIdx = 0
		m.itemInput.Reset()
		return m, m.itemInput.Focus()
	}
	if m.form.State == huh.StateAborted {
		m.dialog.Close()
		m.mode = modeList
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// --- dialog: items pane -------------------------------------------

func (m Model) handleItemsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Discard without submit: no side effects.
		m.dialog.Close()
		m.mode = modeList
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

// submit issues the save. The submit control is disabled for the
// duration of the round trip and re-enabled exactly once on settle.
func (m Model) submit() (Model, tea.Cmd) {
	if !m.dialog.CanSubmit() {
		return m, nil
	}
	if err := m.dialog.BeginSubmit(); err != nil {
		return m, nil
	}

	deadline, err := model.ParseDate(strings.TrimSpace(m.fb.deadline))
	if err != nil {
		_ = m.dialog.SettleSubmit(false)
		return m, ui.ToastCmd("Invalid deadline date", true)
	}

	payload := model.Checklist{
		ID:       m.dialog.TargetID(),
		Name:     strings.TrimSpace(m.fb.name),
		EventID:  m.fb.eventID,
		Deadline: deadline,
		OwnerID:  m.ownerID,
		Items:    m.editor.Payload(),
	}

	cl := m.checklists
	isEdit := m.dialog.Mode() == modal.ModeEdit
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if isEdit {
			_, err = cl.Update(ctx, payload.ID, payload)
		} else {
			_, err = cl.Create(ctx, payload)
		}
		return savedMsg{err: err}
	}
}

// --- delete -------------------------------------------------------

func (m Model) openDeleteConfirm(c model.Checklist) (Model, tea.Cmd) {
	req := &deleteRequest{id: c.ID}
	m.pendingDel = req
	m.confirmDlg = confirm.NewDialog(
		fmt.Sprintf("Delete checklist %q?", c.Name),
		"Its items will be removed with it.",
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

	// "No" is a no-op with no visible state change.
	if req == nil || !req.confirmed {
		return m, cmd
	}

	cl := m.checklists
	id := req.id
	return m, func() tea.Msg {
		err := cl.Delete(context.Background(), id)
		return deletedMsg{id: id, err: err}
	}
}

func (m Model) updateActivePane(msg tea.Msg) (Model, tea.Cmd) {
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

// --- rendering ----------------------------------------------------

// View renders the checklist view.
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
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(m.filterBar())
	b.WriteString("\n\n")

	projection := m.projection()

	if m.loading && len(m.snapshot) == 0 {
		b.WriteString(theme.HelpStyle.Render("Loading..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if len(projection) == 0 {
		// Two distinct empty states: nothing exists at all vs.
		// everything filtered out.
		if len(m.snapshot) == 0 && !m.hasActiveFilters() {
			b.WriteString(theme.EmptyStateStyle.Render(
				"No checklists yet.\nPress 'n' to create your first one.",
			))
		} else {
			b.WriteString(theme.EmptyStateStyle.Render(
				"No checklists match the current filters.\nPress 'F' to clear them.",
			))
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	for i, c := range projection {
		b.WriteString(m.renderCard(c, i == m.selectedIdx))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"n new | e edit | d delete | f event | s status | p period | F clear | tab sort",
	))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderCard(c model.Checklist, selected bool) string {
	eventName := "No event"
	for _, ev := range m.eventsSnap {
		if ev.ID == c.EventID {
			eventName = ev.Title
			break
		}
	}

	daysLeft := int(time.Until(c.Deadline.Time).Hours() / 24)
	deadline := theme.DeadlineStyle(daysLeft).Render("due " + c.Deadline.String())
	progress := theme.ProgressStyle(c.IsComplete()).Render(c.Progress() + " done")

	line := fmt.Sprintf("%s  ·  %s  ·  %s  ·  %s", c.Name, eventName, deadline, progress)
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func (m Model) filterBar() string {
	eventLabel := "all events"
	if m.eventSel != "all" {
		eventLabel = "event: ?"
		for _, ev := range m.eventsSnap {
			if ev.ID == m.eventSel {
				eventLabel = "event: " + ev.Title
				break
			}
		}
	}

	period := "any time"
	if months := periodChoices[m.periodIdx]; months > 0 {
		period = fmt.Sprintf("next %dmo", months)
	}

	sortLabel := ""
	switch m.sort {
	case sortTitle:
		sortLabel = " | sort: title"
	case sortDeadline:
		sortLabel = " | sort: deadline"
	}

	return theme.HelpStyle.Render(fmt.Sprintf(
		"%s | status: %s | %s%s", eventLabel, m.statusSel, period, sortLabel,
	))
}

func (m Model) viewItems() string {
	var b strings.Builder

	title := "Checklist items"
	if m.fb.name != "" {
		title = m.fb.name
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(title))
	b.WriteString("\n\n")

	drafts := m.editor.Drafts()
	if len(drafts) == 0 {
		b.WriteString(theme.HelpStyle.Render("No items in this checklist yet."))
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

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
