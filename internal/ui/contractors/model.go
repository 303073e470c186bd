// Package contractors implements the contractor view: a category
// filtered list with a modal create/edit form, plus a category manager
// sub-mode whose deletes go through the referential guard.
package contractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/confirm"
	"github.com/Hadern04/orgbot/internal/filter"
	"github.com/Hadern04/orgbot/internal/guard"
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
	modeCategories
	modeCategoryAdd
	modeCategoryConfirm
)

type sortMode int

const (
	sortSnapshot sortMode = iota
	sortName
)

// reloadMsg asks Update to issue the initial fetch. Init cannot call
// Reload itself: Init runs on a copy, so a sequence number bumped there
// would never reach the stored model and the response would be dropped
// as stale.
type reloadMsg struct{}

type loadedMsg struct {
	seq         int
	contractors []model.Contractor
	categories  []model.ContractorCategory
	err         error
}

type editReadyMsg struct {
	contractor model.Contractor
	err        error
}

type savedMsg struct{ err error }

type deletedMsg struct{ err error }

type categorySavedMsg struct{ err error }

type categoryDeletedMsg struct{ err error }

type formBindings struct {
	name       string
	contact    string
	categoryID string
}

type deleteRequest struct {
	id        string
	confirmed bool
}

// Model is the Bubble Tea model for the contractor view.
type Model struct {
	contractors *api.Contractors
	categories  *api.Categories
	guard       *guard.CategoryGuard
	ownerID     string
	keys        *keys.KeyMap

	snapshot []model.Contractor
	catsSnap []model.ContractorCategory
	fetchSeq int
	loading  bool

	selectedIdx int
	categorySel string
	sort        sortMode

	// category manager state
	catIdx   int
	catInput textinput.Model

	mode   uiMode
	dialog modal.State
	form   *huh.Form
	fb     *formBindings

	confirmDlg *confirm.Dialog
	pendingDel *deleteRequest

	width  int
	height int
}

// New creates the contractor view.
func New(
	contractors *api.Contractors,
	categories *api.Categories,
	g *guard.CategoryGuard,
	ownerID string,
	k *keys.KeyMap,
	width, height int,
) Model {
	input := textinput.New()
	input.Placeholder = "new category title..."
	input.Prompt = "+ "
	input.CharLimit = 100

	return Model{
		contractors: contractors,
		categories:  categories,
		guard:       g,
		ownerID:     ownerID,
		keys:        k,
		categorySel: "all",
		fb:          &formBindings{},
		catInput:    input,
		width:       width,
		height:      height,
	}
}

// Init schedules the initial snapshot load.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// Reload fetches contractors and categories, last-fetch-wins.
func (m *Model) Reload() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	seq := m.fetchSeq
	co := m.contractors
	ca := m.categories
	owner := m.ownerID
	return func() tea.Msg {
		ctx := context.Background()
		contractors, err := co.List(ctx, owner)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		cats, err := ca.List(ctx, owner)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		return loadedMsg{seq: seq, contractors: contractors, categories: cats}
	}
}

// Update handles messages for the contractor view.
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
		m.snapshot = msg.contractors
		m.catsSnap = msg.categories
		m.clampSelection()
		return m, nil

	case editReadyMsg:
		if msg.err != nil {
			m.dialog.AbortOpen()
			m.mode = modeList
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		return m.showForm(msg.contractor)

	case savedMsg:
		if msg.err != nil {
			_ = m.dialog.SettleSubmit(false)
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		_ = m.dialog.SettleSubmit(true)
		m.mode = modeList
		m.form = nil
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Contractor saved", false))

	case deletedMsg:
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Contractor deleted", false))

	case categorySavedMsg:
		if msg.err != nil {
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Category added", false))

	case categoryDeletedMsg:
		if msg.err != nil {
			// An in-use category surfaces the conflict explanation
			// verbatim; nothing is deleted.
			return m, ui.ToastCmd(api.UserMessage(msg.err), true)
		}
		cmd := m.Reload()
		return m, tea.Batch(cmd, ui.ToastCmd("Category deleted", false))

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm, modeCategoryConfirm:
			return m.updateConfirm(msg)
		case modeCategories:
			return m.handleCategoriesKey(msg)
		case modeCategoryAdd:
			return m.handleCategoryAddKey(msg)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeCategoryAdd:
		var cmd tea.Cmd
		m.catInput, cmd = m.catInput.Update(msg)
		return m, cmd
	case modeConfirm, modeCategoryConfirm:
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
		m.cycleCategoryFilter()
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.ClearFilter):
		m.categorySel = "all"
		m.selectedIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.sort = (m.sort + 1) % 2
		return m, nil

	case key.Matches(msg, m.keys.Categories):
		m.mode = modeCategories
		m.catIdx = 0
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

func (m *Model) cycleCategoryFilter() {
	if len(m.catsSnap) == 0 {
		m.categorySel = "all"
		return
	}
	if m.categorySel == "all" {
		m.categorySel = m.catsSnap[0].ID
		return
	}
	for i, cat := range m.catsSnap {
		if cat.ID == m.categorySel {
			if i+1 < len(m.catsSnap) {
				m.categorySel = m.catsSnap[i+1].ID
			} else {
				m.categorySel = "all"
			}
			return
		}
	}
	m.categorySel = "all"
}

// projection filters the snapshot by the selected category. Server
// order is kept unless the name sort is toggled on, which uses the
// locale-aware collator.
func (m Model) projection() []model.Contractor {
	pred := filter.ByParent(m.categorySel, func(c model.Contractor) string {
		return c.CategoryID
	})
	out := filter.Apply(m.snapshot, pred)
	if m.sort == sortName {
		out = filter.SortByTitle(out, func(c model.Contractor) string { return c.Name })
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
	if m.catIdx >= len(m.catsSnap) && m.catIdx > 0 {
		m.catIdx = len(m.catsSnap) - 1
	}
}

// --- contractor dialog --------------------------------------------

func (m Model) openAddForm() (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeAdd, ""); err != nil {
		return m, nil
	}
	m.fb.name = ""
	m.fb.contact = ""
	// Adding while a category filter is active preselects it.
	if m.categorySel != "all" {
		m.fb.categoryID = m.categorySel
	} else {
		m.fb.categoryID = ""
	}
	return m.showOpenedForm()
}

func (m Model) openEditForm(id string) (Model, tea.Cmd) {
	if err := m.dialog.BeginOpen(modal.ModeEdit, id); err != nil {
		return m, nil
	}

	for _, c := range m.snapshot {
		if c.ID == id {
			return m.showForm(c)
		}
	}

	co := m.contractors
	return m, func() tea.Msg {
		got, err := co.Get(context.Background(), id)
		if err != nil {
			return editReadyMsg{err: err}
		}
		return editReadyMsg{contractor: *got}
	}
}

func (m Model) showForm(c model.Contractor) (Model, tea.Cmd) {
	m.fb.name = c.Name
	m.fb.contact = c.Contact
	m.fb.categoryID = c.CategoryID
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
	catOpts := []huh.Option[string]{
		huh.NewOption("No category", ""),
	}
	for _, cat := range m.catsSnap {
		catOpts = append(catOpts, huh.NewOption(cat.Title, cat.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Contractor name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Contact").
				Placeholder("Phone, email or @handle").
				Value(&m.fb.contact),
			huh.NewSelect[string]().
				Title("Category").
				Options(catOpts...).
				Value(&m.fb.categoryID),
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

	payload := model.Contractor{
		ID:         m.dialog.TargetID(),
		Name:       strings.TrimSpace(m.fb.name),
		Contact:    strings.TrimSpace(m.fb.contact),
		CategoryID: m.fb.categoryID,
		OwnerID:    m.ownerID,
	}

	co := m.contractors
	isEdit := m.dialog.Mode() == modal.ModeEdit
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if isEdit {
			_, err = co.Update(ctx, payload.ID, payload)
		} else {
			_, err = co.Create(ctx, payload)
		}
		return savedMsg{err: err}
	}
}

// --- contractor delete --------------------------------------------

func (m Model) openDeleteConfirm(c model.Contractor) (Model, tea.Cmd) {
	req := &deleteRequest{id: c.ID}
	m.pendingDel = req
	m.confirmDlg = confirm.NewDialog(
		fmt.Sprintf("Delete contractor %q?", c.Name),
		"",
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

	wasCategory := m.mode == modeCategoryConfirm
	req := m.pendingDel
	m.confirmDlg = nil
	m.pendingDel = nil

	if wasCategory {
		m.mode = modeCategories
	} else {
		m.mode = modeList
	}

	if req == nil || !req.confirmed {
		return m, cmd
	}

	id := req.id
	if wasCategory {
		g := m.guard
		return m, func() tea.Msg {
			return categoryDeletedMsg{err: g.GuardedDelete(context.Background(), id)}
		}
	}
	co := m.contractors
	return m, func() tea.Msg {
		return deletedMsg{err: co.Delete(context.Background(), id)}
	}
}

// --- category manager ---------------------------------------------

func (m Model) handleCategoriesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if len(m.catsSnap) > 0 {
			m.catIdx = (m.catIdx + 1) % len(m.catsSnap)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.catsSnap) > 0 {
			m.catIdx--
			if m.catIdx < 0 {
				m.catIdx = len(m.catsSnap) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.mode = modeCategoryAdd
		m.catInput.Reset()
		return m, m.catInput.Focus()

	case key.Matches(msg, m.keys.Delete):
		if len(m.catsSnap) == 0 {
			return m, nil
		}
		cat := m.catsSnap[m.catIdx]
		req := &deleteRequest{id: cat.ID}
		m.pendingDel = req
		m.confirmDlg = confirm.NewDialog(
			fmt.Sprintf("Delete category %q?", cat.Title),
			"Deletion is blocked while contractors still use it.",
			func(confirmed bool) { req.confirmed = confirmed },
		)
		m.mode = modeCategoryConfirm
		return m, m.confirmDlg.Init()
	}
	return m, nil
}

func (m Model) handleCategoryAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeCategories
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.catInput.Value())
		if title == "" {
			return m, ui.ToastCmd("Enter the category title first", true)
		}
		m.mode = modeCategories
		ca := m.categories
		payload := model.ContractorCategory{Title: title, OwnerID: m.ownerID}
		return m, func() tea.Msg {
			_, err := ca.Create(context.Background(), payload)
			return categorySavedMsg{err: err}
		}
	}

	var cmd tea.Cmd
	m.catInput, cmd = m.catInput.Update(msg)
	return m, cmd
}

// --- rendering ----------------------------------------------------

// View renders the contractor view.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	case modeConfirm, modeCategoryConfirm:
		if m.confirmDlg == nil {
			return ""
		}
		return m.confirmDlg.View()
	case modeCategories, modeCategoryAdd:
		return m.viewCategories()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	catLabel := "all categories"
	if m.categorySel != "all" {
		catLabel = "category: ?"
		for _, cat := range m.catsSnap {
			if cat.ID == m.categorySel {
				catLabel = "category: " + cat.Title
				break
			}
		}
	}
	if m.sort == sortName {
		catLabel += " | sort: name"
	}
	b.WriteString(theme.HelpStyle.Render(catLabel))
	b.WriteString("\n\n")

	projection := m.projection()

	if m.loading && len(m.snapshot) == 0 {
		b.WriteString(theme.HelpStyle.Render("Loading..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if len(projection) == 0 {
		if len(m.snapshot) == 0 && m.categorySel == "all" {
			b.WriteString(theme.EmptyStateStyle.Render(
				"No contractors yet.\nPress 'n' to add your first one.",
			))
		} else {
			b.WriteString(theme.EmptyStateStyle.Render(
				"No contractors match the current filters.\nPress 'F' to clear them.",
			))
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	for i, c := range projection {
		line := c.Name
		if c.Contact != "" {
			line += "  ·  " + c.Contact
		}
		line += "  ·  " + m.categoryTitle(c.CategoryID)
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"n new | e edit | d delete | f category | F clear | tab sort | c categories | r refresh",
	))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) categoryTitle(id string) string {
	if id == "" {
		return "No category"
	}
	for _, cat := range m.catsSnap {
		if cat.ID == id {
			return cat.Title
		}
	}
	// Dangling reference after a category vanished elsewhere.
	return "No category"
}

func (m Model) viewCategories() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Categories"))
	b.WriteString("\n\n")

	if len(m.catsSnap) == 0 {
		b.WriteString(theme.HelpStyle.Render("No categories yet."))
		b.WriteString("\n")
	}
	for i, cat := range m.catsSnap {
		count := 0
		for _, c := range m.snapshot {
			if c.CategoryID == cat.ID {
				count++
			}
		}
		line := fmt.Sprintf("%s (%d)", cat.Title, count)
		if i == m.catIdx && m.mode == modeCategories {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeCategoryAdd {
		b.WriteString(m.catInput.View())
		b.WriteString("\n\n")
		b.WriteString(theme.HelpStyle.Render("enter add | esc back"))
	} else {
		b.WriteString(theme.HelpStyle.Render("n new | d delete | esc back"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Editing reports whether a dialog, confirmation, or the category
// manager currently owns keyboard input, which suppresses global
// shortcuts.
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
