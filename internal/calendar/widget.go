package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View selects how the widget lays out its events.
type View string

const (
	ViewMonth  View = "month"
	ViewAgenda View = "agenda"
)

// ParseView maps a stored view name onto the known set, defaulting to
// the month grid.
func ParseView(s string) View {
	if s == string(ViewAgenda) {
		return ViewAgenda
	}
	return ViewMonth
}

// Styles controls widget rendering.
type Styles struct {
	Header   lipgloss.Style
	Weekday  lipgloss.Style
	Empty    lipgloss.Style
	HasEvent lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Agenda   lipgloss.Style
}

// Widget is a month-grid calendar holding one event source at a time.
// It knows nothing about scheduled tasks; it renders WidgetEvents and
// emits click interactions for the adapter to translate.
type Widget struct {
	month    time.Time
	selected time.Time
	view     View
	events   []WidgetEvent
	today    func() time.Time
}

// NewWidget creates a widget showing the month containing now.
func NewWidget(now time.Time) *Widget {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return &Widget{
		month:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		selected: day,
		view:     ViewMonth,
		today:    time.Now,
	}
}

// RemoveAllEvents clears the registered event source.
func (w *Widget) RemoveAllEvents() {
	w.events = nil
}

// AddEventSource registers events for rendering.
func (w *Widget) AddEventSource(events []WidgetEvent) {
	w.events = append(w.events, events...)
}

// ChangeView switches between the month grid and the agenda list.
func (w *Widget) ChangeView(v View) {
	w.view = v
}

// CurrentView returns the active view.
func (w *Widget) CurrentView() View {
	return w.view
}

// Month returns the first day of the displayed month.
func (w *Widget) Month() time.Time {
	return w.month
}

// NextMonth advances the displayed month, keeping the selection inside
// it.
func (w *Widget) NextMonth() {
	w.month = w.month.AddDate(0, 1, 0)
	w.selected = w.month
}

// PrevMonth moves the displayed month back.
func (w *Widget) PrevMonth() {
	w.month = w.month.AddDate(0, -1, 0)
	w.selected = w.month
}

// MoveSelection shifts the day cursor, following it across month
// boundaries.
func (w *Widget) MoveSelection(days int) {
	w.selected = w.selected.AddDate(0, 0, days)
	w.month = time.Date(
		w.selected.Year(), w.selected.Month(), 1,
		0, 0, 0, 0, w.selected.Location(),
	)
}

// SelectedDay returns the day under the cursor.
func (w *Widget) SelectedDay() time.Time {
	return w.selected
}

// EventsOn returns the events starting on the given day, ordered by
// start time.
func (w *Widget) EventsOn(day time.Time) []WidgetEvent {
	var out []WidgetEvent
	for _, ev := range w.events {
		if sameDay(ev.Start, day) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// Events returns every registered event ordered by start time.
func (w *Widget) Events() []WidgetEvent {
	out := make([]WidgetEvent, len(w.events))
	copy(out, w.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// ClickSelected emits the interaction for activating the day cursor:
// an EventClick when the day holds an event, otherwise a DateClick on
// the day itself. With several events on the day the earliest wins.
func (w *Widget) ClickSelected() (EventClick, DateClick, bool) {
	evs := w.EventsOn(w.selected)
	if len(evs) > 0 {
		return EventClick{EventID: evs[0].ID}, DateClick{}, true
	}
	return EventClick{}, DateClick{Day: w.selected}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Render draws the widget in its current view.
func (w *Widget) Render(st Styles) string {
	if w.view == ViewAgenda {
		return w.renderAgenda(st)
	}
	return w.renderMonth(st)
}

// renderMonth draws the month grid with one cell per day.
func (w *Widget) renderMonth(st Styles) string {
	var b strings.Builder

	b.WriteString(st.Header.Render(w.month.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(st.Weekday.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	first := w.month
	daysTotal := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())
	today := w.today()

	col := 0
	for i := 0; i < offset; i++ {
		b.WriteString("   ")
		col++
	}

	for day := 1; day <= daysTotal; day++ {
		date := first.AddDate(0, 0, day-1)
		cell := fmt.Sprintf("%2d", day)

		style := st.Empty
		if len(w.EventsOn(date)) > 0 {
			style = st.HasEvent
		}
		if sameDay(date, today) {
			style = st.Today
		}
		if sameDay(date, w.selected) {
			style = st.Selected
		}

		b.WriteString(style.Render(cell))
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if col%7 != 0 {
		b.WriteString("\n")
	}

	return b.String()
}

// renderAgenda draws a flat chronological list of events.
func (w *Widget) renderAgenda(st Styles) string {
	events := w.Events()
	if len(events) == 0 {
		return st.Agenda.Render("No scheduled tasks.")
	}

	var b strings.Builder
	b.WriteString(st.Header.Render("Agenda"))
	b.WriteString("\n")
	for _, ev := range events {
		line := fmt.Sprintf(
			"%s  %s",
			ev.Start.Format("Mon 02 Jan 15:04"),
			ev.Title,
		)
		if sameDay(ev.Start, w.selected) {
			b.WriteString(st.Selected.Render(line))
		} else {
			b.WriteString(st.Agenda.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
