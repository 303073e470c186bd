package calendar

import (
	"testing"
	"time"

	"github.com/Hadern04/orgbot/internal/model"
)

func TestWidgetEventRoundTrip(t *testing.T) {
	task := model.ScheduledTask{
		ID:           "task-1",
		Title:        "Tasting session",
		Start:        time.Date(2026, time.September, 4, 16, 30, 0, 0, time.Local),
		Project:      "wedding",
		Description:  "bring the shortlist",
		Notification: model.Notify1h,
		Checklist: []model.TaskChecklistItem{
			{Text: "print menu", Done: true},
			{Text: "book taxi"},
		},
		OwnerID: "owner-1",
	}

	back := FromWidgetEvent(ToWidgetEvent(task), "owner-1")

	if back.ID != task.ID || back.Title != task.Title || !back.Start.Equal(task.Start) {
		t.Fatalf("core fields lost: %+v", back)
	}
	if back.Project != "wedding" || back.Description != "bring the shortlist" {
		t.Fatalf("extension bag lost domain fields: %+v", back)
	}
	if back.Notification != model.Notify1h {
		t.Fatalf("notification policy lost: %q", back.Notification)
	}
	if len(back.Checklist) != 2 || !back.Checklist[0].Done || back.Checklist[1].Done {
		t.Fatalf("embedded checklist mangled: %+v", back.Checklist)
	}
}

func TestFromWidgetEventDegradesUnknownNotification(t *testing.T) {
	ev := WidgetEvent{
		ID:       "task-2",
		Title:    "Old entry",
		Start:    time.Now(),
		Extended: ExtensionBag{Notification: "every_full_moon"},
	}
	back := FromWidgetEvent(ev, "owner-1")
	if back.Notification != model.NotifyNone {
		t.Fatalf("unknown policy should degrade to none, got %q", back.Notification)
	}
}

func TestCreateStartDefaultsToNoon(t *testing.T) {
	day := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.Local)
	start := CreateStart(DateClick{Day: day})

	if start.Hour() != 12 || start.Minute() != 0 {
		t.Fatalf("expected noon prefill, got %v", start)
	}
	if start.Year() != 2026 || start.Month() != time.September || start.Day() != 10 {
		t.Fatalf("prefill moved the day: %v", start)
	}
}

func TestClickSelectedPrefersEvent(t *testing.T) {
	now := time.Date(2026, time.September, 10, 9, 0, 0, 0, time.Local)
	w := NewWidget(now)
	w.AddEventSource([]WidgetEvent{
		{ID: "later", Title: "later", Start: now.Add(5 * time.Hour)},
		{ID: "earlier", Title: "earlier", Start: now.Add(time.Hour)},
	})

	evClick, _, isEvent := w.ClickSelected()
	if !isEvent {
		t.Fatalf("day with events produced a date click")
	}
	if EditTarget(evClick) != "earlier" {
		t.Fatalf("earliest event should win, got %q", evClick.EventID)
	}
}

func TestClickSelectedEmptyDayIsDateClick(t *testing.T) {
	now := time.Date(2026, time.September, 10, 9, 0, 0, 0, time.Local)
	w := NewWidget(now)

	_, dateClick, isEvent := w.ClickSelected()
	if isEvent {
		t.Fatalf("empty day produced an event click")
	}
	if dateClick.Day.Day() != 10 {
		t.Fatalf("date click on wrong day: %v", dateClick.Day)
	}
}

func TestMoveSelectionFollowsAcrossMonths(t *testing.T) {
	w := NewWidget(time.Date(2026, time.September, 29, 0, 0, 0, 0, time.Local))
	w.MoveSelection(7)

	if w.SelectedDay().Month() != time.October {
		t.Fatalf("selection did not cross the month boundary: %v", w.SelectedDay())
	}
	if w.Month().Month() != time.October {
		t.Fatalf("displayed month did not follow the selection: %v", w.Month())
	}
}

func TestRemoveAllEventsClearsSource(t *testing.T) {
	w := NewWidget(time.Now())
	w.AddEventSource([]WidgetEvent{{ID: "a", Start: time.Now()}})
	w.RemoveAllEvents()
	w.AddEventSource([]WidgetEvent{{ID: "b", Start: time.Now()}})

	events := w.Events()
	if len(events) != 1 || events[0].ID != "b" {
		t.Fatalf("stale events survived the reset: %+v", events)
	}
}

func TestParseView(t *testing.T) {
	if ParseView("agenda") != ViewAgenda {
		t.Fatalf("agenda not recognized")
	}
	if ParseView("month") != ViewMonth {
		t.Fatalf("month not recognized")
	}
	if ParseView("dayGridMonth") != ViewMonth {
		t.Fatalf("unknown view should default to month")
	}
}
