// Package calendar holds the month-grid widget the task view renders
// into, plus the adapter that translates between domain scheduled
// tasks and the widget's event objects. The widget is consumed only
// through the adapter.
package calendar

import (
	"time"

	"github.com/Hadern04/orgbot/internal/model"
)

// ExtensionBag carries the domain fields the widget itself does not
// understand. Notification is kept as the raw stored value and
// degraded onto the closed policy enum when read back.
type ExtensionBag struct {
	Project      string
	Description  string
	Checklist    []model.TaskChecklistItem
	Notification string
}

// WidgetEvent is the widget's event representation: id, title, a
// start timestamp, and the opaque extension bag.
type WidgetEvent struct {
	ID       string
	Title    string
	Start    time.Time
	Extended ExtensionBag
}

// EventClick is emitted when the user activates an existing event.
type EventClick struct {
	EventID string
}

// DateClick is emitted when the user activates an empty day cell.
type DateClick struct {
	Day time.Time
}

// ToWidgetEvent maps a scheduled task onto the widget's event object.
func ToWidgetEvent(task model.ScheduledTask) WidgetEvent {
	return WidgetEvent{
		ID:    task.ID,
		Title: task.Title,
		Start: task.Start,
		Extended: ExtensionBag{
			Project:      task.Project,
			Description:  task.Description,
			Checklist:    task.Checklist,
			Notification: string(task.Notification),
		},
	}
}

// FromWidgetEvent maps a widget event back onto the domain task. An
// unrecognized notification value degrades to "none" rather than
// failing the render.
func FromWidgetEvent(ev WidgetEvent, ownerID string) model.ScheduledTask {
	return model.ScheduledTask{
		ID:           ev.ID,
		Title:        ev.Title,
		Start:        ev.Start,
		Project:      ev.Extended.Project,
		Description:  ev.Extended.Description,
		Notification: model.ParseNotifyPolicy(ev.Extended.Notification),
		Checklist:    ev.Extended.Checklist,
		OwnerID:      ownerID,
	}
}

// EditTarget extracts the task id to edit from an event click.
func EditTarget(click EventClick) string {
	return click.EventID
}

// CreateStart derives the pre-filled start timestamp for a create
// triggered by a date click: the clicked day at noon local time, so a
// quick entry never lands on an accidental midnight.
func CreateStart(click DateClick) time.Time {
	d := click.Day
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
}
