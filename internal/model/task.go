package model

import "time"

// NotifyPolicy controls when the backend sends an out-of-band
// notification for a scheduled task.
type NotifyPolicy string

// The closed set of notification policies. Wire values for the
// minutes-before variants carry the minute count.
const (
	NotifyNone    NotifyPolicy = "none"
	NotifyAtStart NotifyPolicy = "at_start"
	Notify15m     NotifyPolicy = "15m"
	Notify30m     NotifyPolicy = "30m"
	Notify1h      NotifyPolicy = "60m"
	Notify1d      NotifyPolicy = "1440m"
)

// NotifyPolicies lists every valid policy in form order.
var NotifyPolicies = []NotifyPolicy{
	NotifyNone, NotifyAtStart, Notify15m, Notify30m, Notify1h, Notify1d,
}

// ParseNotifyPolicy maps a stored value onto the closed enumeration.
// Unrecognized values degrade to NotifyNone rather than failing the
// render.
func ParseNotifyPolicy(s string) NotifyPolicy {
	for _, p := range NotifyPolicies {
		if string(p) == s {
			return p
		}
	}
	return NotifyNone
}

// Label returns the human-readable form shown in selects.
func (p NotifyPolicy) Label() string {
	switch p {
	case NotifyAtStart:
		return "At start"
	case Notify15m:
		return "15 minutes before"
	case Notify30m:
		return "30 minutes before"
	case Notify1h:
		return "1 hour before"
	case Notify1d:
		return "1 day before"
	default:
		return "No notification"
	}
}

// TaskChecklistItem is a lightweight sub-entry embedded in a scheduled
// task. Like checklist items, the list is replaced wholesale on save.
type TaskChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ScheduledTask is a calendar entry with a start timestamp, an optional
// project tag, and an embedded checklist.
type ScheduledTask struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Start        time.Time           `json:"start"`
	Project      string              `json:"project,omitempty"`
	Description  string              `json:"description,omitempty"`
	Notification NotifyPolicy        `json:"notification"`
	Checklist    []TaskChecklistItem `json:"checklist"`
	OwnerID      string              `json:"owner_id"`
}
