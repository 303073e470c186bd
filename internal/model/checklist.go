package model

import "fmt"

// ChecklistItem is a single entry within a checklist. Items are owned
// exclusively by their checklist and are replaced wholesale on each
// save; the server normalizes ids for new items.
type ChecklistItem struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Checklist is an ordered list of items with a deadline, optionally
// attached to an event.
type Checklist struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	EventID  string          `json:"event_id,omitempty"`
	Deadline Date            `json:"deadline"`
	OwnerID  string          `json:"owner_id"`
	Items    []ChecklistItem `json:"items"`
}

// DoneCount returns the number of completed items.
func (c Checklist) DoneCount() int {
	n := 0
	for _, it := range c.Items {
		if it.Completed {
			n++
		}
	}
	return n
}

// IsComplete reports the derived completion status: true only when the
// checklist has at least one item and every item is completed. The
// status is never stored.
func (c Checklist) IsComplete() bool {
	return len(c.Items) > 0 && c.DoneCount() == len(c.Items)
}

// Progress renders the "done/total" counter shown on list cards.
func (c Checklist) Progress() string {
	return fmt.Sprintf("%d/%d", c.DoneCount(), len(c.Items))
}
