// Package subedit holds the in-memory editor for nested item lists
// (checklist entries) edited inside a parent form. The editor has no
// persistence of its own: the parent form's submit is the only commit
// point, and an editor discarded without submit has no side effects.
package subedit

import (
	"errors"
	"strings"

	"github.com/Hadern04/orgbot/internal/model"
)

// ErrEmptyText rejects appending an item whose text is blank after
// trimming.
var ErrEmptyText = errors.New("item text is empty")

// Draft is one editable item row. The ID addresses the row in the UI
// only; temporary ids are stripped when building the save payload.
type Draft struct {
	ID   model.ItemID
	Text string
	Done bool
}

// Editor is an ordered in-memory list of item drafts.
type Editor struct {
	drafts []Draft
}

// New creates an empty editor.
func New() *Editor {
	return &Editor{}
}

// Seed replaces the whole draft list from a checklist's saved items.
// Used when opening the edit modal.
func (e *Editor) Seed(items []model.ChecklistItem) {
	e.drafts = make([]Draft, 0, len(items))
	for _, it := range items {
		id := model.DurableID(it.ID)
		if it.ID == "" {
			id = model.NextTemporaryID()
		}
		e.drafts = append(e.drafts, Draft{
			ID:   id,
			Text: it.Text,
			Done: it.Completed,
		})
	}
}

// SeedTasks replaces the draft list from a scheduled task's embedded
// items, which carry no ids of their own.
func (e *Editor) SeedTasks(items []model.TaskChecklistItem) {
	e.drafts = make([]Draft, 0, len(items))
	for _, it := range items {
		e.drafts = append(e.drafts, Draft{
			ID:   model.NextTemporaryID(),
			Text: it.Text,
			Done: it.Done,
		})
	}
}

// Append adds an incomplete item with the given text at the end of the
// list and returns its local id. Blank text is rejected with
// ErrEmptyText.
func (e *Editor) Append(text string) (model.ItemID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ItemID{}, ErrEmptyText
	}
	id := model.NextTemporaryID()
	e.drafts = append(e.drafts, Draft{ID: id, Text: text})
	return id, nil
}

// Remove deletes the draft addressed by id. Returns false when no
// draft has that id.
func (e *Editor) Remove(id model.ItemID) bool {
	for i, d := range e.drafts {
		if d.ID == id {
			e.drafts = append(e.drafts[:i], e.drafts[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips the completion flag of the draft addressed by id.
func (e *Editor) Toggle(id model.ItemID) bool {
	for i := range e.drafts {
		if e.drafts[i].ID == id {
			e.drafts[i].Done = !e.drafts[i].Done
			return true
		}
	}
	return false
}

// SetText rewrites the text of the draft addressed by id.
func (e *Editor) SetText(id model.ItemID, text string) bool {
	for i := range e.drafts {
		if e.drafts[i].ID == id {
			e.drafts[i].Text = text
			return true
		}
	}
	return false
}

// Drafts returns a copy of the current rows in order.
func (e *Editor) Drafts() []Draft {
	out := make([]Draft, len(e.drafts))
	copy(out, e.drafts)
	return out
}

// Len returns the number of drafts.
func (e *Editor) Len() int {
	return len(e.drafts)
}

// Payload produces the ordered save payload with local ids stripped.
// Drafts whose trimmed text is empty are silently dropped.
func (e *Editor) Payload() []model.ChecklistItem {
	out := make([]model.ChecklistItem, 0, len(e.drafts))
	for _, d := range e.drafts {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		item := model.ChecklistItem{Text: text, Completed: d.Done}
		if durable, ok := d.ID.Durable(); ok {
			item.ID = durable
		}
		out = append(out, item)
	}
	return out
}

// TaskPayload produces the ordered payload for a scheduled task's
// embedded item list.
func (e *Editor) TaskPayload() []model.TaskChecklistItem {
	out := make([]model.TaskChecklistItem, 0, len(e.drafts))
	for _, d := range e.drafts {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		out = append(out, model.TaskChecklistItem{Text: text, Done: d.Done})
	}
	return out
}
