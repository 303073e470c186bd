package model

// Event is a planned occasion (wedding, anniversary, conference) that
// checklists may reference. Deleting an event does not cascade to
// checklists; a dangling reference renders as "no event".
type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     Date   `json:"date"`
	Location string `json:"location,omitempty"`
	OwnerID  string `json:"owner_id"`
}
