package model

import "testing"

func TestChecklistIsComplete(t *testing.T) {
	tests := []struct {
		name  string
		items []ChecklistItem
		want  bool
	}{
		{"zero items is never complete", nil, false},
		{"empty slice is never complete", []ChecklistItem{}, false},
		{"all completed", []ChecklistItem{{Completed: true}, {Completed: true}}, true},
		{"one incomplete", []ChecklistItem{{Completed: true}, {Completed: false}}, false},
		{"single completed item", []ChecklistItem{{Completed: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Checklist{Items: tt.items}
			if got := c.IsComplete(); got != tt.want {
				t.Fatalf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChecklistCompletionFlipsWithLastItem(t *testing.T) {
	c := Checklist{Items: []ChecklistItem{
		{ID: "1", Completed: true},
		{ID: "2", Completed: false},
	}}
	if c.IsComplete() {
		t.Fatalf("checklist with an open item reported complete")
	}

	c.Items[1].Completed = true
	if !c.IsComplete() {
		t.Fatalf("completing the last item did not flip the status")
	}

	c.Items[0].Completed = false
	if c.IsComplete() {
		t.Fatalf("reopening an item did not flip the status back")
	}
}

func TestChecklistProgress(t *testing.T) {
	c := Checklist{Items: []ChecklistItem{
		{Completed: true}, {Completed: false}, {Completed: true},
	}}
	if got := c.Progress(); got != "2/3" {
		t.Fatalf("Progress() = %q, want %q", got, "2/3")
	}
	if got := (Checklist{}).Progress(); got != "0/0" {
		t.Fatalf("Progress() on empty = %q, want %q", got, "0/0")
	}
}
