package api_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/tests/testutil"
)

const owner = "owner-1"

func TestEventCRUD(t *testing.T) {
	srv := testutil.NewServer(t)
	events := api.NewEvents(srv.Client())
	ctx := context.Background()

	created, err := events.Create(ctx, model.Event{
		Title:    "Summer Wedding",
		Date:     model.NewDate(2026, time.September, 12),
		Location: "Lakeside",
		OwnerID:  owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("server did not mint a durable id")
	}

	got, err := events.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Summer Wedding" || got.Date.String() != "2026-09-12" {
		t.Fatalf("round trip mangled the event: %+v", got)
	}

	got.Location = "Garden Hall"
	updated, err := events.Update(ctx, got.ID, *got)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Location != "Garden Hall" {
		t.Fatalf("update lost the new location: %+v", updated)
	}

	if err := events.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := events.Get(ctx, created.ID); err == nil {
		t.Fatalf("deleted event still resolvable")
	}
}

func TestListRequiresOwner(t *testing.T) {
	srv := testutil.NewServer(t)
	events := api.NewEvents(srv.Client())

	if _, err := events.List(context.Background(), ""); !errors.Is(err, api.ErrMissingOwner) {
		t.Fatalf("List with empty owner err = %v, want ErrMissingOwner", err)
	}
}

func TestListIsOwnerScoped(t *testing.T) {
	srv := testutil.NewServer(t)
	events := api.NewEvents(srv.Client())
	ctx := context.Background()

	mk := func(owner, title string) {
		t.Helper()
		_, err := events.Create(ctx, model.Event{
			Title: title, Date: model.NewDate(2026, time.October, 1), OwnerID: owner,
		})
		if err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
	}
	mk("owner-a", "mine")
	mk("owner-b", "theirs")

	got, err := events.List(ctx, "owner-a")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "mine" {
		t.Fatalf("owner scoping leaked: %+v", got)
	}
}

func TestGetMapsNotFound(t *testing.T) {
	srv := testutil.NewServer(t)
	events := api.NewEvents(srv.Client())

	_, err := events.Get(context.Background(), "no-such-id")
	var notFound *api.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if notFound.ID != "no-such-id" {
		t.Fatalf("NotFoundError did not carry the id: %+v", notFound)
	}
}

func TestNetworkFailureMapsToNetworkError(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", "", time.Second)
	events := api.NewEvents(client)

	_, err := events.List(context.Background(), owner)
	var network *api.NetworkError
	if !errors.As(err, &network) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
}

func TestChecklistItemsReplacedWholesale(t *testing.T) {
	srv := testutil.NewServer(t)
	checklists := api.NewChecklists(srv.Client())
	ctx := context.Background()

	created, err := checklists.Create(ctx, model.Checklist{
		Name:     "Venue",
		Deadline: model.NewDate(2026, time.September, 1),
		OwnerID:  owner,
		Items: []model.ChecklistItem{
			{Text: "visit"},
			{Text: "sign contract", Completed: true},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created.Items))
	}
	for i, it := range created.Items {
		if it.ID == "" {
			t.Fatalf("item %d did not get a durable id", i)
		}
	}

	// Save again with one item dropped, one kept, one added. The
	// kept item's id must stay stable; the new one gets minted.
	keptID := created.Items[1].ID
	updated, err := checklists.Update(ctx, created.ID, model.Checklist{
		ID:       created.ID,
		Name:     "Venue",
		Deadline: created.Deadline,
		OwnerID:  owner,
		Items: []model.ChecklistItem{
			{ID: keptID, Text: "sign contract", Completed: true},
			{Text: "pay deposit"},
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("expected 2 items after replacement, got %d", len(updated.Items))
	}
	if updated.Items[0].ID != keptID {
		t.Fatalf("kept item id changed: %q != %q", updated.Items[0].ID, keptID)
	}
	if updated.Items[1].ID == "" || updated.Items[1].ID == keptID {
		t.Fatalf("new item id not minted: %+v", updated.Items[1])
	}

	got, err := checklists.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 2 || got.Items[1].Text != "pay deposit" {
		t.Fatalf("replacement not persisted: %+v", got.Items)
	}
}

func TestCategoryDeleteConflict(t *testing.T) {
	srv := testutil.NewServer(t)
	client := srv.Client()
	categories := api.NewCategories(client)
	contractors := api.NewContractors(client)
	ctx := context.Background()

	cat, err := categories.Create(ctx, model.ContractorCategory{Title: "Catering", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	_, err = contractors.Create(ctx, model.Contractor{
		Name: "Tasty Ltd", CategoryID: cat.ID, OwnerID: owner,
	})
	if err != nil {
		t.Fatalf("Create contractor: %v", err)
	}

	err = categories.Delete(ctx, cat.ID)
	var conflict *api.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}
	if conflict.Message == "" {
		t.Fatalf("conflict lost the backend explanation")
	}

	// The category must survive the rejected delete.
	if _, err := categories.Get(ctx, cat.ID); err != nil {
		t.Fatalf("category vanished despite conflict: %v", err)
	}
}

func TestContractorsListByCategory(t *testing.T) {
	srv := testutil.NewServer(t)
	client := srv.Client()
	categories := api.NewCategories(client)
	contractors := api.NewContractors(client)
	ctx := context.Background()

	catA, _ := categories.Create(ctx, model.ContractorCategory{Title: "Music", OwnerID: owner})
	catB, _ := categories.Create(ctx, model.ContractorCategory{Title: "Photo", OwnerID: owner})

	mk := func(name, catID string) {
		t.Helper()
		if _, err := contractors.Create(ctx, model.Contractor{
			Name: name, CategoryID: catID, OwnerID: owner,
		}); err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}
	mk("DJ Alpha", catA.ID)
	mk("Band Beta", catA.ID)
	mk("Studio Gamma", catB.ID)

	got, err := contractors.ListByCategory(ctx, owner, catA.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 contractors in category, got %d", len(got))
	}
	for _, c := range got {
		if c.CategoryID != catA.ID {
			t.Fatalf("foreign contractor leaked into the category: %+v", c)
		}
	}
}

func TestTaskNotifyAction(t *testing.T) {
	srv := testutil.NewServer(t)
	tasks := api.NewTasks(srv.Client())
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.ScheduledTask{
		Title:        "Call florist",
		Start:        time.Date(2026, time.September, 3, 14, 0, 0, 0, time.UTC),
		Notification: model.Notify15m,
		OwnerID:      owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := tasks.Notify(ctx, created.ID); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	notified := srv.NotifiedTaskIDs()
	if len(notified) != 1 || notified[0] != created.ID {
		t.Fatalf("notify action not recorded: %v", notified)
	}

	// The action must not touch the task's persisted fields.
	got, err := tasks.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Call florist" || got.Notification != model.Notify15m {
		t.Fatalf("notify mutated the task: %+v", got)
	}

	var notFound *api.NotFoundError
	if err := tasks.Notify(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("Notify on missing task err = %v, want *NotFoundError", err)
	}
}

func TestTaskUnknownNotificationDegrades(t *testing.T) {
	srv := testutil.NewServer(t)
	tasks := api.NewTasks(srv.Client())
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.ScheduledTask{
		Title:        "Legacy entry",
		Start:        time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC),
		Notification: model.NotifyPolicy("every_full_moon"),
		OwnerID:      owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := tasks.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Notification != model.NotifyNone {
		t.Fatalf("unknown policy should degrade to none, got %q", got.Notification)
	}
}
