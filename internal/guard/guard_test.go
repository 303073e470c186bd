package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Hadern04/orgbot/internal/api"
	"github.com/Hadern04/orgbot/internal/guard"
	"github.com/Hadern04/orgbot/internal/model"
	"github.com/Hadern04/orgbot/tests/testutil"
)

const owner = "owner-1"

func setup(t *testing.T) (*api.Categories, *api.Contractors, *guard.CategoryGuard) {
	t.Helper()
	srv := testutil.NewServer(t)
	client := srv.Client()
	categories := api.NewCategories(client)
	contractors := api.NewContractors(client)
	return categories, contractors, guard.NewCategoryGuard(contractors, categories, owner)
}

func TestCanDeleteEmptyCategory(t *testing.T) {
	categories, _, g := setup(t)
	ctx := context.Background()

	cat, err := categories.Create(ctx, model.ContractorCategory{Title: "Florists", OwnerID: owner})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := g.CanDelete(ctx, cat.ID)
	if err != nil {
		t.Fatalf("CanDelete: %v", err)
	}
	if !ok {
		t.Fatalf("empty category reported in use")
	}
}

func TestGuardedDeleteBlocksInUseCategory(t *testing.T) {
	categories, contractors, g := setup(t)
	ctx := context.Background()

	cat, _ := categories.Create(ctx, model.ContractorCategory{Title: "Catering", OwnerID: owner})
	worker, err := contractors.Create(ctx, model.Contractor{
		Name: "Tasty Ltd", CategoryID: cat.ID, OwnerID: owner,
	})
	if err != nil {
		t.Fatalf("Create contractor: %v", err)
	}

	err = g.GuardedDelete(ctx, cat.ID)
	var conflict *api.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}

	// Nothing was deleted: category and contractor both survive.
	if _, err := categories.Get(ctx, cat.ID); err != nil {
		t.Fatalf("category deleted despite guard: %v", err)
	}
	if _, err := contractors.Get(ctx, worker.ID); err != nil {
		t.Fatalf("contractor touched by guarded delete: %v", err)
	}
}

func TestGuardedDeleteSucceedsAfterReassign(t *testing.T) {
	categories, contractors, g := setup(t)
	ctx := context.Background()

	catA, _ := categories.Create(ctx, model.ContractorCategory{Title: "Music", OwnerID: owner})
	catB, _ := categories.Create(ctx, model.ContractorCategory{Title: "Entertainment", OwnerID: owner})
	worker, _ := contractors.Create(ctx, model.Contractor{
		Name: "DJ Alpha", CategoryID: catA.ID, OwnerID: owner,
	})

	if err := g.GuardedDelete(ctx, catA.ID); err == nil {
		t.Fatalf("expected in-use conflict before reassign")
	}

	worker.CategoryID = catB.ID
	if _, err := contractors.Update(ctx, worker.ID, *worker); err != nil {
		t.Fatalf("Update contractor: %v", err)
	}

	if err := g.GuardedDelete(ctx, catA.ID); err != nil {
		t.Fatalf("GuardedDelete after reassign: %v", err)
	}
	if _, err := categories.Get(ctx, catA.ID); err == nil {
		t.Fatalf("category survived a permitted delete")
	}
}

func TestBackendConflictSurfacesIdentically(t *testing.T) {
	// Bypass the guard and hit the backend directly: its independent
	// in-use check must yield the same error shape the guard does.
	categories, contractors, _ := setup(t)
	ctx := context.Background()

	cat, _ := categories.Create(ctx, model.ContractorCategory{Title: "Photo", OwnerID: owner})
	_, _ = contractors.Create(ctx, model.Contractor{
		Name: "Studio Gamma", CategoryID: cat.ID, OwnerID: owner,
	})

	err := categories.Delete(ctx, cat.ID)
	var conflict *api.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("backend delete err = %v, want *ConflictError", err)
	}
	if api.UserMessage(err) != conflict.Message {
		t.Fatalf("conflict message not surfaced verbatim")
	}
}
