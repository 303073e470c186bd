// Package guard implements the referential-integrity pre-check that
// blocks deleting a parent entity while children still reference it.
package guard

import (
	"context"
	"fmt"

	"github.com/Hadern04/orgbot/internal/api"
)

// CategoryGuard protects contractor categories from deletion while
// contractors still reference them. The check-then-delete sequence is
// not atomic against concurrent mutation; if the backend independently
// rejects the delete with a conflict, that authoritative rejection is
// surfaced identically to a guard-detected one.
type CategoryGuard struct {
	contractors *api.Contractors
	categories  *api.Categories
	ownerID     string
}

// NewCategoryGuard creates a guard scoped to one owner.
func NewCategoryGuard(
	contractors *api.Contractors,
	categories *api.Categories,
	ownerID string,
) *CategoryGuard {
	return &CategoryGuard{
		contractors: contractors,
		categories:  categories,
		ownerID:     ownerID,
	}
}

// CanDelete reports whether the category has zero referencing
// contractors.
func (g *CategoryGuard) CanDelete(ctx context.Context, categoryID string) (bool, error) {
	children, err := g.contractors.ListByCategory(ctx, g.ownerID, categoryID)
	if err != nil {
		return false, fmt.Errorf("counting contractors in category %s: %w", categoryID, err)
	}
	return len(children) == 0, nil
}

// GuardedDelete deletes the category if no contractors reference it.
// An in-use category yields *api.ConflictError naming the blocking
// relationship; the delete is never cascaded to children.
func (g *CategoryGuard) GuardedDelete(ctx context.Context, categoryID string) error {
	ok, err := g.CanDelete(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return &api.ConflictError{
			Message: "Category is in use: delete or reassign its contractors first",
		}
	}
	return g.categories.Delete(ctx, categoryID)
}
