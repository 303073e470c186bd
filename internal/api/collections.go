package api

import (
	"context"
	"errors"
	"net/url"

	"github.com/Hadern04/orgbot/internal/model"
)

// ErrMissingOwner is returned when a list call is issued without an
// explicit owner scope. Scoping is always the caller's responsibility;
// it is never inferred from ambient state.
var ErrMissingOwner = errors.New("list requires an explicit owner id")

// collection is the typed CRUD core shared by every entity kind. It
// carries no business logic: each call is one round trip against the
// backend collection endpoint.
type collection[T any] struct {
	client *Client
	path   string
}

// List fetches every entity belonging to ownerID. extra query values
// are appended to the owner scope.
func (c collection[T]) list(ctx context.Context, ownerID string, extra url.Values) ([]T, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	q := url.Values{}
	q.Set("owner_id", ownerID)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	var out []T
	if err := c.client.Get(ctx, c.path+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List fetches every entity belonging to ownerID.
func (c collection[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	return c.list(ctx, ownerID, nil)
}

// Get fetches a single entity by id.
func (c collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := c.client.Get(ctx, c.path+"/"+url.PathEscape(id), &out); err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) && notFound.ID == "" {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return &out, nil
}

// Create submits a new entity and returns the server's copy with its
// durable id assigned.
func (c collection[T]) Create(ctx context.Context, payload T) (*T, error) {
	var out T
	if err := c.client.Post(ctx, c.path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the entity identified by id and returns the server's
// copy.
func (c collection[T]) Update(ctx context.Context, id string, payload T) (*T, error) {
	var out T
	if err := c.client.Put(ctx, c.path+"/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the entity identified by id. A backend conflict
// (entity still referenced elsewhere) surfaces as *ConflictError.
func (c collection[T]) Delete(ctx context.Context, id string) error {
	return c.client.Delete(ctx, c.path+"/"+url.PathEscape(id))
}

// Events is the typed client for the event collection.
type Events struct {
	collection[model.Event]
}

// NewEvents creates the event collection client.
func NewEvents(c *Client) *Events {
	return &Events{collection[model.Event]{client: c, path: "/api/events"}}
}

// Checklists is the typed client for the checklist collection. Save
// payloads carry the full item list; the server replaces items
// wholesale and normalizes ids for new entries.
type Checklists struct {
	collection[model.Checklist]
}

// NewChecklists creates the checklist collection client.
func NewChecklists(c *Client) *Checklists {
	return &Checklists{collection[model.Checklist]{client: c, path: "/api/checklists"}}
}

// Categories is the typed client for the contractor-category
// sub-resource.
type Categories struct {
	collection[model.ContractorCategory]
}

// NewCategories creates the category collection client.
func NewCategories(c *Client) *Categories {
	return &Categories{collection[model.ContractorCategory]{
		client: c, path: "/api/contractor-categories",
	}}
}

// Contractors is the typed client for the contractor collection.
type Contractors struct {
	collection[model.Contractor]
}

// NewContractors creates the contractor collection client.
func NewContractors(c *Client) *Contractors {
	return &Contractors{collection[model.Contractor]{
		client: c, path: "/api/contractors",
	}}
}

// ListByCategory fetches the contractors of one category. Used by the
// referential guard to count children before a category delete.
func (c *Contractors) ListByCategory(
	ctx context.Context,
	ownerID string,
	categoryID string,
) ([]model.Contractor, error) {
	q := url.Values{}
	q.Set("category", categoryID)
	return c.list(ctx, ownerID, q)
}

// Tasks is the typed client for the scheduled-task collection.
type Tasks struct {
	collection[model.ScheduledTask]
}

// NewTasks creates the task collection client.
func NewTasks(c *Client) *Tasks {
	return &Tasks{collection[model.ScheduledTask]{client: c, path: "/api/tasks"}}
}

// Notify triggers an out-of-band notification send for the task. The
// action has no side effect on the task's persisted fields.
func (t *Tasks) Notify(ctx context.Context, id string) error {
	return t.client.Post(ctx, t.path+"/"+url.PathEscape(id)+"/notify", nil, nil)
}
