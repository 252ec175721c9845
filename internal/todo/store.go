package todo

import (
	"context"

	"github.com/google/uuid"
)

// ActivityFilter is used to filter activities.
// Returned activities must match all the provided fields.
// If a field is empty or nil, it's ignored.
type ActivityFilter struct {
	IDs       []uuid.UUID
	AuthorIDs []uuid.UUID
}

// Store provides access to the activity store.
type Store interface {
	CreateActivity(ctx context.Context, a *Activity) error
	// UpdateActivity updates an activity by id.
	// It returns errorz.ErrNotFound if no activity was updated.
	UpdateActivity(ctx context.Context, a *Activity) error
	// DeleteActivity deletes an activity by id.
	// It returns errorz.ErrNotFound if no activity was deleted.
	DeleteActivity(ctx context.Context, id uuid.UUID) error
	// FindActivities queries for activities based on the provided filter.
	// It returns an empty slice if no activities are found.
	FindActivities(ctx context.Context, filter *ActivityFilter) ([]Activity, error)
}
