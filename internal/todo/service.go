package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/errorz"
)

// Service provides the rules for working with activities.
//
// The service does not check ownership, that's the caller's job. It does
// guarantee the author reference is stamped at creation and immutable
// afterwards.
type Service struct {
	store Store

	// NowFunc is used to get the current time.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store:   store,
		NowFunc: time.Now,
	}
}

// Create validates the input and stores a new activity authored by authorID.
func (s *Service) Create(ctx context.Context, in ActivityInput, authorID uuid.UUID) (Activity, error) {
	if err := in.Validate(); err != nil {
		return Activity{}, err
	}

	now := s.NowFunc()
	activity := Activity{
		ID:          uuid.New(),
		Description: in.sanitized().Description,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.CreateActivity(ctx, &activity)
	if err != nil {
		return Activity{}, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// Activities lists all activities, newest first.
func (s *Service) Activities(ctx context.Context) ([]Activity, error) {
	return s.store.FindActivities(ctx, &ActivityFilter{})
}

// ActivityByID loads a single activity.
// It returns errorz.ErrNotFound if the activity does not exist.
func (s *Service) ActivityByID(ctx context.Context, id uuid.UUID) (Activity, error) {
	activities, err := s.store.FindActivities(ctx, &ActivityFilter{
		IDs: []uuid.UUID{id},
	})
	if err != nil {
		return Activity{}, err
	}

	if len(activities) != 1 {
		return Activity{}, errorz.ErrNotFound
	}

	return activities[0], nil
}

// Update validates the input and updates the description of the activity
// with the provided id. The author reference is left untouched.
// It returns errorz.ErrNotFound if the activity does not exist.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in ActivityInput) (Activity, error) {
	if err := in.Validate(); err != nil {
		return Activity{}, err
	}

	activity, err := s.ActivityByID(ctx, id)
	if err != nil {
		return Activity{}, err
	}

	activity.Description = in.sanitized().Description
	activity.UpdatedAt = s.NowFunc()

	err = s.store.UpdateActivity(ctx, &activity)
	if err != nil {
		return Activity{}, err
	}

	return activity, nil
}

// Delete deletes the activity with the provided id.
// It returns errorz.ErrNotFound if the activity does not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteActivity(ctx, id)
}
