package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserFilter is used to filter users.
// Returned users must match all the provided fields.
// If a field is empty or nil, it's ignored.
type UserFilter struct {
	IDs       []uuid.UUID
	Usernames []Username
}

// Store provides access to the user store.
type Store interface {
	// CreateUser creates a user. It returns errorz.ErrConstraintViolated
	// if the username is already taken.
	CreateUser(ctx context.Context, u *User) error
	// FindUsers queries for users based on the provided filter.
	// It returns an empty slice if no users are found.
	FindUsers(ctx context.Context, filter *UserFilter) ([]User, error)
}
