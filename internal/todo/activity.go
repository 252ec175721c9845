// Package todo contains the activity records users keep on their to-do
// list and the rules for mutating them.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/errorz"
)

// MaxDescriptionLen is the maximum length of an activity description in
// characters (not bytes).
const MaxDescriptionLen = 200

var (
	ErrDescriptionRequired = errors.New("is required")
	ErrDescriptionTooLong  = fmt.Errorf("must be at most %d characters", MaxDescriptionLen)
)

// Activity is a single entry on the to-do list.
//
// AuthorID is set once at creation from the authenticated user and never
// changes afterwards, updates only touch the description.
type Activity struct {
	ID          uuid.UUID
	Description string
	AuthorID    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActivityInput is the raw payload for creating or updating an activity.
// The author is never part of the input, it comes from the session.
type ActivityInput struct {
	Description string
}

// Validate checks the input against the activity rules. It returns an
// errorz.InvalidInput that lists every violated rule, not just the first.
// A nil error means the input is valid.
func (in ActivityInput) Validate() error {
	var invalid errorz.InvalidInput

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		invalid = append(invalid, errorz.Keyed{Key: "description", Err: ErrDescriptionRequired})
	}

	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		invalid = append(invalid, errorz.Keyed{Key: "description", Err: ErrDescriptionTooLong})
	}

	if len(invalid) > 0 {
		return invalid
	}

	return nil
}

// sanitized returns the input as it should be stored.
func (in ActivityInput) sanitized() ActivityInput {
	return ActivityInput{
		Description: strings.TrimSpace(in.Description),
	}
}
