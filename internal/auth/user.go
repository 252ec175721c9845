package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/krypto"
)

// User contains the data for a user.
type User struct {
	ID           uuid.UUID
	Username     Username
	Email        Email
	PasswordHash krypto.Argon2Hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var ErrInvalidUsername = errors.New("invalid username")

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// Username uniquely identifies a user. Usernames are 3 to 30 characters
// of letters, digits, underscores or dashes.
type Username string

// ParseUsername parses the given string into a Username.
func ParseUsername(raw string) (Username, error) {
	trimmed := strings.TrimSpace(raw)

	if !usernamePattern.MatchString(trimmed) {
		return Username(""), ErrInvalidUsername
	}

	return Username(trimmed), nil
}

func (u *Username) UnmarshalText(text []byte) error {
	username, err := ParseUsername(string(text))
	if err != nil {
		return err
	}

	*u = username

	return nil
}

// Credentials identify and authenticate a user.
type Credentials struct {
	Username Username
	Password Password
}

// Registration is the input for registering a new user.
type Registration struct {
	Username Username
	Email    Email
	Password Password
}
