package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/errorz"
	"github.com/avisser/todolist/internal/krypto"
)

var (
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrInvalidCredentials indicates the username/password combination
	// did not authenticate. Callers can't distinguish an unknown user
	// from a wrong password, that's intentional.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service is the type that provides the main rules for authentication.
type Service struct {
	store Store

	// comparisonHash is used to compare passwords when no user was found.
	comparisonHash krypto.Argon2Hash

	// NowFunc is used to get the current time.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

func NewService(s Store) (*Service, error) {
	// Hash a random value once, so failed lookups have something to
	// compare against.
	random, err := krypto.GenerateToken()
	if err != nil {
		return nil, err
	}

	hash, err := krypto.HashArgon2(random[:])
	if err != nil {
		return nil, err
	}

	return &Service{
		store:          s,
		comparisonHash: hash,
		NowFunc:        time.Now,
	}, nil
}

// Register creates a new user with the provided registration data and
// returns it. It returns ErrDuplicateUsername if the username is taken.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	pwdHash, err := reg.Password.Hash()
	if err != nil {
		return User{}, err
	}

	now := s.NowFunc()
	user := User{
		ID:           uuid.New(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: pwdHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, errorz.ErrConstraintViolated) {
			return User{}, ErrDuplicateUsername
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate checks the provided credentials and returns the
// authenticated user. It returns ErrInvalidCredentials if the credentials
// don't check out.
func (s *Service) Authenticate(ctx context.Context, c Credentials) (User, error) {
	users, err := s.store.FindUsers(ctx, &UserFilter{
		Usernames: []Username{c.Username},
	})
	if err != nil {
		return User{}, err
	}

	if len(users) != 1 {
		// Even if no user is found we compare to a hash to prevent timing
		// differences that could result in user enumeration attacks.
		_ = c.Password.Match(s.comparisonHash)
		return User{}, ErrInvalidCredentials
	}

	if !c.Password.Match(users[0].PasswordHash) {
		return User{}, ErrInvalidCredentials
	}

	return users[0], nil
}

// UserByID loads the user with the provided id. This is how the session
// identity is deserialized on each request. It returns errorz.ErrNotFound
// if the user does not exist.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (User, error) {
	users, err := s.store.FindUsers(ctx, &UserFilter{
		IDs: []uuid.UUID{id},
	})
	if err != nil {
		return User{}, err
	}

	if len(users) != 1 {
		return User{}, errorz.ErrNotFound
	}

	return users[0], nil
}
