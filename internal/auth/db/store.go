// Package db provides the SQLite backed user store.
//
// Usernames and email addresses are personal data, so they are encrypted
// at rest. Lookups by username go through a blind index column.
package db

import (
	"context"
	"database/sql"

	"github.com/avisser/todolist/internal/auth"
	"github.com/avisser/todolist/internal/db"
	"github.com/avisser/todolist/internal/krypto"
)

// Store is responsible for interacting with the users table.
type Store struct {
	writeDB       *sql.DB
	readDB        *sql.DB
	encryptor     *krypto.Encryptor
	blindIndexKey krypto.Key
}

// New creates a new Store.
func New(writeDB, readDB *sql.DB, encryptor *krypto.Encryptor, blindIndexKey krypto.Key) *Store {
	return &Store{
		writeDB:       writeDB,
		readDB:        readDB,
		encryptor:     encryptor,
		blindIndexKey: blindIndexKey,
	}
}

func (s *Store) newQuery() *db.Query {
	return &db.Query{
		Encryptor:     s.encryptor,
		BlindIndexKey: s.blindIndexKey,
	}
}

// CreateUser creates a user in the database.
// It returns errorz.ErrConstraintViolated if the username is already taken.
func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	return insertUser(s.newQuery(), func(query string, params ...any) (sql.Result, error) {
		return s.writeDB.ExecContext(ctx, query, params...)
	}, u)
}

// FindUsers queries for users based on the provided filter.
// It returns an empty slice if no users are found.
func (s *Store) FindUsers(ctx context.Context, filter *auth.UserFilter) ([]auth.User, error) {
	return selectUsers(s.newQuery(), func(query string, params ...any) (*sql.Rows, error) {
		return s.readDB.QueryContext(ctx, query, params...)
	}, filter)
}
