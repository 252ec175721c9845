// Package db provides the SQLite backed activity store.
package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/db"
	"github.com/avisser/todolist/internal/todo"
)

// Store is responsible for interacting with the activities table.
type Store struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

// New creates a new Store.
func New(writeDB, readDB *sql.DB) *Store {
	return &Store{
		writeDB: writeDB,
		readDB:  readDB,
	}
}

func (s *Store) newQuery() *db.Query {
	return &db.Query{}
}

// CreateActivity creates an activity in the database.
func (s *Store) CreateActivity(ctx context.Context, a *todo.Activity) error {
	return insertActivity(s.newQuery(), func(query string, params ...any) (sql.Result, error) {
		return s.writeDB.ExecContext(ctx, query, params...)
	}, a)
}

// UpdateActivity updates the description of an activity in the database.
// The author reference is never touched.
// It returns errorz.ErrNotFound if no activity was updated.
func (s *Store) UpdateActivity(ctx context.Context, a *todo.Activity) error {
	return updateActivity(s.newQuery(), func(query string, params ...any) (sql.Result, error) {
		return s.writeDB.ExecContext(ctx, query, params...)
	}, a)
}

// DeleteActivity deletes an activity from the database.
// It returns errorz.ErrNotFound if no activity was deleted.
func (s *Store) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return deleteActivity(s.newQuery(), func(query string, params ...any) (sql.Result, error) {
		return s.writeDB.ExecContext(ctx, query, params...)
	}, id)
}

// FindActivities queries for activities based on the provided filter.
// It returns an empty slice if no activities are found.
func (s *Store) FindActivities(ctx context.Context, filter *todo.ActivityFilter) ([]todo.Activity, error) {
	return selectActivities(s.newQuery(), func(query string, params ...any) (*sql.Rows, error) {
		return s.readDB.QueryContext(ctx, query, params...)
	}, filter)
}
