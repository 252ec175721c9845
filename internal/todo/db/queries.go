package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/db"
	"github.com/avisser/todolist/internal/errorz"
	"github.com/avisser/todolist/internal/todo"
)

type execFunc func(query string, params ...any) (sql.Result, error)
type queryFunc func(query string, params ...any) (*sql.Rows, error)

func insertActivity(q *db.Query, ef execFunc, a *todo.Activity) error {
	if a.ID == uuid.Nil || a.AuthorID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	q.Unsafe(`INSERT INTO activities (id, description, author_id, created_at, updated_at) VALUES (`)
	q.Params(a.ID, a.Description, a.AuthorID, a.CreatedAt, a.UpdatedAt)
	q.Unsafe(`)`)

	s, params, err := q.Get()
	if err != nil {
		return err
	}

	_, err = ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func updateActivity(q *db.Query, ef execFunc, a *todo.Activity) error {
	q.Unsafe(`UPDATE activities SET `)

	q.Unsafe(`description = `)
	q.Param(a.Description)

	q.Unsafe(`, updated_at = `)
	q.Param(a.UpdatedAt)

	q.Unsafe(` WHERE id = `)
	q.Param(a.ID)

	s, params, err := q.Get()
	if err != nil {
		return err
	}

	result, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errorz.MapDBErr(err)
	}

	if rows == 0 {
		return fmt.Errorf("activity not found: %w", errorz.ErrNotFound)
	}

	return nil
}

func deleteActivity(q *db.Query, ef execFunc, id uuid.UUID) error {
	q.Unsafe(`DELETE FROM activities WHERE id = `)
	q.Param(id)

	s, params, err := q.Get()
	if err != nil {
		return err
	}

	result, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errorz.MapDBErr(err)
	}

	if rows == 0 {
		return fmt.Errorf("activity not found: %w", errorz.ErrNotFound)
	}

	return nil
}

func selectActivities(q *db.Query, qf queryFunc, f *todo.ActivityFilter) ([]todo.Activity, error) {
	q.Unsafe(`SELECT id, description, author_id, created_at, updated_at FROM activities WHERE 1=1 `)

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.AuthorIDs) > 0 {
		q.Unsafe(`AND author_id IN (`)
		q.Params(anySlice(f.AuthorIDs)...)
		q.Unsafe(`) `)
	}

	q.Unsafe(`ORDER BY created_at DESC`)

	s, params, err := q.Get()
	if err != nil {
		return nil, err
	}

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]todo.Activity, 0)
	for rows.Next() {
		var a todo.Activity
		err := rows.Scan(&a.ID, &a.Description, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func anySlice[T any](s []T) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	return out
}
