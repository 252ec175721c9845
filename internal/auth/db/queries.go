package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/auth"
	"github.com/avisser/todolist/internal/db"
	"github.com/avisser/todolist/internal/errorz"
)

type execFunc func(query string, params ...any) (sql.Result, error)
type queryFunc func(query string, params ...any) (*sql.Rows, error)

func insertUser(q *db.Query, ef execFunc, u *auth.User) error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	q.Unsafe(`INSERT INTO users (id, username_encrypted, username_blind_index, email_encrypted, password_hash, created_at, updated_at) VALUES (`)
	q.Param(u.ID)
	q.Unsafe(`, `)
	q.ParamEncrypted([]byte(u.Username))
	q.Unsafe(`, `)
	q.ParamBlindIndex([]byte(u.Username))
	q.Unsafe(`, `)
	q.ParamEncrypted([]byte(u.Email))
	q.Unsafe(`, `)
	q.Params(u.PasswordHash.String(), u.CreatedAt, u.UpdatedAt)
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

func selectUsers(q *db.Query, qf queryFunc, f *auth.UserFilter) ([]auth.User, error) {
	q.Unsafe(`SELECT id, username_encrypted, email_encrypted, password_hash, created_at, updated_at FROM users WHERE 1=1 `)

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.Usernames) > 0 {
		q.Unsafe(`AND username_blind_index IN (`)
		for i, username := range f.Usernames {
			if i > 0 {
				q.Unsafe(`, `)
			}
			q.ParamBlindIndex([]byte(username))
		}
		q.Unsafe(`) `)
	}

	q.Unsafe(`ORDER BY created_at ASC`)

	s, params, err := q.Get()
	if err != nil {
		return nil, err
	}

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]auth.User, 0)
	for rows.Next() {
		var u auth.User
		usernameBytes := q.DecryptionTarget()
		emailBytes := q.DecryptionTarget()
		err := rows.Scan(&u.ID, usernameBytes, emailBytes, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		u.Username, err = auth.ParseUsername(string(usernameBytes.Data))
		if err != nil {
			return nil, err
		}

		u.Email, err = auth.ParseEmail(string(emailBytes.Data))
		if err != nil {
			return nil, err
		}

		out = append(out, u)
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
