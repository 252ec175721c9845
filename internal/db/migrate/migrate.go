// Package migrate applies SQL schema migrations from a file system.
//
// Migrations are the .sql files in the root of the FS, applied in filename
// order inside a single transaction. A schema_migrations table records every
// file that ran, so applying the same FS twice is a no-op. Applied files may
// never be renamed or removed, the history check fails the whole run if
// they were.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"
)

// ErrHistoryMismatch indicates the migration files no longer line up with
// the history recorded in the database.
var ErrHistoryMismatch = errors.New("migration files do not match recorded history")

// Stamp annotates the rows recorded for a run. It exists to help debugging
// a database later, nothing reads it back.
type Stamp struct {
	AppVersion string
	Time       time.Time
}

// Applied describes a single migration that ran. Sequence starts at 1.
type Applied struct {
	Sequence   int
	Filename   string
	AppVersion string
	Time       time.Time
}

// Equal compares two applied migrations, treating identical instants in
// different time zones as equal.
func (a Applied) Equal(other Applied) bool {
	return a.Sequence == other.Sequence &&
		a.Filename == other.Filename &&
		a.AppVersion == other.AppVersion &&
		a.Time.Equal(other.Time)
}

// MigrationError reports which file failed to apply.
type MigrationError struct {
	Filename string
	Err      error
}

func (e MigrationError) Error() string {
	return fmt.Sprintf("migration %q failed: %v", e.Filename, e.Err)
}

func (e MigrationError) Unwrap() error {
	return e.Err
}

const createTableQuery = `CREATE TABLE IF NOT EXISTS schema_migrations (
	sequence    INTEGER PRIMARY KEY,
	filename    TEXT NOT NULL,
	app_version TEXT NOT NULL,
	applied_at  TIMESTAMP NOT NULL
)
`

// RunFS applies the pending migrations from fileSys and returns them. It
// returns an empty slice when the database is already up to date. All of
// the work, the history check included, happens in one transaction.
func RunFS(ctx context.Context, db *sql.DB, fileSys fs.FS, stamp Stamp) ([]Applied, error) {
	files, err := sqlFiles(fileSys)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin migration transaction: %w", err)
	}

	applied, err := apply(ctx, tx, files, stamp)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit migrations: %w", err)
	}

	return applied, nil
}

func apply(ctx context.Context, tx *sql.Tx, files []sqlFile, stamp Stamp) ([]Applied, error) {
	_, err := tx.ExecContext(ctx, createTableQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	history, err := recordedHistory(ctx, tx)
	if err != nil {
		return nil, err
	}

	err = checkHistory(history, files)
	if err != nil {
		return nil, err
	}

	pending := files[len(history):]
	applied := make([]Applied, 0, len(pending))

	for i, f := range pending {
		_, err := tx.ExecContext(ctx, f.content)
		if err != nil {
			return nil, MigrationError{Filename: f.name, Err: err}
		}

		a := Applied{
			Sequence:   len(history) + i + 1,
			Filename:   f.name,
			AppVersion: stamp.AppVersion,
			Time:       stamp.Time,
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (sequence, filename, app_version, applied_at) VALUES (?, ?, ?, ?)`,
			a.Sequence, a.Filename, a.AppVersion, a.Time,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to record migration %q: %w", f.name, err)
		}

		applied = append(applied, a)
	}

	return applied, nil
}

// checkHistory verifies that every recorded migration still exists as a
// file with the same name at the same position.
func checkHistory(history []Applied, files []sqlFile) error {
	if len(history) > len(files) {
		return fmt.Errorf("%d migrations recorded but only %d files present: %w",
			len(history), len(files), ErrHistoryMismatch)
	}

	for i, h := range history {
		if h.Sequence != i+1 {
			return fmt.Errorf("recorded migration %q has sequence %d, want %d: %w",
				h.Filename, h.Sequence, i+1, ErrHistoryMismatch)
		}

		if h.Filename != files[i].name {
			return fmt.Errorf("recorded migration %d is %q, file is %q: %w",
				h.Sequence, h.Filename, files[i].name, ErrHistoryMismatch)
		}
	}

	return nil
}

func recordedHistory(ctx context.Context, tx *sql.Tx) ([]Applied, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT sequence, filename, app_version, applied_at FROM schema_migrations ORDER BY sequence`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	var history []Applied
	for rows.Next() {
		var a Applied
		err := rows.Scan(&a.Sequence, &a.Filename, &a.AppVersion, &a.Time)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schema_migrations row: %w", err)
		}

		history = append(history, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schema_migrations rows: %w", err)
	}

	return history, nil
}

type sqlFile struct {
	name    string
	content string
}

// sqlFiles loads the .sql files in the root of fileSys, sorted by name.
// Directories and files with other extensions are ignored.
func sqlFiles(fileSys fs.FS) ([]sqlFile, error) {
	entries, err := fs.ReadDir(fileSys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make([]sqlFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(fileSys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %q: %w", entry.Name(), err)
		}

		files = append(files, sqlFile{name: entry.Name(), content: string(content)})
	}

	slices.SortFunc(files, func(a, b sqlFile) int {
		return strings.Compare(a.name, b.name)
	})

	return files, nil
}
