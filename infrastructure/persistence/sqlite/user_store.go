// Package sqlite implements the user repository over a bundled SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"skinsight/application/ports"
	"skinsight/domain/routine"
)

const schema = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	routine TEXT
)`

// UserStore persists users in a single SQLite table. Routines are stored as
// JSON text in the routine column and replaced wholesale on every submit.
type UserStore struct {
	db *sql.DB
}

// NewUserStore opens (creating if needed) the database at path and ensures
// the schema exists.
func NewUserStore(path string) (*UserStore, error) {
	if path == "" {
		path = "skinsight.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create users table: %w", err)
	}

	return &UserStore{db: db}, nil
}

// Close closes the underlying database.
func (s *UserStore) Close() error {
	return s.db.Close()
}

// Create inserts a new user with no routine.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*ports.UserRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, routine) VALUES (?, ?, NULL)`,
		username, passwordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ports.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &ports.UserRecord{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// GetByUsername loads a user and parses the stored routine, if any.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*ports.UserRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, routine FROM users WHERE username = ?`,
		username,
	)

	var rec ports.UserRecord
	var stored sql.NullString
	if err := row.Scan(&rec.ID, &rec.Username, &rec.PasswordHash, &stored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	if stored.Valid {
		r, err := routine.Decode(stored.String)
		if err != nil {
			return nil, fmt.Errorf("decode stored routine: %w", err)
		}
		rec.Routine = r
	}

	return &rec, nil
}

// ReplaceRoutine serializes the canonical routine and overwrites the user's
// routine column. One statement, committed immediately.
func (s *UserStore) ReplaceRoutine(ctx context.Context, username string, r routine.Routine) error {
	encoded, err := routine.Encode(r)
	if err != nil {
		return fmt.Errorf("encode routine: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET routine = ? WHERE username = ?`,
		encoded, username,
	)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}

var _ ports.UserRepository = (*UserStore)(nil)
