package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrUserNotFound is returned by lookups for a login that is not in the store.
var ErrUserNotFound = errors.New("user not found in store")

// Store handles SQLite operations for synced GitHub data.
//
// A Store is not shared between sessions: every connection acquires its own
// handle and reacquires it transparently if the underlying connection dies.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if necessary) the SQLite database at dbPath and
// ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Path returns the database file path this store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Alive reports whether the underlying database connection is still usable.
func (s *Store) Alive() bool {
	if s == nil || s.db == nil {
		return false
	}
	return s.db.Ping() == nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate ensures the database schema is up to date.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		html_url TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP,
		updated_at TIMESTAMP,
		last_sync_repos TIMESTAMP,
		last_sync_followers TIMESTAMP,
		is_tracked INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS repos (
		id INTEGER PRIMARY KEY,
		owner_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		full_name TEXT NOT NULL,
		private INTEGER NOT NULL DEFAULT 0,
		html_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		forks_count INTEGER NOT NULL DEFAULT 0,
		stargazers_count INTEGER NOT NULL DEFAULT 0,
		watchers_count INTEGER NOT NULL DEFAULT 0,
		open_issues_count INTEGER NOT NULL DEFAULT 0,
		is_fork INTEGER NOT NULL DEFAULT 0,
		default_branch TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP,
		updated_at TIMESTAMP,
		pushed_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS followers (
		followed_id INTEGER NOT NULL REFERENCES users(id),
		follower_id INTEGER NOT NULL REFERENCES users(id),
		PRIMARY KEY (followed_id, follower_id)
	);

	CREATE INDEX IF NOT EXISTS idx_users_login ON users(login);
	CREATE INDEX IF NOT EXISTS idx_repos_owner ON repos(owner_id);
	CREATE INDEX IF NOT EXISTS idx_followers_follower ON followers(follower_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create initial schema: %w", err)
	}

	return nil
}
