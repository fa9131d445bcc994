// Package store owns the SQLite forum database: schema, message and room
// persistence, the keyring, and the pattern-capable query surface the
// search executor runs against.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite database handle.
type Store struct {
	db *sql.DB
}

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoomNotFound indicates the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrMessageNotFound indicates the requested message does not exist.
	ErrMessageNotFound = errors.New("message not found")
)

// timeFormat is the fixed-width column format for timestamps. Fixed width
// keeps lexicographic ordering equal to chronological ordering, which
// MAX(created) in the thread grouping query relies on. Always UTC.
const timeFormat = "2006-01-02 15:04:05.000000000"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

// DB returns the underlying sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Open opens or creates the forum database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema.
func (s *Store) initialize() error {
	schema := `
		-- Enable WAL mode for better concurrency
		PRAGMA journal_mode = WAL;

		-- Performance optimizations
		PRAGMA synchronous = NORMAL;      -- Faster writes (safe with WAL)
		PRAGMA temp_store = MEMORY;       -- Keep temp tables in memory
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			created TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			author_id INTEGER REFERENCES users(id),
			moderator_id INTEGER REFERENCES users(id),
			password TEXT NOT NULL DEFAULT '',   -- empty = open room
			password_changed TEXT NOT NULL,
			pinned INTEGER NOT NULL DEFAULT 0,
			created TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			thread_id INTEGER REFERENCES messages(id), -- NULL = thread root
			room_id INTEGER NOT NULL REFERENCES rooms(id),
			author_id INTEGER NOT NULL REFERENCES users(id),
			recipient_id INTEGER REFERENCES users(id),
			text TEXT NOT NULL,
			created TEXT NOT NULL,
			last_reply TEXT,                           -- roots only
			deleted_by_id INTEGER REFERENCES users(id) -- soft delete marker
		);

		-- Keyring: one row per successful password entry into a protected
		-- room. Valid until the room's password next changes.
		CREATE TABLE IF NOT EXISTS room_keyring (
			user_id INTEGER NOT NULL REFERENCES users(id),
			room_id INTEGER NOT NULL REFERENCES rooms(id),
			last_successful_entry TEXT NOT NULL,
			PRIMARY KEY (user_id, room_id)
		);

		CREATE TABLE IF NOT EXISTS room_visits (
			user_id INTEGER NOT NULL REFERENCES users(id),
			room_id INTEGER NOT NULL REFERENCES rooms(id),
			visit_time TEXT NOT NULL,
			PRIMARY KEY (user_id, room_id)
		);

		CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id);
		CREATE INDEX IF NOT EXISTS idx_messages_room_created ON messages(room_id, created);
		CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
