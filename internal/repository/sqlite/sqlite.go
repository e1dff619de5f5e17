// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// An embedded database — it lives inside the binary as a single file. No
// separate server to install or manage, which fits a single-instance CRUD
// service. Tests use ":memory:" for a throwaway database per test.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/joaovr/travel-map-tracker/internal/apperror"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One *DB implements all three repository interfaces — they share the
// connection pool and the schema below.
type DB struct {
	conn *sql.DB
}

// New creates a SQLite connection pool and runs migrations.
//
// dbPath examples:
//   - "data/travel_map_tracker.db" → file-based, persistent
//   - ":memory:"                   → in-memory, lost on close (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates the pool; Ping forces a real connection so a
	// bad path or permissions problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// relevant for a web server where many requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The marked_countries
	// cascade depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers should defer this
// right after New so the WAL is flushed and the file lock released even on
// panic.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent, so it's safe to run on every startup.
//
// Constraints worth noticing:
//   - users.username and users.google_id are nullable UNIQUE: SQLite treats
//     NULLs as distinct, so any number of users may lack either.
//   - marked_countries carries UNIQUE(user_id, country_id) — the sole
//     correctness guard against two concurrent marks of the same pair —
//     and a CHECK pinning status to the two legal values.
//   - deleting a user cascades to their marks; countries are referenced,
//     never owned, so no cascade there.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			username   TEXT UNIQUE,
			email      TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL DEFAULT '',
			google_id  TEXT UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS countries (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			code       TEXT NOT NULL UNIQUE,
			continent  TEXT NOT NULL,
			flag       TEXT NOT NULL DEFAULT '',
			capital    TEXT NOT NULL DEFAULT '',
			population INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_countries_continent ON countries(continent);
	`)
	if err != nil {
		return fmt.Errorf("creating countries table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS marked_countries (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			country_id       TEXT NOT NULL REFERENCES countries(id),
			status           TEXT NOT NULL CHECK (status IN ('visited', 'wishlist')),
			visit_start_date TEXT,
			visit_end_date   TEXT,
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, country_id)
		);
		CREATE INDEX IF NOT EXISTS idx_marked_countries_user_id ON marked_countries(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating marked_countries table: %w", err)
	}

	return nil
}

// isConstraintViolation reports whether err is a UNIQUE/CHECK constraint
// failure. modernc.org/sqlite surfaces these as formatted driver errors,
// so string matching on the stable "constraint failed" fragment is the
// available signal.
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// constraintErr translates a write error into the domain taxonomy: a
// constraint failure becomes a Conflict the service layer can branch on,
// anything else stays an opaque storage error.
func constraintErr(err error, message string) error {
	if isConstraintViolation(err) {
		return apperror.Conflict(message)
	}
	return err
}

// nullable maps "" to NULL for columns whose UNIQUE index must ignore
// absent values.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
