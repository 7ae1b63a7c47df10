// Package store persists anagram entries and the candidate-detail cache
// in SQLite. The schema is versioned: migrations run forward-only inside
// Open, before any other statement touches the database, and the final
// schema version is recorded in PRAGMA user_version so that prebuilt
// snapshot files can be validated against the running code.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is the store schema tag. A snapshot whose user_version
// differs is rejected outright.
const SchemaVersion = 5

//go:embed migrations/*.sql
var migrationsFS embed.FS

// qb builds queries with SQLite "?" placeholders.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var gooseSetup sync.Once

// Store is an open anagram database. Construct it once at the application
// boundary and pass the handle to dependent components.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and brings its
// schema up to SchemaVersion. A migration failure closes the handle and
// fails Open; no partially migrated store is ever returned.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return initialize(db)
}

// OpenInMemory opens a private in-memory store, used by tests and as a
// scratch target. The connection pool is pinned to a single connection so
// every statement sees the same in-memory database.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("store: open in-memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	return initialize(db)
}

func initialize(db *sql.DB) (*Store, error) {
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// migrate applies pending migrations in ascending version order and
// stamps the user_version tag.
func migrate(db *sql.DB) error {
	var setupErr error
	gooseSetup.Do(func() {
		goose.SetBaseFS(migrationsFS)
		goose.SetLogger(goose.NopLogger())
		setupErr = goose.SetDialect("sqlite3")
	})
	if setupErr != nil {
		return fmt.Errorf("store: set migration dialect: %w", setupErr)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("store: write version tag: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for callers that need raw access,
// such as the snapshot exporter.
func (s *Store) DB() *sql.DB {
	return s.db
}
