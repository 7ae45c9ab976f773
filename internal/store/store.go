// Package store provides the shared SQLite database behind GameShelf's
// durable state, currently the device library. Each module owns its schema
// through versioned migrations; the store keeps a per-module ledger of what
// has been applied.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Migration is one schema change owned by a module, applied at most once.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// sqlitePragmas tune the connection for a local single-writer service. WAL
// lets the HTTP handlers read while the library writes; the pragmas must be
// issued as statements because modernc.org/sqlite ignores DSN parameters.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA cache_size=-20000",
}

// SQLiteStore is the process-wide database handle. One instance is opened in
// main and handed to every module that persists anything.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex // serializes Migrate across modules
}

// New opens (or creates) the database at path and applies the connection
// pragmas. SQLite tolerates exactly one writer, so the pool is pinned to a
// single connection.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	for _, p := range sqlitePragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying *sql.DB for repository queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate applies the module's pending migrations in the order given.
// Versions already recorded in the ledger are skipped, so modules call this
// unconditionally on every startup.
func (s *SQLiteStore) Migrate(ctx context.Context, moduleName string, migrations []Migration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLedger(ctx); err != nil {
		return err
	}

	for _, m := range migrations {
		done, err := s.applied(ctx, moduleName, m.Version)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		if err := s.apply(ctx, moduleName, m); err != nil {
			return fmt.Errorf("migration %s/%d (%s): %w", moduleName, m.Version, m.Description, err)
		}
	}
	return nil
}

// ensureLedger creates the shared migration ledger. Callers hold mu.
func (s *SQLiteStore) ensureLedger(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			module_name TEXT    NOT NULL,
			version     INTEGER NOT NULL,
			description TEXT    NOT NULL,
			applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (module_name, version)
		)
	`)
	if err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}
	return nil
}

func (s *SQLiteStore) applied(ctx context.Context, moduleName string, version int) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM _migrations WHERE module_name = ? AND version = ?",
		moduleName, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %s/%d: %w", moduleName, version, err)
	}
	return count > 0, nil
}

// apply runs the migration and its ledger entry in one transaction, so a
// failed Up never records a version as done.
func (s *SQLiteStore) apply(ctx context.Context, moduleName string, m Migration) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.Up(tx); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO _migrations (module_name, version, description) VALUES (?, ?, ?)",
			moduleName, m.Version, m.Description,
		)
		return err
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}
