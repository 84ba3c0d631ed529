// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/copilot-tui/internal/util"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// FileName is the database file created inside the data directory.
	FileName = "local.db"

	// Namespace prefixes every key so the database can be shared with
	// other tools without collisions.
	Namespace = "copilot."

	// InMemory opens a private database that vanishes on Close.
	InMemory = ":memory:"
)

// ErrClosed is returned by operations on a closed Local.
var ErrClosed = errors.New("local storage is closed")

// =============================================================================
// LOCAL STORAGE
// =============================================================================

// Local is a durable string key/value store scoped to this application.
// Values survive process restarts. Safe for use from one process; other
// processes may read and write the same file concurrently.
type Local struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) <dataDir>/local.db and applies pending
// migrations. Pass InMemory for a throwaway database.
func Open(dataDir string) (*Local, error) {
	dsn := InMemory
	if dataDir != InMemory {
		if err := util.EnsureDir(dataDir); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dataDir, FileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// One connection: the in-memory database lives and dies with it, and
	// the file database never sees "database is locked" from ourselves.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", p, err)
		}
	}

	l := &Local{db: db, path: dsn}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return l, nil
}

// Path returns the database file path, or ":memory:".
func (l *Local) Path() string {
	return l.path
}

// Close closes the underlying database.
func (l *Local) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// Get returns the value stored under key. ok is false when the key is absent.
func (l *Local) Get(key string) (value string, ok bool, err error) {
	if l.db == nil {
		return "", false, ErrClosed
	}
	err = l.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", Namespace+key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (l *Local) Set(key, value string) error {
	if l.db == nil {
		return ErrClosed
	}
	_, err := l.db.Exec(`INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		Namespace+key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (l *Local) Remove(key string) error {
	if l.db == nil {
		return ErrClosed
	}
	if _, err := l.db.Exec("DELETE FROM local_storage WHERE key = ?", Namespace+key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Keys returns every stored key, sorted, without the namespace prefix.
func (l *Local) Keys() ([]string, error) {
	if l.db == nil {
		return nil, ErrClosed
	}
	rows, err := l.db.Query("SELECT key FROM local_storage WHERE key LIKE ? ORDER BY key", Namespace+"%")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, strings.TrimPrefix(k, Namespace))
	}
	return keys, rows.Err()
}

// =============================================================================
// MIGRATIONS
// =============================================================================

// migrate applies embedded migrations not yet recorded in schema_version.
func (l *Local) migrate() error {
	if _, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := migrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var applied int
		if err := l.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := l.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (l *Local) SchemaVersion() (int, error) {
	if l.db == nil {
		return 0, ErrClosed
	}
	var v sql.NullInt64
	if err := l.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return int(v.Int64), nil
}

// migrationVersion extracts 1 from "001_local_storage.sql".
func migrationVersion(name string) (int, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s: missing version prefix", name)
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s: invalid version: %w", name, err)
	}
	return v, nil
}
