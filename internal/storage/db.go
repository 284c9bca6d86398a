// internal/storage/db.go
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite database at path, creating parent directories as
// needed. ":memory:" opens an in-memory database for tests. WAL mode is set
// for concurrent reads and the schema is migrated in place.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to ":memory:" gets its own database; pin the pool to
	// one connection so the migrated schema is the one queries see.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS content_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		original_content TEXT NOT NULL,
		content_format TEXT NOT NULL DEFAULT 'text',
		status TEXT NOT NULL DEFAULT 'pending',
		progress REAL NOT NULL DEFAULT 0,
		analysis_json TEXT NOT NULL DEFAULT '',
		repurposed_json TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_content_created_at ON content_items(created_at DESC);

	CREATE TABLE IF NOT EXISTS distribution_logs (
		id TEXT PRIMARY KEY,
		content_id TEXT NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
		platform TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		post_id TEXT NOT NULL DEFAULT '',
		post_url TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		scheduled_at TEXT NOT NULL,
		posted_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_distribution_content ON distribution_logs(content_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
