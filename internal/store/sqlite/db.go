// Package sqlite persists the workspace in a normalized SQLite schema:
// one table per entity keyed by string UUID plus a singleton metadata
// row used for optimistic conflict detection.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens a SQLite database with foreign keys enabled.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// schemaVersion is recorded in the metadata row.
const schemaVersion = 2

// RunMigrations creates the schema. Idempotent.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS boards (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    card_prefix TEXT,
    sprint_prefix TEXT,
    next_card_number INTEGER NOT NULL DEFAULT 1,
    sprint_counters TEXT NOT NULL DEFAULT '{}',
    sprint_names TEXT NOT NULL DEFAULT '[]',
    sprint_names_used INTEGER NOT NULL DEFAULT 0,
    sort_field TEXT NOT NULL,
    sort_order TEXT NOT NULL,
    active_sprint_id TEXT,
    completion_column_id TEXT,
    view_mode TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS columns (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    wip_limit INTEGER,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(id)
);
CREATE INDEX IF NOT EXISTS idx_board_columns ON columns(board_id);

CREATE TABLE IF NOT EXISTS sprints (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    sprint_number INTEGER NOT NULL,
    name_index INTEGER,
    prefix TEXT,
    card_prefix TEXT,
    status TEXT NOT NULL CHECK(status IN ('planning', 'active', 'completed', 'cancelled')),
    start_date TEXT,
    end_date TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(id)
);
CREATE INDEX IF NOT EXISTS idx_board_sprints ON sprints(board_id);

CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    column_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high', 'critical')),
    status TEXT NOT NULL CHECK(status IN ('todo', 'in_progress', 'blocked', 'done')),
    position INTEGER NOT NULL,
    due_date TEXT,
    points INTEGER,
    card_number INTEGER NOT NULL,
    sprint_id TEXT,
    card_prefix TEXT,
    sprint_logs TEXT NOT NULL DEFAULT '[]',
    completed_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (column_id) REFERENCES columns(id),
    FOREIGN KEY (sprint_id) REFERENCES sprints(id)
);
CREATE INDEX IF NOT EXISTS idx_column_cards ON cards(column_id);
CREATE INDEX IF NOT EXISTS idx_sprint_cards ON cards(sprint_id);

CREATE TABLE IF NOT EXISTS archived_cards (
    id TEXT PRIMARY KEY,
    card TEXT NOT NULL,
    original_column_id TEXT NOT NULL,
    original_position INTEGER NOT NULL,
    archived_at TEXT NOT NULL,
    FOREIGN KEY (original_column_id) REFERENCES columns(id)
);

CREATE TABLE IF NOT EXISTS edges (
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    label TEXT NOT NULL,
    direction TEXT NOT NULL,
    weight REAL,
    created_at TEXT NOT NULL,
    archived_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_edge_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edge_target ON edges(target);

CREATE TABLE IF NOT EXISTS metadata (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    instance_id TEXT NOT NULL,
    saved_at TEXT NOT NULL,
    schema_version INTEGER NOT NULL
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
