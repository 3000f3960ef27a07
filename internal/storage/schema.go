// Package storage persists merged parse results to SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion identifies the current table layout.
const SchemaVersion = "1.0"

// CreateSchema creates all tables and indexes for the result database.
// Uses a transaction for atomicity - all schema creation succeeds or
// fails together.
//
// Schema includes:
//   - files: one row per indexed file (natural key: relative path)
//   - symbols, dependencies, imports, exports, parse_errors: result rows
//   - meta: schema version and bookkeeping
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", createFilesTable},
		{"symbols", createSymbolsTable},
		{"dependencies", createDependenciesTable},
		{"imports", createImportsTable},
		{"exports", createExportsTable},
		{"parse_errors", createParseErrorsTable},
		{"meta", createMetaTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range schemaIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	bootstrapSQL := `
		INSERT INTO meta (key, value, updated_at) VALUES
			('schema_version', ?, ?),
			('created_at', ?, ?)
	`
	if _, err := tx.Exec(bootstrapSQL, SchemaVersion, now, now, now); err != nil {
		return fmt.Errorf("failed to bootstrap meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// GetSchemaVersion retrieves the schema version from meta.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='meta'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check meta existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil // New database
	}

	var version string
	err = db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in meta")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

// UpdateSchemaVersion sets or updates the schema version in meta.
func UpdateSchemaVersion(db *sql.DB, version string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO meta (key, value, updated_at)
		VALUES ('schema_version', ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	_, err := db.Exec(query, version, now)
	if err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return nil
}

// Table DDL constants

const createFilesTable = `
CREATE TABLE files (
    file_path TEXT PRIMARY KEY,                    -- Natural key: relative path from repo root
    language TEXT NOT NULL,                        -- typescript, python, ruby, etc.
    size_bytes INTEGER NOT NULL DEFAULT 0,
    file_hash TEXT NOT NULL,                       -- SHA-256 for change detection
    chunk_count INTEGER NOT NULL DEFAULT 0,        -- chunks the file was parsed in
    cross_chunk_refs INTEGER NOT NULL DEFAULT 0,   -- dependencies resolved across chunk boundaries
    indexed_at TEXT NOT NULL                       -- ISO 8601 when this file was indexed
)
`

const createSymbolsTable = `
CREATE TABLE symbols (
    symbol_id TEXT PRIMARY KEY,                    -- UUID
    file_path TEXT NOT NULL,
    name TEXT NOT NULL,
    qualified_name TEXT NOT NULL DEFAULT '',       -- Class.method for members
    kind TEXT NOT NULL,                            -- function, class, method, interface, ...
    entity_type TEXT NOT NULL DEFAULT '',          -- component, composable, store
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    start_column INTEGER NOT NULL DEFAULT 0,
    end_column INTEGER NOT NULL DEFAULT 0,
    is_exported INTEGER NOT NULL DEFAULT 0,        -- Boolean
    visibility TEXT NOT NULL DEFAULT '',           -- public, private
    signature TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)
`

const createDependenciesTable = `
CREATE TABLE dependencies (
    dependency_id TEXT PRIMARY KEY,                -- UUID
    file_path TEXT NOT NULL,
    from_symbol TEXT NOT NULL,                     -- caller, or <global>
    to_symbol TEXT NOT NULL,
    kind TEXT NOT NULL,                            -- calls, references, extends, uses, contains
    line INTEGER NOT NULL,
    confidence REAL NOT NULL DEFAULT 1.0,
    context TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)
`

const createImportsTable = `
CREATE TABLE imports (
    import_id TEXT PRIMARY KEY,                    -- UUID
    file_path TEXT NOT NULL,
    source TEXT NOT NULL,                          -- module specifier
    names TEXT NOT NULL DEFAULT 'null',            -- JSON array of imported names
    kind TEXT NOT NULL,                            -- named, default, namespace, side_effect
    line INTEGER NOT NULL,
    is_dynamic INTEGER NOT NULL DEFAULT 0,         -- Boolean: import() expression
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)
`

const createExportsTable = `
CREATE TABLE exports (
    export_id TEXT PRIMARY KEY,                    -- UUID
    file_path TEXT NOT NULL,
    names TEXT NOT NULL DEFAULT 'null',            -- JSON array of exported names
    kind TEXT NOT NULL,                            -- named, default, re_export
    source TEXT NOT NULL DEFAULT '',               -- re-export origin module
    line INTEGER NOT NULL,
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)
`

const createParseErrorsTable = `
CREATE TABLE parse_errors (
    error_id TEXT PRIMARY KEY,                     -- UUID
    file_path TEXT NOT NULL,
    kind TEXT NOT NULL,                            -- syntax_error, size_exceeded
    message TEXT NOT NULL,
    line INTEGER NOT NULL DEFAULT 0,
    column_number INTEGER NOT NULL DEFAULT 0,
    severity TEXT NOT NULL DEFAULT 'error',        -- error, warning
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)
`

const createMetaTable = `
CREATE TABLE meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

// schemaIndexes covers the access paths of the reader, graph, and
// search layers.
var schemaIndexes = []string{
	"CREATE INDEX idx_symbols_file ON symbols(file_path)",
	"CREATE INDEX idx_symbols_name ON symbols(name)",
	"CREATE INDEX idx_symbols_kind ON symbols(kind)",
	"CREATE INDEX idx_dependencies_file ON dependencies(file_path)",
	"CREATE INDEX idx_dependencies_from ON dependencies(from_symbol)",
	"CREATE INDEX idx_dependencies_to ON dependencies(to_symbol)",
	"CREATE INDEX idx_imports_file ON imports(file_path)",
	"CREATE INDEX idx_exports_file ON exports(file_path)",
	"CREATE INDEX idx_parse_errors_file ON parse_errors(file_path)",
}
