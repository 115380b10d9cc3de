// ABOUTME: SQLite schema for the local key-value table
// ABOUTME: One row per key; values are opaque JSON blobs written by the engine
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
