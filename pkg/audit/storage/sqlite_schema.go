package storage

// SchemaVersion is the current audit database schema version.
const SchemaVersion = 1

// Schema creates the audit tables and indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
	id TEXT PRIMARY KEY,
	request_id TEXT NOT NULL,
	recorded_time TIMESTAMP NOT NULL,
	target TEXT NOT NULL,
	state TEXT NOT NULL,
	failed_state TEXT,
	sources TEXT,
	conflicts TEXT,
	leaf_count INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0,
	error TEXT,
	duration_ns INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_audit_recorded_time ON audit_records(recorded_time);
CREATE INDEX IF NOT EXISTS idx_audit_target ON audit_records(target);
CREATE INDEX IF NOT EXISTS idx_audit_state ON audit_records(state);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version;`
