// internal/storage/schema.go
package storage

import "context"

// Schema management is owned by the dashboard's migration tooling; the
// DDL here exists for tests and the init-db convenience command. The
// bridge itself assumes the tables and the unique external_id
// constraint already exist.

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS agencies (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'agency',
	is_active BOOLEAN NOT NULL DEFAULT true
);
CREATE TABLE IF NOT EXISTS groups (
	id BIGSERIAL PRIMARY KEY,
	agency_id BIGINT NOT NULL REFERENCES agencies(id),
	external_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT true
);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS agencies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'agency',
	is_active INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS groups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	agency_id INTEGER NOT NULL REFERENCES agencies(id),
	external_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1
);
`

// SchemaSQL returns the authoritative DDL for the dialect. Tests build
// their databases from this to avoid drift against hardcoded copies.
func SchemaSQL(d Dialect) string {
	if d == DialectPostgres {
		return schemaPostgres
	}
	return schemaSQLite
}

// InitSchema applies the DDL. Idempotent.
func (s *Storage) InitSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, SchemaSQL(s.dialect))
	return err
}
