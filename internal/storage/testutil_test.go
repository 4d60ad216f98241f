package storage_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"group-bridge/internal/storage"
)

// setupTestStorage opens an in-memory database with the authoritative
// schema from SchemaSQL, so tests cannot drift from production DDL.
func setupTestStorage(t *testing.T) *storage.Storage {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// A :memory: database lives on its connection; keep the pool at one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(storage.SchemaSQL(storage.DialectSQLite)); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return storage.NewStorageFromDB(db, storage.DialectSQLite)
}

// seedAgency inserts a test agency and returns its id.
func seedAgency(t *testing.T, s *storage.Storage, name, role string, active bool) int64 {
	t.Helper()

	activeVal := 0
	if active {
		activeVal = 1
	}
	res, err := s.DB.Exec(
		"INSERT INTO agencies (name, role, is_active) VALUES (?, ?, ?)",
		name, role, activeVal)
	if err != nil {
		t.Fatalf("failed to seed agency: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded agency id: %v", err)
	}
	return id
}
