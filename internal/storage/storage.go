// internal/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Storage wraps a database handle together with its dialect. All
// queries in this package go through Query/Exec/Insert so that the
// same call sites work against both backends.
type Storage struct {
	DB      *sql.DB
	dialect Dialect
}

func NewStorage(driver, dsn string) (*Storage, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if dialect == DialectSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return &Storage{DB: db, dialect: dialect}, nil
}

// NewStorageFromDB wraps an already-open handle. Used by tests that
// manage the connection themselves.
func NewStorageFromDB(db *sql.DB, dialect Dialect) *Storage {
	return &Storage{DB: db, dialect: dialect}
}

func (s *Storage) Dialect() Dialect { return s.dialect }

func (s *Storage) Close() error { return s.DB.Close() }

// Row is one result row keyed by column name, the uniform shape both
// backends are normalized into.
type Row map[string]interface{}

// Int64 reads an integer column, tolerating the driver-specific
// representations both backends produce.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case []byte:
		var n int64
		fmt.Sscan(string(v), &n)
		return n
	}
	return 0
}

// String reads a text column.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// Bool reads a boolean column: native bool on Postgres, 0/1 on SQLite.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// Query runs a `?`-placeholder query against the backend and returns
// the rows as column-name → value maps.
func (s *Storage) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	rows, err := s.DB.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Exec runs a `?`-placeholder statement.
func (s *Storage) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := s.DB.ExecContext(ctx, s.dialect.Rebind(query), args...)
	return err
}

// Insert runs an INSERT and returns the generated key. Postgres only
// hands generated keys back through RETURNING, SQLite through
// LastInsertId, so the split lives here and nowhere else.
func (s *Storage) Insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.dialect == DialectPostgres {
		var id int64
		err := s.DB.QueryRowContext(ctx, s.dialect.Rebind(query)+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
