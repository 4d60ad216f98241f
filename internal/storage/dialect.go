// internal/storage/dialect.go
package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect discriminates between the two supported relational backends.
// The differences are confined to positional-placeholder syntax and
// boolean representation; every query in this package is authored once
// with `?` placeholders and rebound here.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// DriverName returns the database/sql driver name to open.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Rebind rewrites `?` placeholders into the dialect's positional form.
// SQLite takes the query unchanged; Postgres gets `$1, $2, …`.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BoolValue converts a boolean parameter into the dialect's
// representation: native true/false for Postgres, 1/0 for SQLite.
func (d Dialect) BoolValue(v bool) interface{} {
	if d == DialectPostgres {
		return v
	}
	if v {
		return 1
	}
	return 0
}
