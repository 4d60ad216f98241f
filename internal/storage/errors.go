// internal/storage/errors.go
package storage

import (
	"errors"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("storage: not found")

// ErrDuplicateKey marks an insert that collided with a unique
// constraint. Driver-specific errors are classified by IsDuplicate;
// this sentinel exists so fakes can produce the condition directly.
var ErrDuplicateKey = errors.New("storage: duplicate key")

// pq class 23505 = unique_violation.
const pqUniqueViolation = "23505"

// IsDuplicate reports whether err is a unique-constraint violation on
// either backend.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
