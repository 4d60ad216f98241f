// internal/manager/errors.go
package manager

import (
	"errors"
	"fmt"

	"group-bridge/internal/resolver"
)

// ErrNoAgencyAvailable is surfaced unchanged from the resolver: a
// configuration problem, not retried here.
var ErrNoAgencyAvailable = resolver.ErrNoAgencyAvailable

// ErrCreationInconsistency means the store reported a successful
// insert but the row cannot subsequently be found. Fatal; indicates
// storage-layer corruption or a backend that dropped the insert.
var ErrCreationInconsistency = errors.New("created group row not found on re-read")

// StoreError wraps an I/O-level store failure with enough context to
// diagnose which operation on which group broke. Callers treat it as
// retryable at their own layer; it is never swallowed here.
type StoreError struct {
	Op         string
	ExternalID string
	Err        error
}

func (e *StoreError) Error() string {
	if e.ExternalID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (group %s): %v", e.Op, e.ExternalID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op, externalID string, err error) *StoreError {
	return &StoreError{Op: op, ExternalID: externalID, Err: err}
}
