package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel business keys used in failure records.
const (
	KeyUnknown   = "UNKNOWN"
	KeyFileError = "FILE_ERROR"
)

// ErrNoImportFiles is returned when ProcessImport receives no file paths.
var ErrNoImportFiles = errors.New("no file provided")

// RowError is a rejected row: a validation failure, an unresolved
// reference, or a persistence failure reported by the store.
// Reason is the text written to the failure report.
type RowError struct {
	Key    string
	Reason string
	Err    error
}

func (e *RowError) Error() string { return e.Reason }

func (e *RowError) Unwrap() error { return e.Err }

// SystemError wraps a store failure that stops the import. It is the only
// kind of error ProcessImport returns once it has started reading files.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

// classifyStoreError decides whether an upsert failure belongs to the row or
// to the whole import. Only data exceptions (SQLSTATE class 22) and integrity
// violations (class 23) describe the row. Every other failure, including
// server-side faults such as resource exhaustion or an admin shutdown, means
// the store is unusable.
func classifyStoreError(op, key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isRowLevelState(pgErr.Code) {
		return &RowError{Key: key, Reason: pgErr.Error(), Err: err}
	}
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return rowErr
	}
	return &SystemError{Op: op, Err: err}
}

func isRowLevelState(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "22", "23":
		return true
	}
	return false
}

// IsSystemError reports whether err aborted an import.
func IsSystemError(err error) bool {
	var sysErr *SystemError
	return errors.As(err, &sysErr)
}
