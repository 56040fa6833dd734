package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/migrations"
)

// ErrorClassification is the result of [ErrorClassificator.Classify]. It
// indicates whether a failed database operation may succeed if retried.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the failed operation may succeed if attempted
	// again (e.g. after a lock is released or a transient connection loss).
	Retryable
)

func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// ErrorClassificator maps driver errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	// Code returns the driver-specific error code, empty when err is not a
	// driver error.
	Code(err error) string
	// Full reports whether err means the storage is out of space.
	Full(err error) bool
}

// DB wraps a *sql.DB with the dialect it was opened for, its error
// classifier and a logger.
type DB struct {
	*sql.DB
	dialect            migrations.Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies every pending migration of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// storageError wraps a driver error with [ErrStorageFailure] and the
// operation-level sentinel, and logs the driver code.
func (db *DB) storageError(log *logger.Logger, op string, kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorageFailure) {
		return err
	}

	var code string
	classification := NonRetryable
	full := false
	if db.errorClassificator != nil {
		code = db.errorClassificator.Code(err)
		classification = db.errorClassificator.Classify(err)
		full = db.errorClassificator.Full(err)
	}

	log.Err(err).
		Str("func", op).
		Str("code", code).
		Stringer("classification", classification).
		Msg("storage operation failed")

	if full {
		return fmt.Errorf("%w: %w: %s: %w", ErrStorageFailure, ErrStorageFull, op, err)
	}
	if kind != nil {
		return fmt.Errorf("%w: %w: %s: %w", ErrStorageFailure, kind, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
