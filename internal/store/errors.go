package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStorageFailure marks every failure of the underlying database: I/O
	// errors, a full disk, a locked or corrupt file, a failed query. It is
	// never returned for a missing record.
	ErrStorageFailure = errors.New("storage failure")

	// ErrStorageFull is returned together with [ErrStorageFailure] when the
	// database reports that the disk or quota is exhausted.
	ErrStorageFull = errors.New("storage quota exceeded")

	// ErrRecordNotFound is returned by Get when no record has the key.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrInvalidRecord is returned when a record fails validation before
	// it is written.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrQueueEntryNotFound is returned when an update targets a queue entry
	// that no longer exists.
	ErrQueueEntryNotFound = errors.New("queue entry was not found")

	// ErrInvalidQueueEntry is returned when a queue entry has no id, an
	// unknown operation or a collection that is not synchronized.
	ErrInvalidQueueEntry = errors.New("invalid queue entry")

	// ErrAlreadyApplied is returned by the remote repository when an
	// idempotency key was already recorded.
	ErrAlreadyApplied = errors.New("operation was already applied")
)

// Low-level database operation errors. These are wrapped together with
// [ErrStorageFailure] when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iteration over a result set fails
	// mid-way.
	ErrScanningRows = errors.New("failed to scan rows")
)
