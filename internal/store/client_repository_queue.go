package store

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
)

type syncQueueRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncQueueRepository constructs the SQLite-backed [SyncQueueRepository].
func NewSyncQueueRepository(db *DB, logger *logger.Logger) SyncQueueRepository {
	return &syncQueueRepository{
		DB:     db,
		logger: logger,
	}
}

func (q *syncQueueRepository) Enqueue(ctx context.Context, entry models.QueueEntry) error {
	log := logger.FromContextOr(ctx, q.logger)

	if entry.ID == "" || !entry.Operation.Valid() || !entry.Collection.Syncable() || entry.Retries < 0 {
		return fmt.Errorf("%w: id=%q operation=%q collection=%q", ErrInvalidQueueEntry, entry.ID, entry.Operation, entry.Collection)
	}

	snapshot, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %w", ErrInvalidQueueEntry, err)
	}

	_, err = q.DB.ExecContext(ctx, insertQueueEntry,
		entry.ID,
		string(entry.Operation),
		string(entry.Collection),
		entry.RecordKey,
		snapshot,
		unixNano(entry.EnqueuedAt),
		entry.Retries,
		int(entry.Priority),
		unixNano(entry.NextAttemptAt),
		entry.LastError,
	)
	if err != nil {
		return q.storageError(log, "syncQueueRepository.Enqueue", ErrExecutingStatement,
			fmt.Errorf("entry_id=%s: %w", entry.ID, err))
	}

	log.Debug().
		Str("func", "syncQueueRepository.Enqueue").
		Str("entry_id", entry.ID).
		Str("collection", string(entry.Collection)).
		Str("key", entry.RecordKey).
		Str("operation", string(entry.Operation)).
		Msg("queue entry persisted")

	return nil
}

func (q *syncQueueRepository) Due(ctx context.Context, now time.Time, limit int) ([]models.QueueEntry, error) {
	return q.collect(ctx, &now, limit)
}

func (q *syncQueueRepository) Head(ctx context.Context, limit int) ([]models.QueueEntry, error) {
	return q.collect(ctx, nil, limit)
}

func (q *syncQueueRepository) collect(ctx context.Context, due *time.Time, limit int) ([]models.QueueEntry, error) {
	entries := make([]models.QueueEntry, 0, max(limit, 0))
	for entry, err := range q.scan(ctx, due, limit) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (q *syncQueueRepository) Scan(ctx context.Context) iter.Seq2[models.QueueEntry, error] {
	return q.scan(ctx, nil, 0)
}

func (q *syncQueueRepository) scan(ctx context.Context, due *time.Time, limit int) iter.Seq2[models.QueueEntry, error] {
	return func(yield func(models.QueueEntry, error) bool) {
		log := logger.FromContextOr(ctx, q.logger)

		query, args, err := buildSelectQueueQuery(due, limit)
		if err != nil {
			yield(models.QueueEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err))
			return
		}

		rows, err := q.DB.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.QueueEntry{}, q.storageError(log, "syncQueueRepository.Scan", ErrExecutingQuery, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanQueueEntry(rows)
			if err != nil {
				yield(models.QueueEntry{}, q.storageError(log, "syncQueueRepository.Scan", ErrScanningRow, err))
				return
			}
			if !yield(entry, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.QueueEntry{}, q.storageError(log, "syncQueueRepository.Scan", ErrScanningRows, err))
		}
	}
}

// MarkFailed records a failed attempt. The retry counter never decreases: an
// update carrying a lower count than the stored one is ignored.
func (q *syncQueueRepository) MarkFailed(ctx context.Context, id string, retries int, nextAttempt time.Time, lastErr string) error {
	log := logger.FromContextOr(ctx, q.logger)

	result, err := q.DB.ExecContext(ctx, markQueueEntryFailed, retries, unixNano(nextAttempt), lastErr, id, retries)
	if err != nil {
		return q.storageError(log, "syncQueueRepository.MarkFailed", ErrExecutingStatement, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return q.storageError(log, "syncQueueRepository.MarkFailed", ErrExecutingStatement, err)
	}
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "syncQueueRepository.MarkFailed").
			Str("entry_id", id).
			Int("retries", retries).
			Msg("no queue entry updated")
		return fmt.Errorf("%w (id=%s)", ErrQueueEntryNotFound, id)
	}

	return nil
}

func (q *syncQueueRepository) Remove(ctx context.Context, id string) error {
	log := logger.FromContextOr(ctx, q.logger)

	if _, err := q.DB.ExecContext(ctx, removeQueueEntry, id); err != nil {
		return q.storageError(log, "syncQueueRepository.Remove", ErrExecutingStatement, err)
	}

	return nil
}

func (q *syncQueueRepository) RemoveFor(ctx context.Context, collection models.Collection, key string) (int, error) {
	log := logger.FromContextOr(ctx, q.logger)

	result, err := q.DB.ExecContext(ctx, removeQueueEntriesFor, string(collection), key)
	if err != nil {
		return 0, q.storageError(log, "syncQueueRepository.RemoveFor", ErrExecutingStatement, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, q.storageError(log, "syncQueueRepository.RemoveFor", ErrExecutingStatement, err)
	}

	return int(removed), nil
}

func (q *syncQueueRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContextOr(ctx, q.logger)

	var count int
	if err := q.DB.QueryRowContext(ctx, countQueueEntries).Scan(&count); err != nil {
		return 0, q.storageError(log, "syncQueueRepository.Count", ErrScanningRow, err)
	}

	return count, nil
}

func (q *syncQueueRepository) HasPending(ctx context.Context, collection models.Collection, key string) (bool, error) {
	log := logger.FromContextOr(ctx, q.logger)

	var exists bool
	if err := q.DB.QueryRowContext(ctx, hasPendingQueueEntry, string(collection), key).Scan(&exists); err != nil {
		return false, q.storageError(log, "syncQueueRepository.HasPending", ErrScanningRow, err)
	}

	return exists, nil
}

func (q *syncQueueRepository) Clear(ctx context.Context) error {
	log := logger.FromContextOr(ctx, q.logger)

	if _, err := q.DB.ExecContext(ctx, clearQueue); err != nil {
		return q.storageError(log, "syncQueueRepository.Clear", ErrExecutingStatement, err)
	}

	return nil
}

func scanQueueEntry(row rowScanner) (models.QueueEntry, error) {
	var (
		entry         models.QueueEntry
		operation     string
		collection    string
		snapshot      []byte
		enqueuedAt    int64
		priority      int
		nextAttemptAt int64
	)

	err := row.Scan(
		&entry.ID,
		&operation,
		&collection,
		&entry.RecordKey,
		&snapshot,
		&enqueuedAt,
		&entry.Retries,
		&priority,
		&nextAttemptAt,
		&entry.LastError,
	)
	if err != nil {
		return models.QueueEntry{}, err
	}

	if err := json.Unmarshal(snapshot, &entry.Snapshot); err != nil {
		return models.QueueEntry{}, fmt.Errorf("decoding snapshot of %s: %w", entry.ID, err)
	}

	entry.Operation = models.OperationKind(operation)
	entry.Collection = models.Collection(collection)
	entry.EnqueuedAt = fromUnixNano(enqueuedAt)
	entry.Priority = models.Priority(priority)
	entry.NextAttemptAt = fromUnixNano(nextAttemptAt)

	return entry, nil
}
