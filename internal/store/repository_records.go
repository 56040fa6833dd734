package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
)

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository] used by the reference remote.
//
// Every applied operation is recorded in applied_operations inside the same
// transaction as the record change, so a replayed idempotency key is
// rejected by the primary key without touching the record.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *recordRepository) Apply(ctx context.Context, op models.RemoteOperation, deviceID, contentHash string) error {
	log := logger.FromContextOr(ctx, r.logger)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return r.storageError(log, "recordRepository.Apply", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertAppliedOperation,
		op.IdempotencyKey,
		string(op.Collection),
		op.Key,
		string(op.Operation),
		contentHash,
	)
	if isUniqueViolation(err) {
		log.Info().
			Str("func", "recordRepository.Apply").
			Str("idempotency_key", op.IdempotencyKey).
			Msg("operation replayed; already applied")
		return ErrAlreadyApplied
	}
	if err != nil {
		return r.storageError(log, "recordRepository.Apply", ErrExecutingStatement, err)
	}

	switch op.Operation {
	case models.OperationDelete:
		_, err = tx.ExecContext(ctx, softDeleteRemoteRecord, string(op.Collection), op.Key, deviceID)
	default:
		payload := string(op.Payload)
		if payload == "" {
			payload = "null"
		}
		_, err = tx.ExecContext(ctx, upsertRemoteRecord,
			string(op.Collection),
			op.Key,
			payload,
			op.Category,
			op.Timestamp,
			deviceID,
		)
	}
	if err != nil {
		return r.storageError(log, "recordRepository.Apply", ErrExecutingStatement,
			fmt.Errorf("collection=%s key=%s: %w", op.Collection, op.Key, err))
	}

	if err := tx.Commit(); err != nil {
		return r.storageError(log, "recordRepository.Apply", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *recordRepository) Get(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := buildGetRemoteRecordQuery(collection, key)
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		record         models.RemoteRecord
		collectionName string
		payload        []byte
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(
		&collectionName,
		&record.Key,
		&payload,
		&record.Category,
		&record.Timestamp,
		&record.UpdatedAt,
		&record.Deleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return models.RemoteRecord{}, r.storageError(log, "recordRepository.Get", ErrScanningRow, err)
	}

	record.Collection = models.Collection(collectionName)
	record.Payload = payload

	return record, nil
}
