package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
)

type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRecordRepository constructs the SQLite-backed [LocalRecordRepository].
func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *localRecordRepository) Put(ctx context.Context, record models.Record) error {
	log := logger.FromContextOr(ctx, l.logger)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	payload := []byte(record.Payload)
	if len(payload) == 0 {
		payload = []byte("null")
	}

	_, err := l.DB.ExecContext(ctx, upsertRecord,
		string(record.Collection),
		record.Key,
		payload,
		record.CategoryOrDefault(),
		unixNano(record.Timestamp),
		boolToInt(record.Synced),
		boolToInt(record.Offline),
	)
	if err != nil {
		return l.storageError(log, "localRecordRepository.Put", ErrExecutingStatement,
			fmt.Errorf("collection=%s key=%s: %w", record.Collection, record.Key, err))
	}

	return nil
}

func (l *localRecordRepository) Get(ctx context.Context, collection models.Collection, key string) (models.Record, error) {
	log := logger.FromContextOr(ctx, l.logger)

	query, args, err := buildSelectRecordsQuery(collection, models.Query{Key: key})
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, err := scanRecord(l.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	if err != nil {
		return models.Record{}, l.storageError(log, "localRecordRepository.Get", ErrScanningRow, err)
	}

	return record, nil
}

func (l *localRecordRepository) GetAll(ctx context.Context, collection models.Collection, query models.Query) ([]models.Record, error) {
	records := make([]models.Record, 0)
	for record, err := range l.Scan(ctx, collection, query) {
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (l *localRecordRepository) Scan(ctx context.Context, collection models.Collection, query models.Query) iter.Seq2[models.Record, error] {
	return func(yield func(models.Record, error) bool) {
		log := logger.FromContextOr(ctx, l.logger)

		sqlQuery, args, err := buildSelectRecordsQuery(collection, query)
		if err != nil {
			yield(models.Record{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err))
			return
		}

		rows, err := l.DB.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			yield(models.Record{}, l.storageError(log, "localRecordRepository.Scan", ErrExecutingQuery, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanRecord(rows)
			if err != nil {
				yield(models.Record{}, l.storageError(log, "localRecordRepository.Scan", ErrScanningRow, err))
				return
			}
			if !yield(record, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.Record{}, l.storageError(log, "localRecordRepository.Scan", ErrScanningRows, err))
		}
	}
}

func (l *localRecordRepository) Delete(ctx context.Context, collection models.Collection, key string) error {
	log := logger.FromContextOr(ctx, l.logger)

	if _, err := l.DB.ExecContext(ctx, deleteRecord, string(collection), key); err != nil {
		return l.storageError(log, "localRecordRepository.Delete", ErrExecutingStatement,
			fmt.Errorf("collection=%s key=%s: %w", collection, key, err))
	}

	return nil
}

func (l *localRecordRepository) MarkSynced(ctx context.Context, collection models.Collection, key string, version time.Time) (bool, error) {
	log := logger.FromContextOr(ctx, l.logger)

	result, err := l.DB.ExecContext(ctx, markRecordSynced, string(collection), key, unixNano(version))
	if err != nil {
		return false, l.storageError(log, "localRecordRepository.MarkSynced", ErrExecutingStatement, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, l.storageError(log, "localRecordRepository.MarkSynced", ErrExecutingStatement, err)
	}

	if rowsAffected == 0 {
		log.Debug().
			Str("func", "localRecordRepository.MarkSynced").
			Str("collection", string(collection)).
			Str("key", key).
			Msg("record changed or removed since the operation was queued; left unsynced")
	}

	return rowsAffected > 0, nil
}

func (l *localRecordRepository) Stats(ctx context.Context) (map[models.Collection]models.StoreStats, error) {
	log := logger.FromContextOr(ctx, l.logger)

	stats := make(map[models.Collection]models.StoreStats)
	for _, c := range models.DataCollections() {
		stats[c] = models.StoreStats{}
	}
	stats[models.CollectionCacheMetadata] = models.StoreStats{}

	rows, err := l.DB.QueryContext(ctx, recordStats)
	if err != nil {
		return nil, l.storageError(log, "localRecordRepository.Stats", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			collection string
			stat       models.StoreStats
			oldest     sql.NullInt64
		)
		if err := rows.Scan(&collection, &stat.Total, &stat.Unsynced, &oldest); err != nil {
			return nil, l.storageError(log, "localRecordRepository.Stats", ErrScanningRow, err)
		}
		if oldest.Valid {
			t := fromUnixNano(oldest.Int64)
			stat.Oldest = &t
		}
		stats[models.Collection(collection)] = stat
	}

	if err := rows.Err(); err != nil {
		return nil, l.storageError(log, "localRecordRepository.Stats", ErrScanningRows, err)
	}

	return stats, nil
}

func (l *localRecordRepository) Clear(ctx context.Context, collections ...models.Collection) error {
	log := logger.FromContextOr(ctx, l.logger)

	query, args, err := buildClearRecordsQuery(collections)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := l.DB.ExecContext(ctx, query, args...); err != nil {
		return l.storageError(log, "localRecordRepository.Clear", ErrExecutingStatement, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		record     models.Record
		collection string
		payload    []byte
		timestamp  int64
		synced     int
		offline    int
	)

	if err := row.Scan(&collection, &record.Key, &payload, &record.Category, &timestamp, &synced, &offline); err != nil {
		return models.Record{}, err
	}

	record.Collection = models.Collection(collection)
	record.Payload = payload
	record.Timestamp = fromUnixNano(timestamp)
	record.Synced = synced == 1
	record.Offline = offline == 1

	return record, nil
}
