package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
)

// ClientStorages groups the client-side repositories that share the local
// SQLite file.
type ClientStorages struct {
	// Records is the persistent local store of the data collections and the
	// cache metadata.
	Records LocalRecordRepository

	// Queue is the durable sync queue.
	Queue SyncQueueRepository

	db *DB
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs the record and queue repositories on that connection.
//
// Returns an error wrapping [ErrStorageFailure] if the database cannot be
// opened or migrated.
func NewClientStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migration failed: %w", ErrStorageFailure, err)
	}

	return newClientStorages(db, logger), nil
}

func newClientStorages(db *DB, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		Records: NewLocalRecordRepository(db, logger),
		Queue:   NewSyncQueueRepository(db, logger),
		db:      db,
	}
}

// ClearAll removes every record and every queue entry in one transaction.
func (s *ClientStorages) ClearAll(ctx context.Context) error {
	log := logger.FromContextOr(ctx, s.db.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.db.storageError(log, "ClientStorages.ClearAll", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records;`); err != nil {
		return s.db.storageError(log, "ClientStorages.ClearAll", ErrExecutingStatement, err)
	}
	if _, err := tx.ExecContext(ctx, clearQueue); err != nil {
		return s.db.storageError(log, "ClientStorages.ClearAll", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		return s.db.storageError(log, "ClientStorages.ClearAll", ErrCommitingTransaction, err)
	}

	return nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
