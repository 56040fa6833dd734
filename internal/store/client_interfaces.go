package store

import (
	"context"
	"iter"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalRecordRepository is the persistent local store of records. Every
// method is atomic: a failed call leaves no partial write behind.
type LocalRecordRepository interface {
	Put(ctx context.Context, record models.Record) error
	Get(ctx context.Context, collection models.Collection, key string) (models.Record, error)
	GetAll(ctx context.Context, collection models.Collection, query models.Query) ([]models.Record, error)
	// Scan lazily yields the records matching query in timestamp order. The
	// sequence is finite and single-pass; it holds the store connection until
	// it is exhausted, so callers must not write to the store inside the loop.
	Scan(ctx context.Context, collection models.Collection, query models.Query) iter.Seq2[models.Record, error]
	Delete(ctx context.Context, collection models.Collection, key string) error
	// MarkSynced flips synced=true, offline=false on the record only while
	// its timestamp still equals version. It reports whether a row changed.
	MarkSynced(ctx context.Context, collection models.Collection, key string, version time.Time) (bool, error)
	Stats(ctx context.Context) (map[models.Collection]models.StoreStats, error)
	Clear(ctx context.Context, collections ...models.Collection) error
}

// SyncQueueRepository is the durable queue of pending remote operations.
type SyncQueueRepository interface {
	Enqueue(ctx context.Context, entry models.QueueEntry) error
	// Due returns up to limit entries whose next attempt is not after now,
	// highest priority first and FIFO within a priority band.
	Due(ctx context.Context, now time.Time, limit int) ([]models.QueueEntry, error)
	// Head is Due without the backoff gate.
	Head(ctx context.Context, limit int) ([]models.QueueEntry, error)
	Scan(ctx context.Context) iter.Seq2[models.QueueEntry, error]
	MarkFailed(ctx context.Context, id string, retries int, nextAttempt time.Time, lastErr string) error
	Remove(ctx context.Context, id string) error
	// RemoveFor drops every pending entry of one record and reports how many
	// were dropped. Used when a newer snapshot supersedes them.
	RemoveFor(ctx context.Context, collection models.Collection, key string) (int, error)
	Count(ctx context.Context) (int, error)
	HasPending(ctx context.Context, collection models.Collection, key string) (bool, error)
	Clear(ctx context.Context) error
}
