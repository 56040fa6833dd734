package service

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// Engine is the public surface of the offline-first sync engine exposed to the
// application layer.
type Engine interface {
	// SaveData persists payload locally. While online the record is sent to
	// the remote at once and queued only if that fails; while offline it is
	// queued. Storage failures are returned to the caller.
	SaveData(ctx context.Context, collection models.Collection, payload []byte, opts models.SaveOptions) (models.Record, error)

	// DeleteData deletes the record locally and queues a remote delete.
	DeleteData(ctx context.Context, collection models.Collection, key string) error

	// LoadData reads records. A query with a key follows the cache policy of
	// the record category; other queries read the local store only.
	LoadData(ctx context.Context, collection models.Collection, query models.Query) ([]models.Record, error)

	// GetOfflineStatus reports connectivity, queue size and per-store stats.
	GetOfflineStatus(ctx context.Context) (models.OfflineStatus, error)

	// ForceSyncAll queues every unsynced record that lost its entry and then
	// drains the whole queue ignoring backoff. While offline it returns
	// ErrOffline without attempting anything.
	ForceSyncAll(ctx context.Context) (models.SyncReport, error)

	// ClearOfflineData removes every local record and queue entry.
	ClearOfflineData(ctx context.Context) error

	// Abandoned streams entries removed at the retry ceiling. Every event
	// published after the call is delivered until ctx ends; a slow reader
	// only delays delivery.
	Abandoned(ctx context.Context) <-chan models.SyncAbandoned

	// Close releases background work started by the engine.
	Close() error
}

// SyncProcessor drains the sync queue.
type SyncProcessor interface {
	// Enqueue appends entry to the durable queue with zero retries.
	Enqueue(ctx context.Context, entry models.QueueEntry) error

	// Drain makes one pass over the due entries, at most one batch. Only one
	// drain runs at a time; a concurrent call returns a report with Skipped
	// set.
	Drain(ctx context.Context) (models.SyncReport, error)

	// ForceDrain drains every entry, ignoring backoff, until the queue is
	// empty or a pass makes no progress.
	ForceDrain(ctx context.Context) (models.SyncReport, error)

	// Resync queues an update for every unsynced record that has no pending
	// entry and returns how many were queued.
	Resync(ctx context.Context) (int, error)

	// Abandoned streams entries removed at the retry ceiling.
	Abandoned(ctx context.Context) <-chan models.SyncAbandoned

	// LastReport returns the report of the last completed pass, or nil.
	LastReport() *models.SyncReport
}

// CleanupService evicts records past their retention window.
type CleanupService interface {
	Cleanup(ctx context.Context) (models.CleanupReport, error)
}

// ConnectivityMonitor is the part of the network monitor the engine uses.
type ConnectivityMonitor interface {
	IsOnline() bool
	Tuning() models.SyncTuning
	Subscribe(ctx context.Context) <-chan models.ConnectivityState
}

// PolicyRegistry resolves the cache policy of a category.
type PolicyRegistry interface {
	Policy(category string) models.CachePolicy
}
