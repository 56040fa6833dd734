package models

import "time"

// SyncReport summarises one drain pass.
type SyncReport struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Abandoned int `json:"abandoned"`

	// Remaining is the queue size after the pass.
	Remaining int `json:"remaining"`

	// Skipped is true when another drain was already running.
	Skipped bool `json:"skipped"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Merge adds the counters of other to r.
func (r *SyncReport) Merge(other SyncReport) {
	r.Attempted += other.Attempted
	r.Succeeded += other.Succeeded
	r.Failed += other.Failed
	r.Abandoned += other.Abandoned
	r.Remaining = other.Remaining
}

// SyncAbandoned is emitted when a queue entry exceeds the retry ceiling. It
// carries enough identity for manual reconciliation.
type SyncAbandoned struct {
	EntryID    string        `json:"entry_id"`
	Operation  OperationKind `json:"operation"`
	Collection Collection    `json:"collection"`
	RecordKey  string        `json:"record_key"`
	Retries    int           `json:"retries"`
	LastError  string        `json:"last_error"`
	Snapshot   Record        `json:"snapshot"`
	At         time.Time     `json:"at"`
}

// AbandonedFrom builds the event for entry.
func AbandonedFrom(entry QueueEntry, at time.Time) SyncAbandoned {
	return SyncAbandoned{
		EntryID:    entry.ID,
		Operation:  entry.Operation,
		Collection: entry.Collection,
		RecordKey:  entry.RecordKey,
		Retries:    entry.Retries,
		LastError:  entry.LastError,
		Snapshot:   entry.Snapshot,
		At:         at,
	}
}

// StoreStats describes one collection of the local store.
type StoreStats struct {
	Total    int        `json:"total"`
	Unsynced int        `json:"unsynced"`
	Oldest   *time.Time `json:"oldest,omitempty"`
}

// OfflineStatus is the engine status exposed to the application layer.
type OfflineStatus struct {
	IsOnline  bool                      `json:"is_online"`
	QueueSize int                       `json:"queue_size"`
	Stores    map[Collection]StoreStats `json:"stores"`
	Tuning    SyncTuning                `json:"tuning"`
	LastSync  *SyncReport               `json:"last_sync,omitempty"`
}

// CleanupReport summarises one cleanup run.
type CleanupReport struct {
	Deleted       map[Collection]int `json:"deleted"`
	PurgedEntries int                `json:"purged_entries"`
}
