// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OperationKind is the kind of remote operation a queue entry describes.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// Valid reports whether k is a known operation kind.
func (k OperationKind) Valid() bool {
	switch k {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// Priority orders queue entries; higher values are drained first.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
)

// QueueEntry is a durable description of a pending remote operation.
type QueueEntry struct {
	// ID identifies the entry and doubles as the idempotency key sent to
	// the remote.
	ID string `json:"id"`

	// Operation is the remote operation to perform.
	Operation OperationKind `json:"operation"`

	// Collection is the target collection.
	Collection Collection `json:"collection"`

	// RecordKey is the key of the originating record.
	RecordKey string `json:"record_key"`

	// Snapshot is the record value at enqueue time.
	Snapshot Record `json:"snapshot"`

	// EnqueuedAt is the enqueue instant, used for FIFO ordering.
	EnqueuedAt time.Time `json:"enqueued_at"`

	// Retries counts failed attempts. It never decreases.
	Retries int `json:"retries"`

	// Priority orders entries across bands.
	Priority Priority `json:"priority"`

	// NextAttemptAt is the earliest instant of the next attempt after a
	// failure. Zero means immediately.
	NextAttemptAt time.Time `json:"next_attempt_at"`

	// LastError is the message of the most recent failure.
	LastError string `json:"last_error,omitempty"`
}

// Due reports whether the entry may be attempted at now.
func (e QueueEntry) Due(now time.Time) bool {
	return e.NextAttemptAt.IsZero() || !e.NextAttemptAt.After(now)
}
