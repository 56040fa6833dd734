// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models defines the records, queue entries, policies and reports
// shared by the engine, its storages and the remote.
package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Collection names one of the logical record collections kept by the local
// store.
type Collection string

const (
	// CollectionAppData holds the general application state.
	CollectionAppData Collection = "app_data"

	// CollectionHistory holds the calculation history.
	CollectionHistory Collection = "history"

	// CollectionFormulas holds user-defined formulas.
	CollectionFormulas Collection = "user_formulas"

	// CollectionSettings holds user preferences.
	CollectionSettings Collection = "settings"

	// CollectionSyncQueue is the durable queue of pending remote operations.
	// It is stored apart from the record collections.
	CollectionSyncQueue Collection = "sync_queue"

	// CollectionCacheMetadata holds the last remote refresh instant of cached
	// records, keyed by "<collection>/<key>".
	CollectionCacheMetadata Collection = "cache_metadata"
)

var (
	// ErrInvalidCollection is returned when a collection name is not one of
	// the known collections.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrSyncedAndOffline is returned when a record claims to be both
	// acknowledged by the remote and written while disconnected.
	ErrSyncedAndOffline = errors.New("record cannot be both synced and offline")

	// ErrEmptyKey is returned when a record has no primary key.
	ErrEmptyKey = errors.New("record key is empty")
)

// DataCollections returns the collections that hold user records and take
// part in synchronization.
func DataCollections() []Collection {
	return []Collection{
		CollectionAppData,
		CollectionHistory,
		CollectionFormulas,
		CollectionSettings,
	}
}

// AllCollections returns every logical collection, including the sync queue
// and the cache metadata.
func AllCollections() []Collection {
	return append(DataCollections(), CollectionSyncQueue, CollectionCacheMetadata)
}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	for _, known := range AllCollections() {
		if c == known {
			return true
		}
	}
	return false
}

// Syncable reports whether records of c are transmitted to the remote.
func (c Collection) Syncable() bool {
	for _, known := range DataCollections() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Collection) String() string {
	return string(c)
}

// Record is a single persisted unit of application data.
type Record struct {
	// Collection is the logical collection the record belongs to.
	Collection Collection `json:"collection"`

	// Key is the opaque primary identifier, unique within Collection.
	Key string `json:"key"`

	// Payload is the arbitrary structured value stored by the caller.
	Payload json.RawMessage `json:"payload"`

	// Category selects the cache policy and the retention window.
	// Empty means the collection name.
	Category string `json:"category,omitempty"`

	// Timestamp is the creation or last modification instant.
	Timestamp time.Time `json:"timestamp"`

	// Synced reports whether this exact value was acknowledged by the remote.
	Synced bool `json:"synced"`

	// Offline reports whether this value was written while disconnected.
	Offline bool `json:"offline"`
}

// CategoryOrDefault returns the record category, falling back to the
// collection name.
func (r Record) CategoryOrDefault() string {
	if r.Category != "" {
		return r.Category
	}
	return string(r.Collection)
}

// Validate checks the record invariants before it is persisted.
func (r Record) Validate() error {
	if !r.Collection.Valid() {
		return ErrInvalidCollection
	}
	if r.Key == "" {
		return ErrEmptyKey
	}
	if r.Synced && r.Offline {
		return ErrSyncedAndOffline
	}
	return nil
}

// AsSynced returns a copy of r acknowledged by the remote.
func (r Record) AsSynced() Record {
	r.Synced = true
	r.Offline = false
	return r
}
