package models

import (
	"encoding/json"
	"time"
)

// Query selects records of one collection. Zero fields do not filter.
type Query struct {
	// Key selects a single record and enables the cache policy read path.
	Key string `json:"key,omitempty"`

	Category string     `json:"category,omitempty"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	Synced   *bool      `json:"synced,omitempty"`

	// Limit caps the result size; 0 means unlimited.
	Limit int `json:"limit,omitempty"`

	// Descending orders by timestamp newest first.
	Descending bool `json:"descending,omitempty"`
}

// UnsyncedQuery selects records not yet acknowledged by the remote.
func UnsyncedQuery() Query {
	synced := false
	return Query{Synced: &synced}
}

// OlderThanQuery selects records whose timestamp is before cutoff.
func OlderThanQuery(cutoff time.Time) Query {
	return Query{Until: &cutoff}
}

// SaveOptions tune a single SaveData call.
type SaveOptions struct {
	// Key is the record key; a new one is generated when empty.
	Key string `json:"key,omitempty"`

	Category  string        `json:"category,omitempty"`
	Priority  Priority      `json:"priority,omitempty"`
	Operation OperationKind `json:"operation,omitempty"`
}

// RemoteOperation is the wire form of a queue entry sent to the remote.
type RemoteOperation struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Operation      OperationKind   `json:"operation"`
	Collection     Collection      `json:"collection"`
	Key            string          `json:"key"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Category       string          `json:"category,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// RemoteRecord is the remote's view of a record.
type RemoteRecord struct {
	Collection Collection      `json:"collection"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload"`
	Category   string          `json:"category,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Deleted    bool            `json:"deleted"`
}

// ToRecord converts the remote view into a synced local record.
func (r RemoteRecord) ToRecord() Record {
	return Record{
		Collection: r.Collection,
		Key:        r.Key,
		Payload:    r.Payload,
		Category:   r.Category,
		Timestamp:  r.Timestamp,
		Synced:     true,
	}
}
