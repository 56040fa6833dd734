// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-offline-sync/models"
)

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var recordColumns = []string{
	"collection",
	"key",
	"payload",
	"category",
	"timestamp",
	"synced",
	"offline",
}

var queueColumns = []string{
	"id",
	"operation",
	"collection",
	"record_key",
	"snapshot",
	"enqueued_at",
	"retries",
	"priority",
	"next_attempt_at",
	"last_error",
}

const (
	upsertRecord = `
		INSERT INTO records (collection, key, payload, category, timestamp, synced, offline)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE SET
			payload = excluded.payload,
			category = excluded.category,
			timestamp = excluded.timestamp,
			synced = excluded.synced,
			offline = excluded.offline;`

	markRecordSynced = `
		UPDATE records
		SET synced = 1, offline = 0
		WHERE collection = ? AND key = ? AND timestamp = ?;`

	deleteRecord = `DELETE FROM records WHERE collection = ? AND key = ?;`

	recordStats = `
		SELECT
			collection,
			COUNT(*),
			COALESCE(SUM(CASE WHEN synced = 0 THEN 1 ELSE 0 END), 0),
			MIN(timestamp)
		FROM records
		GROUP BY collection;`

	insertQueueEntry = `
		INSERT INTO sync_queue (id, operation, collection, record_key, snapshot, enqueued_at, retries, priority, next_attempt_at, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	markQueueEntryFailed = `
		UPDATE sync_queue
		SET retries = ?, next_attempt_at = ?, last_error = ?
		WHERE id = ? AND retries <= ?;`

	removeQueueEntry = `DELETE FROM sync_queue WHERE id = ?;`

	removeQueueEntriesFor = `DELETE FROM sync_queue WHERE collection = ? AND record_key = ?;`

	countQueueEntries = `SELECT COUNT(*) FROM sync_queue;`

	hasPendingQueueEntry = `SELECT EXISTS (SELECT 1 FROM sync_queue WHERE collection = ? AND record_key = ?);`

	clearQueue = `DELETE FROM sync_queue;`
)

// buildSelectRecordsQuery builds the SELECT for one collection. Zero query
// fields do not filter. Until is exclusive so cleanup never removes a record
// that is exactly at the cutoff.
func buildSelectRecordsQuery(collection models.Collection, query models.Query) (string, []any, error) {
	builder := sqlite.
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"collection": string(collection)})

	if query.Key != "" {
		builder = builder.Where(sq.Eq{"key": query.Key})
	}
	if query.Category != "" {
		builder = builder.Where(sq.Eq{"category": query.Category})
	}
	if query.Since != nil {
		builder = builder.Where(sq.GtOrEq{"timestamp": query.Since.UnixNano()})
	}
	if query.Until != nil {
		builder = builder.Where(sq.Lt{"timestamp": query.Until.UnixNano()})
	}
	if query.Synced != nil {
		builder = builder.Where(sq.Eq{"synced": boolToInt(*query.Synced)})
	}

	if query.Descending {
		builder = builder.OrderBy("timestamp DESC", "key DESC")
	} else {
		builder = builder.OrderBy("timestamp ASC", "key ASC")
	}

	if query.Limit > 0 {
		builder = builder.Limit(uint64(query.Limit))
	}

	return builder.ToSql()
}

// buildClearRecordsQuery builds the DELETE for the given collections, or for
// every record when none are given.
func buildClearRecordsQuery(collections []models.Collection) (string, []any, error) {
	builder := sqlite.Delete("records")

	if len(collections) > 0 {
		names := make([]string, 0, len(collections))
		for _, c := range collections {
			names = append(names, string(c))
		}
		builder = builder.Where(sq.Eq{"collection": names})
	}

	return builder.ToSql()
}

// buildSelectQueueQuery builds the drain selection. A nil due disables the
// backoff gate; limit <= 0 selects every entry.
func buildSelectQueueQuery(due *time.Time, limit int) (string, []any, error) {
	builder := sqlite.
		Select(queueColumns...).
		From("sync_queue")

	if due != nil {
		builder = builder.Where(sq.LtOrEq{"next_attempt_at": due.UnixNano()})
	}

	builder = builder.OrderBy("priority DESC", "enqueued_at ASC", "id ASC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return builder.ToSql()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// unixNano maps the zero time to 0 so "no backoff" sorts before any instant.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
