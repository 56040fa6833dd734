package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-offline-sync/models"
)

var postgres = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	insertAppliedOperation = `INSERT INTO applied_operations (idempotency_key, collection, key, operation, content_hash)
		VALUES ($1, $2, $3, $4, $5);`

	upsertRemoteRecord = `INSERT INTO records (collection, key, payload, category, timestamp, updated_at, deleted, device_id)
		VALUES ($1, $2, $3, $4, $5, NOW(), FALSE, $6)
		ON CONFLICT (collection, key) DO UPDATE SET
			payload = EXCLUDED.payload,
			category = EXCLUDED.category,
			timestamp = EXCLUDED.timestamp,
			updated_at = NOW(),
			deleted = FALSE,
			device_id = EXCLUDED.device_id;`

	softDeleteRemoteRecord = `UPDATE records
		SET deleted = TRUE, updated_at = NOW(), device_id = $3
		WHERE collection = $1 AND key = $2;`
)

// buildGetRemoteRecordQuery selects one record of the remote table,
// including soft-deleted ones.
func buildGetRemoteRecordQuery(collection models.Collection, key string) (string, []any, error) {
	return postgres.
		Select("collection", "key", "payload", "category", "timestamp", "updated_at", "deleted").
		From("records").
		Where(sq.Eq{"collection": string(collection), "key": key}).
		ToSql()
}
