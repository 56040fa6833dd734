package store

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository is the reference remote's record table. Apply is
// idempotent per operation key.
type RecordRepository interface {
	// Apply performs op once. A repeated idempotency key returns
	// [ErrAlreadyApplied] and changes nothing.
	Apply(ctx context.Context, op models.RemoteOperation, deviceID, contentHash string) error
	Get(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error)
}
