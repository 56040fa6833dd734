package service

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=RecordServiceWrapper

// RecordService is the reference remote's record API.
type RecordService interface {
	// Apply performs op for deviceID. Replaying an idempotency key is a
	// successful no-op. contentHash must match the payload.
	Apply(ctx context.Context, op models.RemoteOperation, deviceID, contentHash string) error
	Get(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error)
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// validation.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService
}

// DeviceAuthService verifies the device tokens presented to the remote.
type DeviceAuthService interface {
	// ParseToken validates tokenString and returns the decoded device token.
	ParseToken(ctx context.Context, tokenString string) (models.DeviceToken, error)
	// IssueToken signs a token for deviceID.
	IssueToken(ctx context.Context, deviceID string) (models.DeviceToken, error)
}

// AppInfoService exposes build information of the running remote.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
