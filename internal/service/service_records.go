package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

type recordService struct {
	records store.RecordRepository
	hasher  *utils.ContentHasher

	logger *logger.Logger
}

// NewRecordService constructs the remote record service. Payload hashes are
// verified with hashKey; an empty key still hashes, unkeyed.
func NewRecordService(records store.RecordRepository, hashKey string, logger *logger.Logger) RecordService {
	return &recordService{
		records: records,
		hasher:  utils.NewContentHasher(hashKey),
		logger:  logger,
	}
}

// Apply stores op exactly once per idempotency key. A replay is answered as
// success so a client that lost the first acknowledgement converges.
func (s *recordService) Apply(ctx context.Context, op models.RemoteOperation, deviceID, contentHash string) error {
	log := logger.FromContextOr(ctx, s.logger)

	if deviceID == "" {
		return ErrNoDeviceID
	}
	if contentHash != "" && !s.hasher.Verify(op.Payload, contentHash) {
		log.Warn().
			Str("func", "recordService.Apply").
			Str("idempotency_key", op.IdempotencyKey).
			Str("device_id", deviceID).
			Msg("content hash mismatch")
		return ErrHashMismatch
	}

	err := s.records.Apply(ctx, op, deviceID, contentHash)
	if errors.Is(err, store.ErrAlreadyApplied) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error applying operation %s: %w", op.IdempotencyKey, err)
	}
	return nil
}

func (s *recordService) Get(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error) {
	record, err := s.records.Get(ctx, collection, key)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.RemoteRecord{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
	}
	if err != nil {
		return models.RemoteRecord{}, err
	}
	return record, nil
}
