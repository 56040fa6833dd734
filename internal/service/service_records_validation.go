package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/validators"
	"github.com/MKhiriev/go-offline-sync/models"
)

type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

func NewRecordValidationService() RecordServiceWrapper {
	return &RecordValidationService{
		validator: validators.NewRemoteOperationValidator(),
	}
}

func (v *RecordValidationService) Apply(ctx context.Context, op models.RemoteOperation, deviceID, contentHash string) error {
	if err := v.validator.Validate(ctx, op); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.Apply(ctx, op, deviceID, contentHash)
}

func (v *RecordValidationService) Get(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error) {
	ref := models.RemoteRecord{Collection: collection, Key: key}
	if err := v.validator.Validate(ctx, ref); err != nil {
		return models.RemoteRecord{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.Get(ctx, collection, key)
}

func (v *RecordValidationService) Wrap(wrapped RecordService) RecordService {
	v.inner = wrapped
	return v
}
