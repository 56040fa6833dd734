package validators

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-offline-sync/models"
)

// Field name constants used to specify which fields should be validated.
// They are passed to Validate to restrict validation to a subset of fields.
const (
	// FieldIdempotencyKey targets the operation identity used for replay
	// detection.
	FieldIdempotencyKey = "idempotency_key"

	// FieldOperation targets the operation kind (create, update, delete).
	FieldOperation = "operation"

	// FieldCollection targets the synchronized collection name.
	FieldCollection = "collection"

	// FieldKey targets the record key.
	FieldKey = "key"

	// FieldPayload requires a JSON payload for creates and updates.
	FieldPayload = "payload"

	// FieldTimestamp targets the record modification instant.
	FieldTimestamp = "timestamp"
)

// maxKeyLength bounds record keys and idempotency keys.
const maxKeyLength = 256

type RemoteOperationValidator struct{}

func NewRemoteOperationValidator() Validator {
	return &RemoteOperationValidator{}
}

// Validate checks a [models.RemoteOperation] or a [models.RemoteRecord]
// reference. Without fields every field of the value is checked.
func (v *RemoteOperationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RemoteOperation:
		return v.validateOperation(ctx, value, fields...)
	case *models.RemoteOperation:
		return v.validateOperation(ctx, *value, fields...)

	case models.RemoteRecord:
		return v.validateRecordRef(ctx, value, fields...)
	case *models.RemoteRecord:
		return v.validateRecordRef(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RemoteOperationValidator) validateOperation(_ context.Context, op models.RemoteOperation, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIdempotencyKey, FieldOperation, FieldCollection, FieldKey, FieldPayload, FieldTimestamp}
	}

	for _, f := range fields {
		switch f {
		case FieldIdempotencyKey:
			if op.IdempotencyKey == "" || len(op.IdempotencyKey) > maxKeyLength {
				return ErrInvalidIdempotencyKey
			}
		case FieldOperation:
			if !op.Operation.Valid() {
				return ErrInvalidOperation
			}
		case FieldCollection:
			if !op.Collection.Syncable() {
				return ErrInvalidCollection
			}
		case FieldKey:
			if err := validateKey(op.Key); err != nil {
				return err
			}
		case FieldPayload:
			if op.Operation == models.OperationDelete {
				continue
			}
			if len(op.Payload) == 0 {
				return ErrEmptyPayload
			}
			if !json.Valid(op.Payload) {
				return ErrInvalidPayload
			}
		case FieldTimestamp:
			if op.Operation != models.OperationDelete && op.Timestamp.IsZero() {
				return ErrInvalidTimestamp
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RemoteOperationValidator) validateRecordRef(_ context.Context, record models.RemoteRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCollection, FieldKey}
	}

	for _, f := range fields {
		switch f {
		case FieldCollection:
			if !record.Collection.Syncable() {
				return ErrInvalidCollection
			}
		case FieldKey:
			if err := validateKey(record.Key); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateKey(key string) error {
	if key == "" || len(key) > maxKeyLength {
		return ErrEmptyKey
	}
	return nil
}
