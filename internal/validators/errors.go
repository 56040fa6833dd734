package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrInvalidOperation      = errors.New("invalid operation")
	ErrInvalidCollection     = errors.New("invalid collection")
	ErrEmptyKey              = errors.New("key is required")
	ErrInvalidPayload        = errors.New("payload must be valid JSON")
	ErrEmptyPayload          = errors.New("payload is required")
	ErrInvalidTimestamp      = errors.New("invalid timestamp")
)
