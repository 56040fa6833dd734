package service

import "errors"

var (
	// ErrSyncAbandoned is the error text carried by abandoned entries.
	ErrSyncAbandoned = errors.New("sync abandoned: retry ceiling exceeded")

	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidPayload    = errors.New("payload is not valid JSON")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrEmptyKey          = errors.New("empty key")
	ErrNotFound          = errors.New("record not found")
	ErrEngineClosed      = errors.New("engine closed")
	ErrOffline           = errors.New("offline")

	ErrHashMismatch   = errors.New("content hash mismatch")
	ErrNoDeviceID     = errors.New("no device id")
	ErrTokenIsExpired = errors.New("token is expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrValidation     = errors.New("validation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
