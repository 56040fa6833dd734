package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/validators"
)

// errorStatuses is matched in order; the first sentinel found in the chain
// decides the status. More specific errors come first.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrInvalidCollection, http.StatusBadRequest},
	{service.ErrInvalidPayload, http.StatusBadRequest},
	{service.ErrInvalidOperation, http.StatusBadRequest},
	{service.ErrEmptyKey, http.StatusBadRequest},
	{validators.ErrInvalidCollection, http.StatusBadRequest},
	{service.ErrHashMismatch, http.StatusBadRequest},
	{ErrInvalidQuery, http.StatusBadRequest},

	{service.ErrNoDeviceID, http.StatusUnauthorized},
	{service.ErrTokenIsExpired, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},

	{service.ErrNotFound, http.StatusNotFound},
	{store.ErrRecordNotFound, http.StatusNotFound},

	{service.ErrOffline, http.StatusServiceUnavailable},
	{service.ErrEngineClosed, http.StatusServiceUnavailable},
	{adapter.ErrUnavailable, http.StatusServiceUnavailable},
	{adapter.ErrRemoteFailure, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},

	{store.ErrStorageFull, http.StatusInsufficientStorage},
	{store.ErrStorageFailure, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, candidate := range errorStatuses {
		if errors.Is(err, candidate.err) {
			return candidate.status
		}
	}
	return http.StatusInternalServerError
}
