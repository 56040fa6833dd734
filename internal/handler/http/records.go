package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// pathParam returns the decoded URL parameter name. chi matches on the raw
// path when the request path carries escapes such as %2F in a key.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

func recordRef(r *http.Request) (models.Collection, string, error) {
	collection, err := pathParam(r, "collection")
	if err != nil {
		return "", "", err
	}
	key, err := pathParam(r, "key")
	if err != nil {
		return "", "", err
	}
	return models.Collection(collection), key, nil
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	collection, key, err := recordRef(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.services.RecordService.Get(r.Context(), collection, key)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getRecord").Msg("error getting record")
		h.writeServiceError(w, err)
		return
	}
	if record.Deleted {
		utils.WriteError(w, "record deleted", http.StatusNotFound)
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) putRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	collection, key, err := recordRef(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	idempotencyKey := r.Header.Get(adapter.HeaderIdempotencyKey)
	if idempotencyKey == "" {
		utils.WriteError(w, ErrMissingIdempotencyKey.Error(), http.StatusBadRequest)
		return
	}

	var op models.RemoteOperation
	if err = utils.DecodeJSON(r.Body, &op); err != nil {
		log.Err(err).Str("func", "*Handler.putRecord").Msg("invalid JSON was passed")
		utils.WriteError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if op.Collection == "" {
		op.Collection = collection
	}
	if op.Key == "" {
		op.Key = key
	}
	if op.IdempotencyKey == "" {
		op.IdempotencyKey = idempotencyKey
	}
	if op.Collection != collection || op.Key != key || op.IdempotencyKey != idempotencyKey {
		utils.WriteError(w, ErrPathMismatch.Error(), http.StatusBadRequest)
		return
	}
	if op.Operation == models.OperationDelete {
		utils.WriteError(w, "delete must use the DELETE method", http.StatusBadRequest)
		return
	}
	if op.Operation == "" {
		op.Operation = models.OperationUpdate
	}

	h.applyOperation(w, r, op)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	collection, key, err := recordRef(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	idempotencyKey := r.Header.Get(adapter.HeaderIdempotencyKey)
	if idempotencyKey == "" {
		utils.WriteError(w, ErrMissingIdempotencyKey.Error(), http.StatusBadRequest)
		return
	}

	h.applyOperation(w, r, models.RemoteOperation{
		IdempotencyKey: idempotencyKey,
		Operation:      models.OperationDelete,
		Collection:     collection,
		Key:            key,
	})
}

func (h *Handler) applyOperation(w http.ResponseWriter, r *http.Request, op models.RemoteOperation) {
	log := logger.FromRequest(r)

	deviceID, ok := utils.GetDeviceIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	err := h.services.RecordService.Apply(r.Context(), op, deviceID, r.Header.Get(adapter.HeaderContentHash))
	if err != nil {
		log.Err(err).
			Str("func", "*Handler.applyOperation").
			Str("idempotency_key", op.IdempotencyKey).
			Str("operation", string(op.Operation)).
			Msg("error applying operation")
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	message := http.StatusText(status)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	utils.WriteError(w, message, status)
}
