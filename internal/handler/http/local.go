package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// saveRequest is the body of PUT /api/data/{collection}.
type saveRequest struct {
	Key       string               `json:"key,omitempty"`
	Category  string               `json:"category,omitempty"`
	Priority  models.Priority      `json:"priority,omitempty"`
	Operation models.OperationKind `json:"operation,omitempty"`
	Payload   json.RawMessage      `json:"payload"`
}

func (h *Handler) saveData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	collection, err := pathParam(r, "collection")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req saveRequest
	if err = utils.DecodeJSON(r.Body, &req); err != nil {
		log.Err(err).Str("func", "*Handler.saveData").Msg("invalid JSON was passed")
		utils.WriteError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.engine.SaveData(r.Context(), models.Collection(collection), req.Payload, models.SaveOptions{
		Key:       req.Key,
		Category:  req.Category,
		Priority:  req.Priority,
		Operation: req.Operation,
	})
	if err != nil {
		log.Err(err).Str("func", "*Handler.saveData").Msg("error saving data")
		h.writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) loadData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	collection, key, err := recordRef(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := models.Query{Key: key, Category: r.URL.Query().Get("category")}
	records, err := h.engine.LoadData(r.Context(), collection, query)
	if err != nil {
		log.Err(err).Str("func", "*Handler.loadData").Msg("error loading data")
		h.writeServiceError(w, err)
		return
	}
	if len(records) == 0 {
		utils.WriteError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	_, _ = utils.WriteJSON(w, records[0], http.StatusOK)
}

func (h *Handler) listData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	collection, err := pathParam(r, "collection")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	records, err := h.engine.LoadData(r.Context(), models.Collection(collection), query)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listData").Msg("error listing data")
		h.writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

// parseListQuery reads category, since, until (RFC 3339), synced, limit and
// order=desc from the query string.
func parseListQuery(r *http.Request) (models.Query, error) {
	values := r.URL.Query()
	query := models.Query{
		Category:   values.Get("category"),
		Descending: values.Get("order") == "desc",
	}

	for name, dst := range map[string]**time.Time{"since": &query.Since, "until": &query.Until} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.Query{}, fmt.Errorf("%w: %s: %w", ErrInvalidQuery, name, err)
		}
		*dst = &t
	}

	if raw := values.Get("synced"); raw != "" {
		synced, err := strconv.ParseBool(raw)
		if err != nil {
			return models.Query{}, fmt.Errorf("%w: synced: %w", ErrInvalidQuery, err)
		}
		query.Synced = &synced
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return models.Query{}, fmt.Errorf("%w: limit %q", ErrInvalidQuery, raw)
		}
		query.Limit = limit
	}

	return query, nil
}

func (h *Handler) deleteData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	collection, key, err := recordRef(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err = h.engine.DeleteData(r.Context(), collection, key); err != nil {
		log.Err(err).Str("func", "*Handler.deleteData").Msg("error deleting data")
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearOfflineData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.engine.ClearOfflineData(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.clearOfflineData").Msg("error clearing offline data")
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) offlineStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	status, err := h.engine.GetOfflineStatus(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.offlineStatus").Msg("error reading status")
		h.writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) forceSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	report, err := h.engine.ForceSyncAll(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.forceSync").Msg("forced sync failed")
		h.writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, report, http.StatusOK)
}
