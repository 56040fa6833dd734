package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/go-resty/resty/v2"
)

const (
	// HeaderIdempotencyKey carries the queue entry ID.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderContentHash carries the keyed BLAKE2b-256 digest of the payload.
	HeaderContentHash = "X-Content-Hash"
)

type httpRemoteAdapter struct {
	client *utils.HTTPClient
	hasher *utils.ContentHasher
	tokens *deviceTokens

	logger *logger.Logger
}

// NewHTTPRemoteAdapter constructs an HTTP/REST implementation of
// [RemoteAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteAdapter(adapterCfg config.Adapter, appCfg config.App, logger *logger.Logger) (RemoteAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpRemoteAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		hasher: utils.NewContentHasher(appCfg.HashKey),
		tokens: newDeviceTokens(appCfg),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// compactPayload returns payload in the form encoding/json transmits it, so
// the content hash matches what the remote receives.
func compactPayload(payload json.RawMessage) json.RawMessage {
	if len(payload) == 0 {
		return nil
	}
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, payload); err != nil {
		return payload
	}
	// json.Marshal escapes <, > and & inside raw messages too
	var escaped bytes.Buffer
	json.HTMLEscape(&escaped, compacted.Bytes())
	return escaped.Bytes()
}

func recordPath(collection models.Collection, key string) string {
	return "/api/records/" + url.PathEscape(string(collection)) + "/" + url.PathEscape(key)
}

// Apply implements [RemoteAdapter]. Creates and updates are sent as
// PUT /api/records/{collection}/{key} with the snapshot payload; deletes as
// DELETE on the same path.
func (h *httpRemoteAdapter) Apply(ctx context.Context, entry models.QueueEntry) error {
	op := models.RemoteOperation{
		IdempotencyKey: entry.ID,
		Operation:      entry.Operation,
		Collection:     entry.Collection,
		Key:            entry.RecordKey,
		Category:       entry.Snapshot.Category,
		Timestamp:      entry.Snapshot.Timestamp,
	}
	if entry.Operation != models.OperationDelete {
		op.Payload = compactPayload(entry.Snapshot.Payload)
	}

	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	req.SetHeader(HeaderIdempotencyKey, entry.ID).
		SetHeader(HeaderContentHash, h.hasher.HashHex(op.Payload))

	path := recordPath(entry.Collection, entry.RecordKey)

	var resp *resty.Response
	if entry.Operation == models.OperationDelete {
		resp, err = req.Delete(path)
	} else {
		resp, err = req.
			SetHeader("Content-Type", "application/json").
			SetBody(op).
			Put(path)
	}
	if err != nil {
		return transportError("apply request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.logger.Debug().
		Str("func", "httpRemoteAdapter.Apply").
		Str("entry_id", entry.ID).
		Str("collection", string(entry.Collection)).
		Str("key", entry.RecordKey).
		Int("status", resp.StatusCode()).
		Msg("remote operation applied")

	return nil
}

// Fetch implements [RemoteAdapter]. GET /api/records/{collection}/{key}.
func (h *httpRemoteAdapter) Fetch(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.RemoteRecord{}, err
	}

	resp, err := req.Get(recordPath(collection, key))
	if err != nil {
		return models.RemoteRecord{}, transportError("fetch request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteRecord{}, err
	}

	var record models.RemoteRecord
	if err = json.Unmarshal(resp.Body(), &record); err != nil {
		return models.RemoteRecord{}, fmt.Errorf("%w: %w: %w", ErrRemoteFailure, ErrDecode, err)
	}
	if record.Deleted {
		return models.RemoteRecord{}, fmt.Errorf("%w: %w: record deleted", ErrRemoteFailure, ErrNotFound)
	}

	return record, nil
}

// Ping implements [RemoteAdapter]. GET /api/health.
func (h *httpRemoteAdapter) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return 0, transportError("ping request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

func (h *httpRemoteAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	req := h.client.R().SetContext(ctx)

	token, err := h.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w: issuing device token: %w", ErrRemoteFailure, ErrUnauthorized, err)
	}
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req, nil
}
