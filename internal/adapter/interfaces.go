// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client for the remote record endpoint.
//
// The primary abstraction is [RemoteAdapter], which decouples the sync
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteAdapter]).
//
// Every error returned by the adapter wraps [ErrRemoteFailure]. Status codes
// are additionally mapped to sentinel values by mapHTTPError so callers can
// use [errors.Is] (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_adapter_mock.go -package=mock

// RemoteAdapter performs remote operations on behalf of the sync engine.
type RemoteAdapter interface {
	// Apply performs the operation described by entry. The entry ID is sent
	// as the idempotency key, so applying the same entry twice has one
	// effect on an idempotent remote.
	Apply(ctx context.Context, entry models.QueueEntry) error

	// Fetch returns the remote view of one record. Returns [ErrNotFound]
	// (wrapped) when the remote has no such record.
	Fetch(ctx context.Context, collection models.Collection, key string) (models.RemoteRecord, error)

	// Ping checks the remote is reachable and returns the round-trip time.
	Ping(ctx context.Context) (time.Duration, error)
}
