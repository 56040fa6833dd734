// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the HTTP layer. Callers can match against them with
// [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrPathMismatch is returned when the collection or key in a record body
	// differs from the request path.
	ErrPathMismatch = errors.New("body does not match request path")

	// ErrMissingIdempotencyKey is returned when a write carries no
	// Idempotency-Key header.
	ErrMissingIdempotencyKey = errors.New("missing Idempotency-Key header")

	// ErrInvalidQuery is returned for unparsable query parameters.
	ErrInvalidQuery = errors.New("invalid query parameter")
)
