package adapter

import "errors"

// ErrRemoteFailure wraps every failure to reach or be served by the remote.
// It is transient from the engine's point of view: the sync processor
// retries it with backoff.
var ErrRemoteFailure = errors.New("remote failure")

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServerError  = errors.New("remote server error")
	ErrUnavailable  = errors.New("remote unavailable")
	ErrTransport    = errors.New("transport error")
	ErrDecode       = errors.New("decode remote response")
)
