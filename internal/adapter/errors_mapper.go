package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	var kind error
	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = ErrBadRequest
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		kind = ErrUnavailable
	default:
		if resp.StatusCode() >= http.StatusInternalServerError {
			kind = ErrServerError
		} else {
			return fmt.Errorf("%w: http %d: %s", ErrRemoteFailure, resp.StatusCode(), body)
		}
	}

	return fmt.Errorf("%w: %w: %s", ErrRemoteFailure, kind, body)
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %w: %s: %w", ErrRemoteFailure, ErrTransport, op, err)
}
