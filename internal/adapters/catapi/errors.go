package catapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sony/gobreaker"
)

// FallbackMessage is the error text used when the upstream error body carries no message.
const FallbackMessage = "Failed to fetch cats"

// Sentinel kinds for client errors that are not upstream HTTP failures.
var (
	ErrDecode     = errors.New("decode cats response")
	ErrEmptyBreed = errors.New("breed name must not be empty")
	ErrBaseURL    = errors.New("invalid api base url")
)

// APIError is returned when a request to the cats API fails: either the API
// answered with a non-2xx status, or the request never got a response
// (StatusCode 0). Its text is the upstream "message" field, or FallbackMessage.
type APIError struct {
	StatusCode int
	Message    string

	cause error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the transport error behind a response-less failure.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Temporary reports whether retrying the call may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 0 ||
		e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// NoResponse reports whether the request failed before any response arrived.
func (e *APIError) NoResponse() bool {
	return e.StatusCode == 0
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAPIError reports whether err is a failed request to the cats API.
func IsAPIError(err error) bool {
	_, ok := AsAPIError(err)
	return ok
}

// IsUnavailable reports whether err came from an open or saturated breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func newAPIError(status int, body []byte) *APIError {
	msg := FallbackMessage
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &payload); err == nil && payload.Message != "" {
			msg = payload.Message
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}

func newTransportError(err error) *APIError {
	return &APIError{Message: FallbackMessage, cause: err}
}
