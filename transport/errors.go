package transport

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNoRefreshToken = errors.New("no refresh token available")

	genericErrorText = "an unexpected error occurred"
	networkErrorText = "network error - please check your connection"
)

// APIError is the uniform shape every transport failure is normalized into.
// Status is the HTTP status code, or 0 for failures that never yielded a response.
type APIError struct {
	Status  int
	Message string
	Data    interface{} // raw server error payload, if any
}

func (e *APIError) Error() string { return e.Message }

// newAPIError builds an APIError from a server error response body.
// A `message` (or `error`) field is used when present; absence degrades to a
// generic message, never a failure.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: genericErrorText}
	if len(body) == 0 {
		return apiErr
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	apiErr.Data = payload
	if msg, ok := payload["message"].(string); ok && msg != "" {
		apiErr.Message = msg
	} else if msg, ok := payload["error"].(string); ok && msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

// NormalizeError converts any error raised by a transport call into an APIError.
// It is pure and total: no side effects, never panics, never returns nil.
func NormalizeError(err error) *APIError {
	if err == nil {
		return &APIError{Message: genericErrorText}
	}

	cause := errors.Cause(err)
	if apiErr, ok := cause.(*APIError); ok {
		return apiErr
	}
	if _, ok := cause.(*url.Error); ok {
		// request went out, no response came back
		return &APIError{Status: 0, Message: networkErrorText}
	}
	msg := cause.Error()
	if msg == "" {
		msg = genericErrorText
	}
	return &APIError{Status: 0, Message: msg}
}
