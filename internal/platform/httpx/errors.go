// Package httpx provides HTTP response utilities for the webhook endpoints.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the relay error taxonomy.
var (
	// ErrValidation marks a malformed or out-of-scope payload.
	ErrValidation = errors.New("invalid payload")
	// ErrNotFound marks a referenced product, item or pending move that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDownstream marks a non-auth failure from either external system.
	ErrDownstream = errors.New("downstream request failed")
	// ErrUnauthorized marks an expired credential after the single refresh retry.
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps relay errors to the webhook response envelope.
// Unexpected errors are reported as a generic 500 without leaking internals.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		Respond(w, http.StatusBadRequest, StatusError, err.Error())
	case errors.Is(err, ErrNotFound):
		Respond(w, http.StatusNotFound, StatusError, err.Error())
	case errors.Is(err, ErrDownstream), errors.Is(err, ErrUnauthorized):
		Respond(w, http.StatusInternalServerError, StatusError, err.Error())
	default:
		Respond(w, http.StatusInternalServerError, StatusError, "internal server error")
	}
}
