package httpx

import (
	"encoding/json"
	"net/http"
)

// Webhook envelope statuses shared by both inbound endpoints.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusIgnored = "ignored"
	StatusSkipped = "skipped"
	StatusDone    = "done"
)

// Result is the response envelope returned by every webhook endpoint.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Respond sends the webhook envelope with the given HTTP status.
func Respond(w http.ResponseWriter, httpStatus int, status, message string) {
	JSON(w, httpStatus, Result{Status: status, Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
