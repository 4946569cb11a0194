package httpx

import (
	"encoding/json"
	"net/http"
)

// errorPayload is the fixed error shape clients decode; message and fields
// are optional.
type errorPayload struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends a classified error with an optional display message.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorPayload{Error: code, Message: message})
}

// writeFieldErrors sends a validation error with per-field messages.
func writeFieldErrors(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, errorPayload{Error: code, Message: message, Fields: fields})
}
