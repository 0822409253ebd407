package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error payload shape the SPA consumes. Key casing is
// part of the contract.
type ErrorResponse struct {
	Message   string `json:"Message"`
	ErrorCode string `json:"ErrorCode"`
	Details   any    `json:"Details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondError sends a JSON error response with a machine-readable error code.
func RespondError(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Message: message, ErrorCode: code}, statusCode)
}
