package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/benvon/metric-tracker/internal/logger"
)

// maxErrorMessageLength bounds messages echoed back to clients
const maxErrorMessageLength = 200

// SuccessResponse is the envelope for successful API responses
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the envelope for failed API responses
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondJSONError sends an error JSON response with a sanitized message
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Error:     errorType,
		Message:   logger.SanitizeString(message, maxErrorMessageLength),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
