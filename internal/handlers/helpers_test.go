package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		data     any
		wantData string
	}{
		{
			name:     "object",
			status:   http.StatusOK,
			data:     map[string]string{"message": "hello"},
			wantData: `{"message":"hello"}`,
		},
		{
			name:     "nil data",
			status:   http.StatusCreated,
			data:     nil,
			wantData: `null`,
		},
		{
			name:     "slice with nil slot",
			status:   http.StatusOK,
			data:     []*struct{ ID string }{{ID: "a"}, nil},
			wantData: `[{"ID":"a"},null]`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			respondJSON(rr, tt.status, tt.data)

			if rr.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}

			var body struct {
				Success   bool            `json:"success"`
				Data      json.RawMessage `json:"data"`
				Timestamp string          `json:"timestamp"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if !body.Success {
				t.Error("Expected success to be true")
			}
			if body.Timestamp == "" {
				t.Error("Expected timestamp to be present")
			}
			if string(body.Data) != tt.wantData {
				t.Errorf("Expected data %s, got %s", tt.wantData, body.Data)
			}
		})
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		errorType string
		message   string
		validate  func(*testing.T, ErrorResponse)
	}{
		{
			name:      "not found",
			status:    http.StatusNotFound,
			errorType: "Not Found",
			message:   "Metric not found",
			validate: func(t *testing.T, body ErrorResponse) {
				if body.Message != "Metric not found" {
					t.Errorf("Expected message 'Metric not found', got '%s'", body.Message)
				}
			},
		},
		{
			name:      "long message is truncated",
			status:    http.StatusBadRequest,
			errorType: "Bad Request",
			message:   strings.Repeat("x", 500),
			validate: func(t *testing.T, body ErrorResponse) {
				if len(body.Message) != maxErrorMessageLength+len("...") {
					t.Errorf("Expected truncated message, got length %d", len(body.Message))
				}
			},
		},
		{
			name:      "control characters removed",
			status:    http.StatusBadRequest,
			errorType: "Bad Request",
			message:   "bad\x00input\x1b",
			validate: func(t *testing.T, body ErrorResponse) {
				if body.Message != "badinput" {
					t.Errorf("Expected 'badinput', got %q", body.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			respondJSONError(rr, tt.status, tt.errorType, tt.message)

			if rr.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rr.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Success {
				t.Error("Expected success to be false")
			}
			if body.Error != tt.errorType {
				t.Errorf("Expected error '%s', got '%s'", tt.errorType, body.Error)
			}
			tt.validate(t, body)
		})
	}
}
