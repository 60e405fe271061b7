package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
)

const testOpenAPIDoc = `openapi: 3.0.3
info:
  title: test
  version: "1"
paths:
  /metrics:
    get:
      responses:
        '200':
          description: ok
`

func TestOpenAPIHandler(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(path, []byte(testOpenAPIDoc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r := mux.NewRouter()
	NewOpenAPIHandler(path).RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/x-yaml" {
		t.Errorf("Expected Content-Type 'application/x-yaml', got '%s'", ct)
	}
	if rr.Body.String() != testOpenAPIDoc {
		t.Error("Expected YAML document to be served unchanged")
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var doc map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Errorf("Expected openapi 3.0.3, got %v", doc["openapi"])
	}
}

func TestOpenAPIHandler_Missing(t *testing.T) {
	t.Parallel()

	h := NewOpenAPIHandler(filepath.Join(t.TempDir(), "missing.yaml"))
	for _, serve := range []http.HandlerFunc{h.ServeYAML, h.ServeJSON} {
		rr := httptest.NewRecorder()
		serve(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rr.Code)
		}
	}
}
