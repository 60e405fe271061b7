package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	SecurityHeaders(true)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	for name, want := range securityHeaders {
		if got := w.Header().Get(name); got != want {
			t.Errorf("Expected %s '%s', got '%s'", name, want, got)
		}
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("Expected no HSTS header over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	w = httptest.NewRecorder()
	SecurityHeaders(true)(handler).ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("Expected HSTS header over TLS")
	}

	w = httptest.NewRecorder()
	SecurityHeaders(false)(handler).ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("Expected no HSTS header when disabled")
	}
}
