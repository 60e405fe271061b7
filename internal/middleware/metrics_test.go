package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/metric-tracker/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrument(t *testing.T) {
	t.Parallel()

	m := telemetry.NewMetrics()
	r := mux.NewRouter()
	r.Use(Instrument(m))
	r.HandleFunc("/api/v1/metrics/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/metrics/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/metrics/{id}", "404"))
	if got != 3 {
		t.Errorf("Expected 3 requests for the route template, got %v", got)
	}
	if n := testutil.CollectAndCount(m.HTTPDuration); n != 1 {
		t.Errorf("Expected 1 duration series, got %d", n)
	}
}

func TestRouteTemplate_Unmatched(t *testing.T) {
	t.Parallel()

	if got := routeTemplate(httptest.NewRequest(http.MethodGet, "/nowhere", nil)); got != unmatchedRoute {
		t.Errorf("Expected '%s', got '%s'", unmatchedRoute, got)
	}
}
