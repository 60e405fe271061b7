package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.HTTPRequests.WithLabelValues("GET", "/api/v1/metrics", "200").Inc()
	m.Operations.WithLabelValues("create", "ok").Add(2)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"metric_tracker_http_requests_total",
		"metric_tracker_tracker_operations_total",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Expected exposition to contain %s", want)
		}
	}

	if got := testutil.ToFloat64(m.Operations.WithLabelValues("create", "ok")); got != 2 {
		t.Errorf("Expected 2 create/ok operations, got %v", got)
	}
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	// each instance owns its registry so tests never collide on registration
	a, b := NewMetrics(), NewMetrics()
	if a.Registry() == b.Registry() {
		t.Error("Expected distinct registries")
	}
}
